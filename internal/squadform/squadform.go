// Package squadform splits a starting eleven into in-form and out-of-form
// buckets with each player's last-five rolling points average.
package squadform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aatrey56/fpl-captain-mcp/internal/aggregate"
	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

const (
	// Window is the number of most recent history records averaged.
	Window = 5
	// InFormThreshold is the form value at or above which a player is in form.
	InFormThreshold = 4.0
)

type Entry struct {
	Candidate model.CandidatePlayer `json:"candidate"`
	// LastFive holds points for the most recent records, oldest first.
	LastFive []int   `json:"last_five"`
	Average  float64 `json:"average_last_five"`
	InForm   bool    `json:"in_form"`
	// NoData is set when the player's history fetch failed.
	NoData bool `json:"no_data,omitempty"`
}

type Report struct {
	InForm    []Entry `json:"in_form"`
	OutOfForm []Entry `json:"out_of_form"`
}

// Build computes the report for candidates using their aggregated history.
// Candidates missing from data are treated as having no history. Bucket
// order follows candidate order.
func Build(candidates []model.CandidatePlayer, data map[int]aggregate.PlayerData) Report {
	r := Report{InForm: []Entry{}, OutOfForm: []Entry{}}
	for _, c := range candidates {
		d := data[c.ID]
		last := lastN(d.History, Window)
		e := Entry{
			Candidate: c,
			LastFive:  last,
			Average:   average(last),
			InForm:    c.Form >= InFormThreshold,
			NoData:    d.Failed(),
		}
		if e.InForm {
			r.InForm = append(r.InForm, e)
		} else {
			r.OutOfForm = append(r.OutOfForm, e)
		}
	}
	return r
}

func lastN(history []model.MatchHistoryRecord, n int) []int {
	if len(history) > n {
		history = history[len(history)-n:]
	}
	out := make([]int, 0, len(history))
	for _, h := range history {
		out = append(out, h.Points)
	}
	return out
}

func average(points []int) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range points {
		sum += p
	}
	return float64(sum) / float64(len(points))
}

// SortKey names a bucket ordering.
type SortKey string

const (
	SortForm     SortKey = "form"
	SortPosition SortKey = "position"
	SortAverage  SortKey = "average"
)

// ParseSortKey accepts "form", "position" or "average". Empty means form.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortForm:
		return SortForm, nil
	case SortPosition:
		return SortPosition, nil
	case SortAverage:
		return SortAverage, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want form, position or average)", s)
	}
}

// Sort returns a copy of entries ordered by key: form and average descending,
// position by ascending position code. Ties keep their input order.
func Sort(entries []Entry, key SortKey) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	var less func(a, b Entry) bool
	switch key {
	case SortPosition:
		less = func(a, b Entry) bool { return a.Candidate.Position < b.Candidate.Position }
	case SortAverage:
		less = func(a, b Entry) bool { return a.Average > b.Average }
	default:
		less = func(a, b Entry) bool { return a.Candidate.Form > b.Candidate.Form }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Sorted returns the report with both buckets ordered by key.
func (r Report) Sorted(key SortKey) Report {
	return Report{
		InForm:    Sort(r.InForm, key),
		OutOfForm: Sort(r.OutOfForm, key),
	}
}
