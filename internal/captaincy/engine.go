package captaincy

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/aatrey56/fpl-captain-mcp/internal/aggregate"
	"github.com/aatrey56/fpl-captain-mcp/internal/fixture"
	"github.com/aatrey56/fpl-captain-mcp/internal/metrics"
	"github.com/aatrey56/fpl-captain-mcp/internal/model"
	"github.com/aatrey56/fpl-captain-mcp/internal/roster"
	"github.com/aatrey56/fpl-captain-mcp/internal/squadform"
)

// RosterSource supplies a manager's picks and the player and team
// directories.
type RosterSource interface {
	Picks(ctx context.Context, entryID int, gw int) ([]model.Pick, error)
	Directory(ctx context.Context) (map[int]model.DirectoryEntry, map[int]model.Team, error)
	CurrentEvent(ctx context.Context) (int, error)
}

// Report is the result of one recommendation run.
type Report struct {
	RunID    string `json:"run_id"`
	EntryID  int    `json:"entry_id,omitempty"`
	Gameweek int    `json:"gameweek,omitempty"`

	Recommendations []model.CaptaincyRecommendation `json:"recommendations"`

	RecommendedCaptain     int  `json:"recommended_captain,omitempty"`
	RecommendedViceCaptain int  `json:"recommended_vice_captain,omitempty"`
	CurrentCaptain         int  `json:"current_captain,omitempty"`
	ChangeSuggested        bool `json:"change_suggested"`
	// FailedFetches lists candidates scored without history or fixtures.
	FailedFetches []int `json:"failed_fetches"`
}

// SquadFormReport wraps a squad-form report with its run metadata.
type SquadFormReport struct {
	RunID    string `json:"run_id"`
	EntryID  int    `json:"entry_id,omitempty"`
	Gameweek int    `json:"gameweek,omitempty"`

	squadform.Report

	FailedFetches []int `json:"failed_fetches"`
}

// Engine runs the aggregate, normalize, score and rank pipeline.
type Engine struct {
	Roster     RosterSource
	Aggregator *aggregate.Aggregator
	// Teams names opponents in reason text when Recommend is called
	// directly. RecommendForEntry uses the freshly loaded directory.
	Teams   map[int]model.Team
	Logger  *logrus.Entry
	Metrics *metrics.Manager
}

func NewEngine(rs RosterSource, agg *aggregate.Aggregator, logger *logrus.Entry, m *metrics.Manager) *Engine {
	return &Engine{
		Roster:     rs,
		Aggregator: agg,
		Logger:     logger,
		Metrics:    m,
	}
}

// Recommend scores and ranks candidates. An empty candidate set gives an
// empty recommendation list. Per-player fetch failures are reported in
// FailedFetches and never fail the run.
func (e *Engine) Recommend(ctx context.Context, candidates []model.CandidatePlayer) Report {
	return e.recommend(ctx, candidates, e.Teams)
}

// RecommendForEntry loads the entry's picks for gw (0 means the current
// gameweek) and recommends a captain from its starting eleven.
func (e *Engine) RecommendForEntry(ctx context.Context, entryID, gw int) (Report, error) {
	candidates, teams, gw, err := e.loadCandidates(ctx, entryID, gw)
	if err != nil {
		return Report{}, err
	}
	r := e.recommend(ctx, candidates, teams)
	r.EntryID = entryID
	r.Gameweek = gw
	return r, nil
}

// SquadForm loads the entry's starting eleven and builds the squad-form
// report from the same aggregation step.
func (e *Engine) SquadForm(ctx context.Context, entryID, gw int) (SquadFormReport, error) {
	candidates, _, gw, err := e.loadCandidates(ctx, entryID, gw)
	if err != nil {
		return SquadFormReport{}, err
	}
	runID := uuid.NewString()
	data := e.Aggregator.Fetch(ctx, candidateIDs(candidates))
	rep := SquadFormReport{
		RunID:         runID,
		EntryID:       entryID,
		Gameweek:      gw,
		Report:        squadform.Build(candidates, data),
		FailedFetches: failedIDs(data),
	}
	e.logger().WithFields(logrus.Fields{
		"run_id":      runID,
		"entry":       entryID,
		"gw":          gw,
		"in_form":     len(rep.InForm),
		"out_of_form": len(rep.OutOfForm),
		"failed":      len(rep.FailedFetches),
	}).Info("squad form built")
	return rep, nil
}

func (e *Engine) loadCandidates(ctx context.Context, entryID, gw int) ([]model.CandidatePlayer, map[int]model.Team, int, error) {
	if e.Roster == nil {
		return nil, nil, 0, fmt.Errorf("no roster source configured")
	}
	if gw <= 0 {
		cur, err := e.Roster.CurrentEvent(ctx)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("resolve current gameweek: %w", err)
		}
		gw = cur
	}
	picks, err := e.Roster.Picks(ctx, entryID, gw)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("load picks for entry %d gw %d: %w", entryID, gw, err)
	}
	dir, teams, err := e.Roster.Directory(ctx)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("load player directory: %w", err)
	}
	candidates := roster.Candidates(picks, dir)
	if dropped := countStarting(picks) - len(candidates); dropped > 0 {
		e.logger().WithFields(logrus.Fields{
			"entry":   entryID,
			"gw":      gw,
			"dropped": dropped,
		}).Warn("starting picks missing from player directory")
	}
	return candidates, teams, gw, nil
}

func (e *Engine) recommend(ctx context.Context, candidates []model.CandidatePlayer, teams map[int]model.Team) Report {
	start := time.Now()
	r := Report{
		RunID:           uuid.NewString(),
		Recommendations: []model.CaptaincyRecommendation{},
		FailedFetches:   []int{},
	}
	if len(candidates) == 0 {
		e.logger().WithField("run_id", r.RunID).Info("no scorable candidates")
		e.Metrics.ObserveRecommendation(0, false, time.Since(start))
		return r
	}

	data := e.Aggregator.Fetch(ctx, candidateIDs(candidates))
	scorer := Scorer{Teams: teams}
	scored := make([]Scored, 0, len(candidates))
	for _, c := range candidates {
		d := data[c.ID]
		var fx *model.NormalizedFixture
		if nf, ok := fixture.Normalize(c.TeamID, d.Fixtures); ok {
			fx = &nf
		}
		scored = append(scored, Scored{
			Candidate: c,
			Breakdown: scorer.Score(c, fx, d.History),
			Fixture:   fx,
		})
		if c.IsCaptain && r.CurrentCaptain == 0 {
			r.CurrentCaptain = c.ID
		}
	}

	r.Recommendations = Rank(scored)
	r.FailedFetches = failedIDs(data)
	r.RecommendedCaptain = r.Recommendations[0].Candidate.ID
	if len(r.Recommendations) > 1 {
		r.RecommendedViceCaptain = r.Recommendations[1].Candidate.ID
	}
	r.ChangeSuggested = r.RecommendedCaptain != r.CurrentCaptain

	e.Metrics.ObserveRecommendation(len(candidates), r.ChangeSuggested, time.Since(start))
	e.logger().WithFields(logrus.Fields{
		"run_id":     r.RunID,
		"candidates": len(candidates),
		"captain":    r.RecommendedCaptain,
		"vice":       r.RecommendedViceCaptain,
		"change":     r.ChangeSuggested,
		"failed":     len(r.FailedFetches),
		"elapsed":    time.Since(start).String(),
	}).Info("captaincy recommendation ready")
	return r
}

func (e *Engine) logger() *logrus.Entry {
	if e.Logger != nil {
		return e.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func candidateIDs(candidates []model.CandidatePlayer) []int {
	ids := make([]int, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	return ids
}

func failedIDs(data map[int]aggregate.PlayerData) []int {
	out := []int{}
	for id, d := range data {
		if d.Failed() {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

func countStarting(picks []model.Pick) int {
	n := 0
	for _, p := range picks {
		if p.Starting() {
			n++
		}
	}
	return n
}
