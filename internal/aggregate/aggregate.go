// Package aggregate fetches match history and upcoming fixtures for a set of
// players with bounded concurrency. A failure for one player never affects
// another: it degrades to empty data for that player only.
package aggregate

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/aatrey56/fpl-captain-mcp/internal/metrics"
	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

// DefaultWidth is the number of fetches allowed in flight at once.
const DefaultWidth = 5

// DetailSource returns one player's match history and upcoming fixtures
// (fixtures earliest first).
type DetailSource interface {
	PlayerDetail(ctx context.Context, elementID int) ([]model.MatchHistoryRecord, []model.UpcomingFixture, error)
}

// PlayerData is the aggregated data for one player. History and Fixtures are
// never nil. Err is set when the fetch failed and the lists were emptied.
type PlayerData struct {
	History  []model.MatchHistoryRecord
	Fixtures []model.UpcomingFixture
	Err      error
}

// Failed reports whether the player's fetch failed.
func (d PlayerData) Failed() bool {
	return d.Err != nil
}

type Aggregator struct {
	Source  DetailSource
	Width   int
	Timeout time.Duration
	Logger  *logrus.Entry
	Metrics *metrics.Manager
}

func New(src DetailSource, logger *logrus.Entry) *Aggregator {
	return &Aggregator{
		Source: src,
		Width:  DefaultWidth,
		Logger: logger,
	}
}

// Fetch returns an entry for every distinct id in ids. It never returns an
// error: failed or timed-out fetches map to empty lists with Err set.
func (a *Aggregator) Fetch(ctx context.Context, ids []int) map[int]PlayerData {
	unique := dedupe(ids)
	slots := make([]PlayerData, len(unique))

	width := a.Width
	if width <= 0 {
		width = DefaultWidth
	}
	var g errgroup.Group
	g.SetLimit(width)
	for i, id := range unique {
		g.Go(func() error {
			slots[i] = a.fetchOne(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[int]PlayerData, len(unique))
	for i, id := range unique {
		out[id] = slots[i]
	}
	return out
}

func (a *Aggregator) fetchOne(ctx context.Context, id int) PlayerData {
	start := time.Now()
	history, fixtures, err := a.detail(ctx, id)
	a.Metrics.ObservePlayerFetch(err == nil, time.Since(start))
	if err != nil {
		a.logger().WithFields(logrus.Fields{
			"element": id,
			"elapsed": time.Since(start).String(),
		}).WithError(err).Warn("player detail fetch failed; using empty data")
		return PlayerData{
			History:  []model.MatchHistoryRecord{},
			Fixtures: []model.UpcomingFixture{},
			Err:      err,
		}
	}
	return PlayerData{
		History:  sortHistory(history),
		Fixtures: SortFixtures(fixtures),
	}
}

// detail calls the source under the per-fetch timeout and turns a panic into
// an ordinary error so it stays isolated to this player.
func (a *Aggregator) detail(ctx context.Context, id int) (history []model.MatchHistoryRecord, fixtures []model.UpcomingFixture, err error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}
	defer func() {
		if r := recover(); r != nil {
			history, fixtures, err = nil, nil, fmt.Errorf("player detail %d panicked: %v", id, r)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return a.Source.PlayerDetail(ctx, id)
}

func (a *Aggregator) logger() *logrus.Entry {
	if a.Logger != nil {
		return a.Logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func sortHistory(in []model.MatchHistoryRecord) []model.MatchHistoryRecord {
	out := make([]model.MatchHistoryRecord, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Round < out[j].Round
	})
	return out
}

// SortFixtures returns a copy of fixtures ordered earliest first (event,
// then fixture id). Fixtures without an event (postponed, not yet
// rescheduled) go last.
func SortFixtures(in []model.UpcomingFixture) []model.UpcomingFixture {
	out := make([]model.UpcomingFixture, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		ei, ej := out[i].Event, out[j].Event
		if (ei == 0) != (ej == 0) {
			return ej == 0
		}
		if ei != ej {
			return ei < ej
		}
		return out[i].ID < out[j].ID
	})
	return out
}
