package fpl

import (
	"context"
	"fmt"

	"github.com/aatrey56/fpl-captain-mcp/internal/fetch"
	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

// Source serves the player-detail, roster and team-directory collaborators
// from the FPL API via a caching fetch.Client.
type Source struct {
	Client *fetch.Client
	// Force bypasses the raw cache on every request.
	Force bool
}

func NewSource(c *fetch.Client) *Source {
	return &Source{Client: c}
}

func (s *Source) PlayerDetail(ctx context.Context, elementID int) ([]model.MatchHistoryRecord, []model.UpcomingFixture, error) {
	raw, err := s.Client.ElementSummary(ctx, elementID, s.Force)
	if err != nil {
		return nil, nil, err
	}
	history, fixtures, err := DecodeElementSummary(raw)
	if err != nil {
		return nil, nil, fmt.Errorf("element %d: %w", elementID, err)
	}
	return history, fixtures, nil
}

func (s *Source) Bootstrap(ctx context.Context) (Bootstrap, error) {
	raw, err := s.Client.BootstrapStatic(ctx, s.Force)
	if err != nil {
		return Bootstrap{}, err
	}
	return DecodeBootstrap(raw)
}

func (s *Source) Directory(ctx context.Context) (map[int]model.DirectoryEntry, map[int]model.Team, error) {
	b, err := s.Bootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}
	return b.Directory, b.Teams, nil
}

func (s *Source) Picks(ctx context.Context, entryID int, gw int) ([]model.Pick, error) {
	raw, err := s.Client.EntryPicks(ctx, entryID, gw, s.Force)
	if err != nil {
		return nil, err
	}
	picks, err := DecodePicks(raw)
	if err != nil {
		return nil, fmt.Errorf("entry %d gw %d: %w", entryID, gw, err)
	}
	return picks, nil
}

// CurrentEvent resolves gw 0 to the current gameweek, falling back to the
// next one before the season starts.
func (s *Source) CurrentEvent(ctx context.Context) (int, error) {
	b, err := s.Bootstrap(ctx)
	if err != nil {
		return 0, err
	}
	current, next := b.CurrentAndNext()
	if current == 0 {
		current = next
	}
	if current == 0 {
		return 0, fmt.Errorf("current event missing in bootstrap-static")
	}
	return current, nil
}
