package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aatrey56/fpl-captain-mcp/internal/aggregate"
	"github.com/aatrey56/fpl-captain-mcp/internal/fixture"
	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

// PlayerLookupArgs are the input arguments for the player_lookup and
// next_fixture tools.
type PlayerLookupArgs struct {
	ElementID  *int    `json:"element_id,omitempty" jsonschema:"Player element id"`
	PlayerName *string `json:"player_name,omitempty" jsonschema:"Player name (if element_id not provided)"`
}

// PlayerLookupOutput is the output of the player_lookup tool.
type PlayerLookupOutput struct {
	Player       model.DirectoryEntry `json:"player"`
	PositionName string               `json:"position_name"`
	Team         model.Team           `json:"team"`
}

// NextFixtureOutput is the output of the next_fixture tool.
type NextFixtureOutput struct {
	ElementID  int    `json:"element_id"`
	PlayerName string `json:"player_name"`
	Team       string `json:"team"`

	// Fixture is nil when the player has no upcoming fixture.
	Fixture  *model.NormalizedFixture `json:"fixture"`
	Opponent string                   `json:"opponent,omitempty"`
	Venue    string                   `json:"venue,omitempty"`
	Upcoming int                      `json:"upcoming_fixtures"`
}

func buildPlayerLookup(ctx context.Context, a *app, args PlayerLookupArgs) (PlayerLookupOutput, error) {
	dir, teams, err := a.source.Directory(ctx)
	if err != nil {
		return PlayerLookupOutput{}, err
	}
	p, err := resolvePlayer(dir, args)
	if err != nil {
		return PlayerLookupOutput{}, err
	}
	return PlayerLookupOutput{
		Player:       p,
		PositionName: p.Position.String(),
		Team:         teams[p.TeamID],
	}, nil
}

func buildNextFixture(ctx context.Context, a *app, args PlayerLookupArgs) (NextFixtureOutput, error) {
	dir, teams, err := a.source.Directory(ctx)
	if err != nil {
		return NextFixtureOutput{}, err
	}
	p, err := resolvePlayer(dir, args)
	if err != nil {
		return NextFixtureOutput{}, err
	}
	_, fixtures, err := a.source.PlayerDetail(ctx, p.ID)
	if err != nil {
		return NextFixtureOutput{}, err
	}
	fixtures = aggregate.SortFixtures(fixtures)

	out := NextFixtureOutput{
		ElementID:  p.ID,
		PlayerName: p.Name,
		Team:       teamShort(teams, p.TeamID),
		Upcoming:   len(fixtures),
	}
	if nf, ok := fixture.Normalize(p.TeamID, fixtures); ok {
		out.Fixture = &nf
		out.Opponent = teamShort(teams, nf.OpponentTeam)
		out.Venue = "away"
		if nf.IsHome {
			out.Venue = "home"
		}
	}
	return out, nil
}

// resolvePlayer finds a player by id, or by a case-insensitive name match.
// An exact name match wins over a substring match. Ambiguous names are an
// error listing the candidates.
func resolvePlayer(dir map[int]model.DirectoryEntry, args PlayerLookupArgs) (model.DirectoryEntry, error) {
	if args.ElementID != nil && *args.ElementID > 0 {
		p, ok := dir[*args.ElementID]
		if !ok {
			return model.DirectoryEntry{}, fmt.Errorf("player not found: %d", *args.ElementID)
		}
		return p, nil
	}
	name := ""
	if args.PlayerName != nil {
		name = strings.ToLower(strings.TrimSpace(*args.PlayerName))
	}
	if name == "" {
		return model.DirectoryEntry{}, fmt.Errorf("element_id or player_name is required")
	}

	var exact, partial []model.DirectoryEntry
	for _, p := range dir {
		n := strings.ToLower(p.Name)
		switch {
		case n == name:
			exact = append(exact, p)
		case strings.Contains(n, name):
			partial = append(partial, p)
		}
	}
	matches := exact
	if len(matches) == 0 {
		matches = partial
	}
	switch len(matches) {
	case 0:
		return model.DirectoryEntry{}, fmt.Errorf("player not found: %q", name)
	case 1:
		return matches[0], nil
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, fmt.Sprintf("%s (%d)", m.Name, m.ID))
	}
	return model.DirectoryEntry{}, fmt.Errorf("player name %q is ambiguous: %s", name, strings.Join(names, ", "))
}

func teamShort(teams map[int]model.Team, id int) string {
	if t, ok := teams[id]; ok && t.ShortName != "" {
		return t.ShortName
	}
	return fmt.Sprintf("Team %d", id)
}
