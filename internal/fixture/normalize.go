// Package fixture resolves a player's next upcoming fixture into a canonical
// opponent / home / difficulty view.
package fixture

import (
	"math"

	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultDifficulty = 3
)

// Normalize resolves fixtures[0] for a player on teamID. ok is false when
// there is no upcoming fixture.
//
// Precedence: an explicit opponent id wins and is paired with the stated home
// flag. Without one, the home flag decides which of team_h/team_a is the
// opponent. A missing home flag is derived from team_h == teamID.
func Normalize(teamID int, fixtures []model.UpcomingFixture) (model.NormalizedFixture, bool) {
	if len(fixtures) == 0 {
		return model.NormalizedFixture{}, false
	}
	f := fixtures[0]

	home := f.TeamH == teamID
	if f.IsHome != nil {
		home = *f.IsHome
	}

	opponent := f.OpponentTeam
	if opponent == 0 {
		if home {
			opponent = f.TeamA
		} else {
			opponent = f.TeamH
		}
	}

	return model.NormalizedFixture{
		Event:        f.Event,
		OpponentTeam: opponent,
		IsHome:       home,
		Difficulty:   Difficulty(f, home),
	}, true
}

// Difficulty picks the player-perspective rating, then the rating for the
// player's side, then DefaultDifficulty. The result is clamped to 1..5.
func Difficulty(f model.UpcomingFixture, home bool) int {
	side := f.TeamADifficulty
	if home {
		side = f.TeamHDifficulty
	}
	for _, r := range []model.Rating{f.Difficulty, side} {
		if r.Valid && !math.IsNaN(r.Value) && !math.IsInf(r.Value, 0) {
			return clamp(int(math.Round(r.Value)))
		}
	}
	return DefaultDifficulty
}

func clamp(d int) int {
	if d < MinDifficulty {
		return MinDifficulty
	}
	if d > MaxDifficulty {
		return MaxDifficulty
	}
	return d
}
