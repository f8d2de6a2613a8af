package model

// MatchHistoryRecord is one completed fixture a player appeared in.
type MatchHistoryRecord struct {
	Round        int  `json:"round"`
	Points       int  `json:"points"`
	Minutes      int  `json:"minutes"`
	OpponentTeam int  `json:"opponent_team"`
	WasHome      bool `json:"was_home"`
}

// Rating is an optional 1-5 difficulty value. Valid is false when the
// upstream field was missing or non-numeric.
type Rating struct {
	Value float64
	Valid bool
}

// RatingOf returns a valid Rating holding v.
func RatingOf(v float64) Rating {
	return Rating{Value: v, Valid: true}
}

// UpcomingFixture is the raw upstream fixture shape. Home/away and the
// opponent are not guaranteed to be present and may need deriving.
type UpcomingFixture struct {
	ID    int `json:"id"`
	Event int `json:"event"`
	TeamH int `json:"team_h"`
	TeamA int `json:"team_a"`

	// IsHome is nil when the payload carries no home flag.
	IsHome *bool `json:"is_home,omitempty"`
	// OpponentTeam is 0 when the payload carries no explicit opponent.
	OpponentTeam int `json:"opponent_team,omitempty"`

	Difficulty      Rating `json:"-"`
	TeamHDifficulty Rating `json:"-"`
	TeamADifficulty Rating `json:"-"`
}

// NormalizedFixture is the canonical next-fixture view for one player.
type NormalizedFixture struct {
	Event        int  `json:"event,omitempty"`
	OpponentTeam int  `json:"opponent_team"`
	IsHome       bool `json:"is_home"`
	Difficulty   int  `json:"difficulty"`
}
