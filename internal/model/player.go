package model

import "strings"

// Position is the upstream element_type code.
type Position int

const (
	PositionUnknown    Position = 0
	PositionGoalkeeper Position = 1
	PositionDefender   Position = 2
	PositionMidfielder Position = 3
	PositionForward    Position = 4
)

func (p Position) String() string {
	switch p {
	case PositionGoalkeeper:
		return "GK"
	case PositionDefender:
		return "DEF"
	case PositionMidfielder:
		return "MID"
	case PositionForward:
		return "FWD"
	default:
		return "UNK"
	}
}

// Availability is the coarse playing status used by the scorer.
type Availability string

const (
	Available   Availability = "available"
	Doubtful    Availability = "doubtful"
	Unavailable Availability = "unavailable"
)

// AvailabilityFromStatus maps an upstream status code to an Availability.
// "a" is available, "d" doubtful; injured, suspended, unavailable and
// not-in-squad codes all collapse to Unavailable.
func AvailabilityFromStatus(status string) Availability {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "", "a", "available":
		return Available
	case "d", "doubtful":
		return Doubtful
	default:
		return Unavailable
	}
}

// Team is a Premier League club from the team directory.
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}

// DirectoryEntry is one player from the full player directory.
type DirectoryEntry struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	TeamID      int          `json:"team_id"`
	Position    Position     `json:"position"`
	Form        float64      `json:"form"`
	Cost        int          `json:"cost"`
	GoalsScored int          `json:"goals_scored"`
	Assists     int          `json:"assists"`
	CleanSheets int          `json:"clean_sheets"`
	TotalPoints int          `json:"total_points"`
	Threat      float64      `json:"threat"`
	Status      Availability `json:"status"`
}

// Pick is one squad slot from the picks collaborator. Slots 1-11 start,
// 12-15 are the bench.
type Pick struct {
	Element       int  `json:"element"`
	Position      int  `json:"position"`
	Multiplier    int  `json:"multiplier"`
	IsCaptain     bool `json:"is_captain"`
	IsViceCaptain bool `json:"is_vice_captain"`
}

// Starting reports whether the pick is in the starting eleven.
func (p Pick) Starting() bool {
	return p.Position >= 1 && p.Position <= 11
}

// CandidatePlayer is an immutable snapshot of one starting-lineup player.
type CandidatePlayer struct {
	ID            int          `json:"id"`
	Name          string       `json:"name"`
	TeamID        int          `json:"team_id"`
	Position      Position     `json:"position"`
	Form          float64      `json:"form"`
	Cost          int          `json:"cost"`
	GoalsScored   int          `json:"goals_scored"`
	Assists       int          `json:"assists"`
	CleanSheets   int          `json:"clean_sheets"`
	TotalPoints   int          `json:"total_points"`
	Threat        float64      `json:"threat"`
	Status        Availability `json:"status"`
	Starting      bool         `json:"starting"`
	LineupSlot    int          `json:"lineup_slot"`
	Multiplier    int          `json:"multiplier"`
	IsCaptain     bool         `json:"is_captain"`
	IsViceCaptain bool         `json:"is_vice_captain"`
}
