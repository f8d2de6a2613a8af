package model

// Signal tags the scoring input that produced a contribution or reason.
type Signal string

const (
	SignalForm         Signal = "form"
	SignalFixtureEase  Signal = "fixture_ease"
	SignalHome         Signal = "home_advantage"
	SignalPosition     Signal = "position"
	SignalHeadToHead   Signal = "head_to_head"
	SignalThreat       Signal = "threat"
	SignalAvailability Signal = "availability"
)

// Reason is one human-readable line explaining part of a score.
type Reason struct {
	Signal Signal `json:"signal"`
	Text   string `json:"text"`
}

// ScoreBreakdown holds each signal's contribution and the ordered reasons.
type ScoreBreakdown struct {
	Form          float64  `json:"form"`
	FixtureEase   float64  `json:"fixture_ease"`
	HomeAdvantage float64  `json:"home_advantage"`
	Position      float64  `json:"position"`
	HeadToHead    float64  `json:"head_to_head"`
	Threat        float64  `json:"threat"`
	Availability  float64  `json:"availability"`
	Total         float64  `json:"total"`
	Reasons       []Reason `json:"reasons"`
}

// ReasonTexts returns the reason strings in order.
func (b ScoreBreakdown) ReasonTexts() []string {
	out := make([]string, 0, len(b.Reasons))
	for _, r := range b.Reasons {
		out = append(out, r.Text)
	}
	return out
}

// CaptaincyRecommendation is one ranked captaincy candidate.
type CaptaincyRecommendation struct {
	Candidate        CandidatePlayer    `json:"candidate"`
	Breakdown        ScoreBreakdown     `json:"breakdown"`
	Fixture          *NormalizedFixture `json:"fixture,omitempty"`
	Rank             int                `json:"rank"`
	IsCurrentCaptain bool               `json:"is_current_captain"`
}
