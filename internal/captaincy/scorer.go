// Package captaincy scores and ranks captaincy candidates and explains the
// ranking with per-signal reasons.
package captaincy

import (
	"fmt"

	"github.com/aatrey56/fpl-captain-mcp/internal/fixture"
	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

// Scoring constants.
const (
	FormWeight          = 4.0
	FixtureEaseWeight   = 6.0
	HomeBonus           = 10.0
	ForwardBonus        = 5.0
	MidfielderBonus     = 3.0
	HeadToHeadBonus     = 10.0
	HeadToHeadMinGames  = 2
	HeadToHeadMinAvg    = 6.0
	ThreatBonus         = 5.0
	ThreatThreshold     = 50.0
	AvailabilityPenalty = -50.0
)

// input is everything one signal evaluator may look at.
type input struct {
	c       model.CandidatePlayer
	fx      *model.NormalizedFixture
	history []model.MatchHistoryRecord
	teams   map[int]model.Team
}

func (in input) difficulty() int {
	if in.fx == nil {
		return fixture.DefaultDifficulty
	}
	return in.fx.Difficulty
}

// evaluator returns a contribution and its reason. An empty reason means the
// signal did not qualify and adds nothing to the explanation.
type evaluator func(in input) (float64, string)

type signal struct {
	tag  model.Signal
	eval evaluator
	// field selects the breakdown slot the contribution is written to.
	field func(b *model.ScoreBreakdown) *float64
}

// signals is evaluated top to bottom; reasons keep this order.
var signals = []signal{
	{model.SignalForm, evalForm, func(b *model.ScoreBreakdown) *float64 { return &b.Form }},
	{model.SignalFixtureEase, evalFixtureEase, func(b *model.ScoreBreakdown) *float64 { return &b.FixtureEase }},
	{model.SignalHome, evalHome, func(b *model.ScoreBreakdown) *float64 { return &b.HomeAdvantage }},
	{model.SignalPosition, evalPosition, func(b *model.ScoreBreakdown) *float64 { return &b.Position }},
	{model.SignalHeadToHead, evalHeadToHead, func(b *model.ScoreBreakdown) *float64 { return &b.HeadToHead }},
	{model.SignalThreat, evalThreat, func(b *model.ScoreBreakdown) *float64 { return &b.Threat }},
	{model.SignalAvailability, evalAvailability, func(b *model.ScoreBreakdown) *float64 { return &b.Availability }},
}

// Scorer computes captaincy scores. Teams is only used to name opponents in
// reason text and may be nil.
type Scorer struct {
	Teams map[int]model.Team
}

// Score returns the breakdown for one candidate. fx is nil when the candidate
// has no upcoming fixture. Score is pure: identical inputs give identical
// output.
func (s Scorer) Score(c model.CandidatePlayer, fx *model.NormalizedFixture, history []model.MatchHistoryRecord) model.ScoreBreakdown {
	in := input{c: c, fx: fx, history: history, teams: s.Teams}
	b := model.ScoreBreakdown{Reasons: make([]model.Reason, 0, len(signals))}
	for _, sig := range signals {
		v, reason := sig.eval(in)
		*sig.field(&b) = v
		b.Total += v
		if reason != "" {
			b.Reasons = append(b.Reasons, model.Reason{Signal: sig.tag, Text: reason})
		}
	}
	return b
}

// Score is Scorer{}.Score.
func Score(c model.CandidatePlayer, fx *model.NormalizedFixture, history []model.MatchHistoryRecord) model.ScoreBreakdown {
	return Scorer{}.Score(c, fx, history)
}

func evalForm(in input) (float64, string) {
	f := in.c.Form
	var band string
	switch {
	case f >= 6:
		band = "Excellent"
	case f >= 4:
		band = "Good"
	case f >= 2:
		band = "Modest"
	default:
		band = "Poor"
	}
	return f * FormWeight, band + " recent form"
}

func evalFixtureEase(in input) (float64, string) {
	d := in.difficulty()
	v := float64(fixture.MaxDifficulty-d) * FixtureEaseWeight
	if in.fx == nil {
		return v, "No fixture data, assuming average difficulty"
	}
	opp := teamName(in.teams, in.fx.OpponentTeam)
	switch {
	case d <= 2:
		return v, fmt.Sprintf("Favourable fixture against %s", opp)
	case d == 3:
		return v, fmt.Sprintf("Average fixture against %s", opp)
	default:
		return v, fmt.Sprintf("Tough fixture against %s", opp)
	}
}

func evalHome(in input) (float64, string) {
	if in.fx == nil || !in.fx.IsHome {
		return 0, ""
	}
	return HomeBonus, "Playing at home"
}

func evalPosition(in input) (float64, string) {
	switch in.c.Position {
	case model.PositionForward:
		return ForwardBonus, "Forwards score the most attacking returns"
	case model.PositionMidfielder:
		return MidfielderBonus, "Midfielders earn extra points for goals"
	default:
		return 0, ""
	}
}

func evalHeadToHead(in input) (float64, string) {
	if in.fx == nil {
		return 0, ""
	}
	n, avg := headToHead(in.history, in.fx.OpponentTeam)
	if n < HeadToHeadMinGames || avg < HeadToHeadMinAvg {
		return 0, ""
	}
	return HeadToHeadBonus, fmt.Sprintf("Strong record against %s (%.1f pts over %d meetings)",
		teamName(in.teams, in.fx.OpponentTeam), avg, n)
}

func evalThreat(in input) (float64, string) {
	if in.c.Threat < ThreatThreshold {
		return 0, ""
	}
	return ThreatBonus, "High attacking threat"
}

func evalAvailability(in input) (float64, string) {
	switch in.c.Status {
	case model.Available, "":
		return 0, ""
	case model.Doubtful:
		return AvailabilityPenalty, "Doubtful to play"
	default:
		return AvailabilityPenalty, "Unavailable to play"
	}
}

// headToHead returns the number of prior meetings with opponent and the
// average points across them.
func headToHead(history []model.MatchHistoryRecord, opponent int) (int, float64) {
	n, sum := 0, 0
	for _, h := range history {
		if h.OpponentTeam != opponent {
			continue
		}
		n++
		sum += h.Points
	}
	if n == 0 {
		return 0, 0
	}
	return n, float64(sum) / float64(n)
}

func teamName(teams map[int]model.Team, id int) string {
	if t, ok := teams[id]; ok {
		if t.ShortName != "" {
			return t.ShortName
		}
		if t.Name != "" {
			return t.Name
		}
	}
	return fmt.Sprintf("Team %d", id)
}
