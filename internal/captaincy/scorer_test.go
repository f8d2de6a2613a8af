package captaincy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

const opponent = 14

func forward(form, threat float64, status model.Availability) model.CandidatePlayer {
	return model.CandidatePlayer{
		ID: 1, Name: "Striker", TeamID: 1, Position: model.PositionForward,
		Form: form, Threat: threat, Status: status, Starting: true,
	}
}

func nextFixture(difficulty int, home bool) *model.NormalizedFixture {
	return &model.NormalizedFixture{Event: 10, OpponentTeam: opponent, IsHome: home, Difficulty: difficulty}
}

func signalsOf(b model.ScoreBreakdown) []model.Signal {
	out := make([]model.Signal, 0, len(b.Reasons))
	for _, r := range b.Reasons {
		out = append(out, r.Signal)
	}
	return out
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestScore_Scenarios(t *testing.T) {
	h2h := []model.MatchHistoryRecord{
		{Round: 1, Points: 6, OpponentTeam: opponent},
		{Round: 5, Points: 2, OpponentTeam: 3},
		{Round: 12, Points: 7, OpponentTeam: opponent},
		{Round: 20, Points: 8, OpponentTeam: opponent},
	}

	tests := []struct {
		name    string
		c       model.CandidatePlayer
		fx      *model.NormalizedFixture
		history []model.MatchHistoryRecord
		want    float64
	}{
		{
			name: "ForwardHomeEasyFixture",
			c:    forward(6.0, 60, model.Available),
			fx:   nextFixture(2, true),
			want: 62,
		},
		{
			name: "MidfielderAwayToughFixture",
			c: model.CandidatePlayer{
				ID: 2, Position: model.PositionMidfielder, Form: 3.0, Threat: 30, Status: model.Available,
			},
			fx:   nextFixture(4, false),
			want: 21,
		},
		{
			name: "DoubtfulForward",
			c:    forward(6.0, 60, model.Doubtful),
			fx:   nextFixture(2, true),
			want: 12,
		},
		{
			name:    "HeadToHeadBonus",
			c:       forward(5.0, 40, model.Available),
			fx:      nextFixture(3, true),
			history: h2h,
			want:    57,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Score(tc.c, tc.fx, tc.history)
			assert.InDelta(t, tc.want, got.Total, 1e-9)

			sum := got.Form + got.FixtureEase + got.HomeAdvantage + got.Position +
				got.HeadToHead + got.Threat + got.Availability
			assert.InDelta(t, got.Total, sum, 1e-9, "total is the sum of contributions")
		})
	}
}

func TestScore_BreakdownAndReasons(t *testing.T) {
	got := Scorer{Teams: map[int]model.Team{opponent: {ID: opponent, Name: "Man Utd", ShortName: "MUN"}}}.
		Score(forward(6.0, 60, model.Available), nextFixture(2, true), nil)

	assert.Equal(t, 24.0, got.Form)
	assert.Equal(t, 18.0, got.FixtureEase)
	assert.Equal(t, HomeBonus, got.HomeAdvantage)
	assert.Equal(t, ForwardBonus, got.Position)
	assert.Equal(t, 0.0, got.HeadToHead)
	assert.Equal(t, ThreatBonus, got.Threat)
	assert.Equal(t, 0.0, got.Availability)

	assert.Equal(t, []model.Signal{
		model.SignalForm, model.SignalFixtureEase, model.SignalHome, model.SignalPosition, model.SignalThreat,
	}, signalsOf(got))
	assert.Equal(t, "Excellent recent form", got.Reasons[0].Text)
	assert.Equal(t, "Favourable fixture against MUN", got.Reasons[1].Text)
}

func TestScore_ReasonOrderWithPenalty(t *testing.T) {
	history := []model.MatchHistoryRecord{
		{Round: 1, Points: 10, OpponentTeam: opponent},
		{Round: 2, Points: 9, OpponentTeam: opponent},
	}
	got := Score(forward(1.0, 80, model.Unavailable), nextFixture(5, true), history)

	assert.Equal(t, []model.Signal{
		model.SignalForm, model.SignalFixtureEase, model.SignalHome, model.SignalPosition,
		model.SignalHeadToHead, model.SignalThreat, model.SignalAvailability,
	}, signalsOf(got))
	assert.Equal(t, "Poor recent form", got.Reasons[0].Text)
	assert.Equal(t, "Tough fixture against Team 14", got.Reasons[1].Text)
	assert.Contains(t, got.Reasons[4].Text, "9.5 pts over 2 meetings")
	assert.Equal(t, "Unavailable to play", got.Reasons[6].Text)
}

func TestScore_FormBands(t *testing.T) {
	tests := []struct {
		form float64
		want string
	}{
		{7.5, "Excellent recent form"},
		{6.0, "Excellent recent form"},
		{5.9, "Good recent form"},
		{4.0, "Good recent form"},
		{2.0, "Modest recent form"},
		{1.9, "Poor recent form"},
		{0, "Poor recent form"},
	}
	for _, tc := range tests {
		got := Score(forward(tc.form, 0, model.Available), nil, nil)
		require.NotEmpty(t, got.Reasons)
		assert.Equal(t, tc.want, got.Reasons[0].Text, "form %.1f", tc.form)
	}
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func TestScore_Deterministic(t *testing.T) {
	c := forward(5.5, 55, model.Doubtful)
	fx := nextFixture(2, false)
	history := []model.MatchHistoryRecord{{Round: 3, Points: 12, OpponentTeam: opponent}}

	first := Score(c, fx, history)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(c, fx, history))
	}
}

func TestScore_FormMonotonic(t *testing.T) {
	fx := nextFixture(3, true)
	for _, delta := range []float64{0.1, 0.5, 1, 3.7} {
		lo := Score(forward(2.0, 10, model.Available), fx, nil)
		hi := Score(forward(2.0+delta, 10, model.Available), fx, nil)
		assert.InDelta(t, 4*delta, hi.Total-lo.Total, 1e-9, "delta %.1f", delta)
	}
}

func TestScore_FixtureEaseMonotonic(t *testing.T) {
	c := forward(4.0, 10, model.Available)
	prev := Score(c, nextFixture(5, false), nil).Total
	hardest := prev
	for d := 4; d >= 1; d-- {
		cur := Score(c, nextFixture(d, false), nil).Total
		assert.InDelta(t, 6.0, cur-prev, 1e-9, "difficulty %d", d)
		prev = cur
	}
	assert.InDelta(t, 24.0, prev-hardest, 1e-9)
}

func TestScore_AvailabilityDominance(t *testing.T) {
	fx := nextFixture(4, false)
	for _, status := range []model.Availability{model.Doubtful, model.Unavailable} {
		ok := Score(forward(3.0, 10, model.Available), fx, nil)
		bad := Score(forward(3.0, 10, status), fx, nil)
		assert.InDelta(t, 50.0, ok.Total-bad.Total, 1e-9, string(status))
	}

	// 0 form, hardest away fixture, defender: only the penalty remains.
	def := model.CandidatePlayer{ID: 4, Position: model.PositionDefender, Status: model.Unavailable}
	got := Score(def, nextFixture(5, false), nil)
	assert.Equal(t, -50.0, got.Total)
}

func TestScore_NoFixtureIsNeutral(t *testing.T) {
	history := []model.MatchHistoryRecord{
		{Round: 1, Points: 10, OpponentTeam: opponent},
		{Round: 2, Points: 10, OpponentTeam: opponent},
	}
	got := Score(forward(5.0, 10, model.Available), nil, history)

	assert.Equal(t, 12.0, got.FixtureEase, "defaults to difficulty 3")
	assert.Equal(t, 0.0, got.HomeAdvantage)
	assert.Equal(t, 0.0, got.HeadToHead, "no opponent to compare against")
	assert.Equal(t, 20.0+12.0+5.0, got.Total)
	assert.Equal(t, "No fixture data, assuming average difficulty", got.Reasons[1].Text)
}

func TestScore_HeadToHeadThresholds(t *testing.T) {
	tests := []struct {
		name   string
		points []int
		want   float64
	}{
		{"SingleMeetingNotEnough", []int{15}, 0},
		{"AverageBelowSix", []int{6, 5}, 0},
		{"AverageExactlySix", []int{6, 6}, HeadToHeadBonus},
		{"ManyMeetings", []int{2, 10, 8, 4}, HeadToHeadBonus},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var history []model.MatchHistoryRecord
			for i, p := range tc.points {
				history = append(history, model.MatchHistoryRecord{Round: i + 1, Points: p, OpponentTeam: opponent})
			}
			// Meetings with other teams never count.
			history = append(history, model.MatchHistoryRecord{Round: 30, Points: 20, OpponentTeam: 99})

			got := Score(forward(0, 0, model.Available), nextFixture(3, false), history)
			assert.Equal(t, tc.want, got.HeadToHead)
		})
	}
}

func TestScore_ThreatThreshold(t *testing.T) {
	assert.Equal(t, 0.0, Score(forward(0, 49.9, model.Available), nil, nil).Threat)
	assert.Equal(t, ThreatBonus, Score(forward(0, 50, model.Available), nil, nil).Threat)
}

func TestScore_PositionBonus(t *testing.T) {
	tests := []struct {
		pos  model.Position
		want float64
	}{
		{model.PositionGoalkeeper, 0},
		{model.PositionDefender, 0},
		{model.PositionMidfielder, MidfielderBonus},
		{model.PositionForward, ForwardBonus},
	}
	for _, tc := range tests {
		t.Run(tc.pos.String(), func(t *testing.T) {
			got := Score(model.CandidatePlayer{Position: tc.pos, Status: model.Available}, nil, nil)
			assert.Equal(t, tc.want, got.Position)
		})
	}
}
