package captaincy

import (
	"sort"

	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

// Scored is a candidate with its breakdown, ready for ranking.
type Scored struct {
	Candidate model.CandidatePlayer
	Breakdown model.ScoreBreakdown
	Fixture   *model.NormalizedFixture
}

// Rank orders candidates by total score, highest first, and assigns ranks
// 1..N. Equal totals keep their input order.
func Rank(scored []Scored) []model.CaptaincyRecommendation {
	ordered := make([]Scored, len(scored))
	copy(ordered, scored)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Breakdown.Total > ordered[j].Breakdown.Total
	})

	out := make([]model.CaptaincyRecommendation, 0, len(ordered))
	for i, s := range ordered {
		out = append(out, model.CaptaincyRecommendation{
			Candidate:        s.Candidate,
			Breakdown:        s.Breakdown,
			Fixture:          s.Fixture,
			Rank:             i + 1,
			IsCurrentCaptain: s.Candidate.IsCaptain,
		})
	}
	return out
}
