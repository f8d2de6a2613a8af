// Package roster turns a manager's picks and the player directory into the
// captaincy candidate set.
package roster

import (
	"sort"

	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

// Candidates returns the starting eleven (slots 1-11) ordered by slot.
// Bench picks and picks with no directory entry are dropped. At most one
// candidate keeps the captain flag: the first in slot order. The result is
// never nil.
func Candidates(picks []model.Pick, directory map[int]model.DirectoryEntry) []model.CandidatePlayer {
	starting := make([]model.Pick, 0, 11)
	for _, p := range picks {
		if p.Starting() {
			starting = append(starting, p)
		}
	}
	sort.SliceStable(starting, func(i, j int) bool {
		return starting[i].Position < starting[j].Position
	})

	out := make([]model.CandidatePlayer, 0, len(starting))
	seen := make(map[int]bool, len(starting))
	captain := false
	for _, p := range starting {
		d, ok := directory[p.Element]
		if !ok || seen[p.Element] {
			continue
		}
		seen[p.Element] = true
		c := FromDirectory(d)
		c.Starting = true
		c.LineupSlot = p.Position
		c.Multiplier = p.Multiplier
		c.IsViceCaptain = p.IsViceCaptain
		if p.IsCaptain && !captain {
			c.IsCaptain = true
			captain = true
		}
		out = append(out, c)
	}
	return out
}

// FromDirectory builds a candidate snapshot from a directory entry with no
// lineup information.
func FromDirectory(d model.DirectoryEntry) model.CandidatePlayer {
	return model.CandidatePlayer{
		ID:          d.ID,
		Name:        d.Name,
		TeamID:      d.TeamID,
		Position:    d.Position,
		Form:        d.Form,
		Cost:        d.Cost,
		GoalsScored: d.GoalsScored,
		Assists:     d.Assists,
		CleanSheets: d.CleanSheets,
		TotalPoints: d.TotalPoints,
		Threat:      d.Threat,
		Status:      d.Status,
	}
}
