package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

func directory(ids ...int) map[int]model.DirectoryEntry {
	out := make(map[int]model.DirectoryEntry, len(ids))
	for _, id := range ids {
		out[id] = model.DirectoryEntry{ID: id, Name: "P", TeamID: 1, Position: model.PositionMidfielder, Form: 5, Status: model.Available}
	}
	return out
}

func TestCandidates_StartingElevenOnly(t *testing.T) {
	var picks []model.Pick
	for slot := 15; slot >= 1; slot-- {
		picks = append(picks, model.Pick{Element: 100 + slot, Position: slot, Multiplier: 1})
	}
	dir := directory()
	for slot := 1; slot <= 15; slot++ {
		dir[100+slot] = model.DirectoryEntry{ID: 100 + slot}
	}

	got := Candidates(picks, dir)
	require.Len(t, got, 11)
	for i, c := range got {
		assert.Equal(t, i+1, c.LineupSlot, "ordered by slot")
		assert.True(t, c.Starting)
	}
}

func TestCandidates_DropsMissingDirectoryEntries(t *testing.T) {
	picks := []model.Pick{
		{Element: 1, Position: 1},
		{Element: 2, Position: 2},
		{Element: 3, Position: 3},
	}
	got := Candidates(picks, directory(1, 3))
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, 3, got[1].ID)
}

func TestCandidates_SingleCaptain(t *testing.T) {
	picks := []model.Pick{
		{Element: 1, Position: 1},
		{Element: 2, Position: 2, IsCaptain: true, Multiplier: 2},
		{Element: 3, Position: 3, IsCaptain: true, IsViceCaptain: true},
	}
	got := Candidates(picks, directory(1, 2, 3))
	require.Len(t, got, 3)

	captains := 0
	for _, c := range got {
		if c.IsCaptain {
			captains++
			assert.Equal(t, 2, c.ID, "first captain in slot order keeps the flag")
			assert.Equal(t, 2, c.Multiplier)
		}
	}
	assert.Equal(t, 1, captains)
	assert.True(t, got[2].IsViceCaptain)
}

func TestCandidates_Empty(t *testing.T) {
	tests := []struct {
		name  string
		picks []model.Pick
		dir   map[int]model.DirectoryEntry
	}{
		{"NoPicks", nil, directory(1)},
		{"BenchOnly", []model.Pick{{Element: 1, Position: 12}}, directory(1)},
		{"NoneInDirectory", []model.Pick{{Element: 9, Position: 1}}, directory(1)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Candidates(tc.picks, tc.dir)
			assert.NotNil(t, got)
			assert.Empty(t, got)
		})
	}
}

func TestFromDirectory(t *testing.T) {
	d := model.DirectoryEntry{
		ID: 7, Name: "Haaland", TeamID: 13, Position: model.PositionForward,
		Form: 8.2, Cost: 150, GoalsScored: 20, Assists: 4, TotalPoints: 190,
		Threat: 1200, Status: model.Doubtful,
	}
	c := FromDirectory(d)
	assert.Equal(t, 7, c.ID)
	assert.Equal(t, "Haaland", c.Name)
	assert.Equal(t, model.PositionForward, c.Position)
	assert.Equal(t, 8.2, c.Form)
	assert.Equal(t, 1200.0, c.Threat)
	assert.Equal(t, model.Doubtful, c.Status)
	assert.False(t, c.Starting)
}
