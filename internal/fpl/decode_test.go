package fpl

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatrey56/fpl-captain-mcp/internal/fetch"
	"github.com/aatrey56/fpl-captain-mcp/internal/model"
	"github.com/aatrey56/fpl-captain-mcp/internal/store"
)

const bootstrapJSON = `{
  "events": [
    {"id": 9, "is_current": false, "is_next": false, "finished": true},
    {"id": 10, "is_current": true, "is_next": false, "finished": false},
    {"id": 11, "is_current": false, "is_next": true, "finished": false}
  ],
  "teams": [
    {"id": 1, "name": "Arsenal", "short_name": "ARS"},
    {"id": 14, "name": "Man Utd", "short_name": "MUN"}
  ],
  "elements": [
    {"id": 302, "web_name": "Saka", "team": 1, "element_type": 3, "form": "6.5",
     "now_cost": 100, "goals_scored": 5, "assists": 4, "clean_sheets": 3,
     "total_points": 80, "threat": "512.0", "status": "a"},
    {"id": 400, "web_name": "", "first_name": "Bruno", "second_name": "Fernandes",
     "team": 14, "element_type": 3, "form": "n/a", "now_cost": 85,
     "total_points": 60, "threat": 33.5, "status": "d"},
    {"id": 401, "web_name": "Hurt", "team": 14, "element_type": 4, "form": "0.0",
     "threat": null, "status": "i"}
  ]
}`

func TestDecodeBootstrap(t *testing.T) {
	b, err := DecodeBootstrap([]byte(bootstrapJSON))
	require.NoError(t, err)

	current, next := b.CurrentAndNext()
	assert.Equal(t, 10, current)
	assert.Equal(t, 11, next)

	assert.Equal(t, "ARS", b.Teams[1].ShortName)
	assert.Equal(t, "Man Utd", b.Teams[14].Name)

	saka := b.Directory[302]
	assert.Equal(t, model.DirectoryEntry{
		ID: 302, Name: "Saka", TeamID: 1, Position: model.PositionMidfielder,
		Form: 6.5, Cost: 100, GoalsScored: 5, Assists: 4, CleanSheets: 3,
		TotalPoints: 80, Threat: 512, Status: model.Available,
	}, saka)

	bruno := b.Directory[400]
	assert.Equal(t, "Bruno Fernandes", bruno.Name, "falls back to full name")
	assert.Equal(t, 0.0, bruno.Form, "non-numeric form decodes as zero")
	assert.Equal(t, 33.5, bruno.Threat, "numeric threat accepted as well as strings")
	assert.Equal(t, model.Doubtful, bruno.Status)

	assert.Equal(t, model.Unavailable, b.Directory[401].Status)
	assert.Equal(t, 0.0, b.Directory[401].Threat)
}

func TestDecodeBootstrap_Invalid(t *testing.T) {
	_, err := DecodeBootstrap([]byte(`{"elements": [`))
	require.Error(t, err)
}

func TestDecodeElementSummary(t *testing.T) {
	raw := `{
	  "fixtures": [
	    {"id": 101, "event": 11, "team_h": 1, "team_a": 14, "is_home": true, "difficulty": 3},
	    {"id": 115, "event": null, "team_h": 7, "team_a": 1, "is_home": false, "difficulty": "tbc",
	     "team_h_difficulty": 4, "team_a_difficulty": 2}
	  ],
	  "history": [
	    {"round": 1, "total_points": 8, "minutes": 90, "opponent_team": 14, "was_home": false},
	    {"round": 2, "total_points": 2, "minutes": 63, "opponent_team": 7, "was_home": true}
	  ],
	  "history_past": []
	}`
	history, fixtures, err := DecodeElementSummary([]byte(raw))
	require.NoError(t, err)

	require.Len(t, history, 2)
	assert.Equal(t, model.MatchHistoryRecord{Round: 1, Points: 8, Minutes: 90, OpponentTeam: 14, WasHome: false}, history[0])

	require.Len(t, fixtures, 2)
	assert.Equal(t, 11, fixtures[0].Event)
	require.NotNil(t, fixtures[0].IsHome)
	assert.True(t, *fixtures[0].IsHome)
	assert.Equal(t, model.RatingOf(3), fixtures[0].Difficulty)
	assert.Equal(t, 0, fixtures[0].OpponentTeam)

	assert.Equal(t, 0, fixtures[1].Event, "unscheduled fixtures have no event")
	assert.False(t, fixtures[1].Difficulty.Valid, "non-numeric difficulty is not valid")
	assert.Equal(t, model.RatingOf(4), fixtures[1].TeamHDifficulty)
	assert.Equal(t, model.RatingOf(2), fixtures[1].TeamADifficulty)
}

func TestDecodePicks(t *testing.T) {
	raw := `{"active_chip": null, "picks": [
	  {"element": 302, "position": 1, "multiplier": 2, "is_captain": true, "is_vice_captain": false},
	  {"element": 400, "position": 12, "multiplier": 0, "is_captain": false, "is_vice_captain": false}
	]}`
	picks, err := DecodePicks([]byte(raw))
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.True(t, picks[0].IsCaptain)
	assert.True(t, picks[0].Starting())
	assert.False(t, picks[1].Starting())
}

func TestNumeric(t *testing.T) {
	tests := []struct {
		name   string
		in     any
		want   float64
		wantOK bool
	}{
		{"Float", 2.5, 2.5, true},
		{"NumericString", " 4.0 ", 4, true},
		{"Garbage", "abc", 0, false},
		{"Empty", "", 0, false},
		{"Nil", nil, 0, false},
		{"Bool", true, 0, false},
		{"NaN", "NaN", 0, false},
		{"Inf", "Inf", 0, false},
		{"Infinity", "-Infinity", 0, false},
		{"NonFiniteFloat", math.Inf(1), 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := numeric(tc.in)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecode_NonFiniteValuesAreNotNumeric(t *testing.T) {
	_, fixtures, err := DecodeElementSummary([]byte(`{
	  "fixtures": [{"id": 1, "event": 11, "team_h": 1, "team_a": 14, "is_home": true, "difficulty": "Infinity"}],
	  "history": []
	}`))
	require.NoError(t, err)
	require.Len(t, fixtures, 1)
	assert.False(t, fixtures[0].Difficulty.Valid)

	b, err := DecodeBootstrap([]byte(`{"elements": [{"id": 1, "team": 1, "element_type": 4, "form": "NaN", "threat": "Inf", "status": "a"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 0.0, b.Directory[1].Form)
	assert.Equal(t, 0.0, b.Directory[1].Threat)
}

func TestSource_ServesCollaborators(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bootstrap-static/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(bootstrapJSON))
	})
	mux.HandleFunc("/element-summary/302/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fixtures": [{"id": 1, "event": 11, "team_h": 1, "team_a": 14, "is_home": true, "difficulty": 2}], "history": []}`))
	})
	mux.HandleFunc("/entry/55/event/10/picks/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"picks": [{"element": 302, "position": 1, "multiplier": 2, "is_captain": true}]}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := fetch.NewClient(store.NewJSONStore(t.TempDir()))
	c.BaseURL = srv.URL
	c.Limiter = nil
	src := NewSource(c)
	ctx := context.Background()

	gw, err := src.CurrentEvent(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, gw)

	dir, teams, err := src.Directory(ctx)
	require.NoError(t, err)
	assert.Len(t, dir, 3)
	assert.Len(t, teams, 2)

	picks, err := src.Picks(ctx, 55, gw)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, 302, picks[0].Element)

	history, fixtures, err := src.PlayerDetail(ctx, 302)
	require.NoError(t, err)
	assert.Empty(t, history)
	require.Len(t, fixtures, 1)
	assert.Equal(t, model.RatingOf(2), fixtures[0].Difficulty)

	_, _, err = src.PlayerDetail(ctx, 999)
	require.Error(t, err)
}
