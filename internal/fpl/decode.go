// Package fpl decodes Fantasy Premier League API payloads into the domain
// model and exposes them through the collaborator interfaces the captaincy
// engine consumes.
package fpl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aatrey56/fpl-captain-mcp/internal/model"
)

// Event is one gameweek from bootstrap-static.
type Event struct {
	ID        int  `json:"id"`
	IsCurrent bool `json:"is_current"`
	IsNext    bool `json:"is_next"`
	Finished  bool `json:"finished"`
}

// Bootstrap is the decoded subset of bootstrap-static.
type Bootstrap struct {
	Events    []Event
	Teams     map[int]model.Team
	Directory map[int]model.DirectoryEntry
}

// CurrentAndNext returns the current and next gameweek ids (0 when absent).
func (b Bootstrap) CurrentAndNext() (int, int) {
	current, next := 0, 0
	for _, e := range b.Events {
		if e.IsCurrent {
			current = e.ID
		}
		if e.IsNext {
			next = e.ID
		}
	}
	return current, next
}

func DecodeBootstrap(raw []byte) (Bootstrap, error) {
	var resp struct {
		Events   []Event      `json:"events"`
		Teams    []model.Team `json:"teams"`
		Elements []struct {
			ID          int    `json:"id"`
			WebName     string `json:"web_name"`
			FirstName   string `json:"first_name"`
			SecondName  string `json:"second_name"`
			Team        int    `json:"team"`
			ElementType int    `json:"element_type"`
			Form        any    `json:"form"`
			NowCost     int    `json:"now_cost"`
			GoalsScored int    `json:"goals_scored"`
			Assists     int    `json:"assists"`
			CleanSheets int    `json:"clean_sheets"`
			TotalPoints int    `json:"total_points"`
			Threat      any    `json:"threat"`
			Status      string `json:"status"`
		} `json:"elements"`
	}
	if err := decodeNumbers(raw, &resp); err != nil {
		return Bootstrap{}, fmt.Errorf("parse bootstrap-static: %w", err)
	}

	out := Bootstrap{
		Events:    resp.Events,
		Teams:     make(map[int]model.Team, len(resp.Teams)),
		Directory: make(map[int]model.DirectoryEntry, len(resp.Elements)),
	}
	for _, t := range resp.Teams {
		out.Teams[t.ID] = t
	}
	for _, e := range resp.Elements {
		name := e.WebName
		if name == "" {
			name = strings.TrimSpace(e.FirstName + " " + e.SecondName)
		}
		form, _ := numeric(e.Form)
		threat, _ := numeric(e.Threat)
		out.Directory[e.ID] = model.DirectoryEntry{
			ID:          e.ID,
			Name:        name,
			TeamID:      e.Team,
			Position:    model.Position(e.ElementType),
			Form:        form,
			Cost:        e.NowCost,
			GoalsScored: e.GoalsScored,
			Assists:     e.Assists,
			CleanSheets: e.CleanSheets,
			TotalPoints: e.TotalPoints,
			Threat:      threat,
			Status:      model.AvailabilityFromStatus(e.Status),
		}
	}
	return out, nil
}

// DecodeElementSummary parses /element-summary/{id}/ into match history and
// upcoming fixtures, both in upstream order.
func DecodeElementSummary(raw []byte) ([]model.MatchHistoryRecord, []model.UpcomingFixture, error) {
	var resp struct {
		History []struct {
			Round        int  `json:"round"`
			TotalPoints  int  `json:"total_points"`
			Minutes      int  `json:"minutes"`
			OpponentTeam int  `json:"opponent_team"`
			WasHome      bool `json:"was_home"`
		} `json:"history"`
		Fixtures []struct {
			ID              int   `json:"id"`
			Event           any   `json:"event"`
			TeamH           int   `json:"team_h"`
			TeamA           int   `json:"team_a"`
			IsHome          *bool `json:"is_home"`
			OpponentTeam    any   `json:"opponent_team"`
			Difficulty      any   `json:"difficulty"`
			TeamHDifficulty any   `json:"team_h_difficulty"`
			TeamADifficulty any   `json:"team_a_difficulty"`
		} `json:"fixtures"`
	}
	if err := decodeNumbers(raw, &resp); err != nil {
		return nil, nil, fmt.Errorf("parse element-summary: %w", err)
	}

	history := make([]model.MatchHistoryRecord, 0, len(resp.History))
	for _, h := range resp.History {
		history = append(history, model.MatchHistoryRecord{
			Round:        h.Round,
			Points:       h.TotalPoints,
			Minutes:      h.Minutes,
			OpponentTeam: h.OpponentTeam,
			WasHome:      h.WasHome,
		})
	}

	fixtures := make([]model.UpcomingFixture, 0, len(resp.Fixtures))
	for _, f := range resp.Fixtures {
		event, _ := numeric(f.Event)
		opp, _ := numeric(f.OpponentTeam)
		fixtures = append(fixtures, model.UpcomingFixture{
			ID:              f.ID,
			Event:           int(event),
			TeamH:           f.TeamH,
			TeamA:           f.TeamA,
			IsHome:          f.IsHome,
			OpponentTeam:    int(opp),
			Difficulty:      rating(f.Difficulty),
			TeamHDifficulty: rating(f.TeamHDifficulty),
			TeamADifficulty: rating(f.TeamADifficulty),
		})
	}
	return history, fixtures, nil
}

// DecodePicks parses /entry/{id}/event/{gw}/picks/.
func DecodePicks(raw []byte) ([]model.Pick, error) {
	var resp struct {
		Picks []model.Pick `json:"picks"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse picks: %w", err)
	}
	return resp.Picks, nil
}

func decodeNumbers(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func rating(v any) model.Rating {
	f, ok := numeric(v)
	if !ok {
		return model.Rating{}
	}
	return model.RatingOf(f)
}

// numeric accepts the number encodings the API mixes (numbers and numeric
// strings such as "5.2"). ok is false for null, empty, non-numeric and
// non-finite values ("NaN", "Inf").
func numeric(v any) (float64, bool) {
	var (
		f   float64
		err error
	)
	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case float64:
		f = t
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, false
	}
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
