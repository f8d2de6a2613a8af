package main

import (
	"context"
	"fmt"

	"github.com/aatrey56/fpl-captain-mcp/internal/captaincy"
)

// CaptaincyArgs are the input arguments for the captaincy_recommendations tool.
type CaptaincyArgs struct {
	EntryID int `json:"entry_id" jsonschema:"Classic FPL entry id (required)"`
	GW      int `json:"gw" jsonschema:"Gameweek (0 = current)"`
	Limit   int `json:"limit,omitempty" jsonschema:"Return only the top N candidates (0 = all)"`
}

func buildCaptaincy(ctx context.Context, a *app, args CaptaincyArgs) (captaincy.Report, error) {
	if args.EntryID <= 0 {
		return captaincy.Report{}, fmt.Errorf("entry_id is required")
	}
	if args.GW < 0 {
		return captaincy.Report{}, fmt.Errorf("gw must be >= 0")
	}
	r, err := a.engine.RecommendForEntry(ctx, args.EntryID, args.GW)
	if err != nil {
		return captaincy.Report{}, err
	}
	if args.Limit > 0 && args.Limit < len(r.Recommendations) {
		r.Recommendations = r.Recommendations[:args.Limit]
	}
	return r, nil
}
