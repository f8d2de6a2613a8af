package main

import (
	"context"
	"fmt"

	"github.com/aatrey56/fpl-captain-mcp/internal/captaincy"
	"github.com/aatrey56/fpl-captain-mcp/internal/squadform"
)

// SquadFormArgs are the input arguments for the squad_form tool.
type SquadFormArgs struct {
	EntryID int    `json:"entry_id" jsonschema:"Classic FPL entry id (required)"`
	GW      int    `json:"gw" jsonschema:"Gameweek (0 = current)"`
	Sort    string `json:"sort,omitempty" jsonschema:"Order within each bucket: form|position|average (default form)"`
}

func buildSquadForm(ctx context.Context, a *app, args SquadFormArgs) (captaincy.SquadFormReport, error) {
	if args.EntryID <= 0 {
		return captaincy.SquadFormReport{}, fmt.Errorf("entry_id is required")
	}
	key, err := squadform.ParseSortKey(args.Sort)
	if err != nil {
		return captaincy.SquadFormReport{}, err
	}
	r, err := a.engine.SquadForm(ctx, args.EntryID, args.GW)
	if err != nil {
		return captaincy.SquadFormReport{}, err
	}
	r.Report = r.Report.Sorted(key)
	return r, nil
}
