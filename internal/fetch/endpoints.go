package fetch

import (
	"context"
	"fmt"
)

// /bootstrap-static/
func (c *Client) BootstrapStatic(ctx context.Context, force bool) ([]byte, error) {
	return c.FetchRaw(ctx,
		"bootstrap-static",
		"/bootstrap-static/",
		"bootstrap/bootstrap-static.json",
		force,
	)
}

// /element-summary/{element_id}/
func (c *Client) ElementSummary(ctx context.Context, elementID int, force bool) ([]byte, error) {
	return c.FetchRaw(ctx,
		"element-summary",
		fmt.Sprintf("/element-summary/%d/", elementID),
		fmt.Sprintf("element-summary/%d.json", elementID),
		force,
	)
}

// /entry/{entry_id}/event/{gw}/picks/
func (c *Client) EntryPicks(ctx context.Context, entryID int, gw int, force bool) ([]byte, error) {
	return c.FetchRaw(ctx,
		"entry-picks",
		fmt.Sprintf("/entry/%d/event/%d/picks/", entryID, gw),
		fmt.Sprintf("entry/%d/gw/%d/picks.json", entryID, gw),
		force,
	)
}
