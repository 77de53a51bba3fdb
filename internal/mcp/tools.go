package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_state",
		Description: "Get current resources, derived rates, costs and progress toward the next tier",
	}, tool(h.GetState))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_catalog",
		Description: "List tiers, upgrades, producers and achievements with current levels and next costs",
	}, tool(h.GetCatalog))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "click",
		Description: "Click the egg one or more times",
	}, tool(h.Click))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "purchase_upgrade",
		Description: "Buy the next level of an upgrade",
	}, tool(h.PurchaseUpgrade))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "purchase_producer",
		Description: "Buy one unit of a producer",
	}, tool(h.PurchaseProducer))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_tier",
		Description: "Switch the active resource tier to an unlocked tier",
	}, tool(h.SelectTier))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "prestige",
		Description: "Reset the run in exchange for prestige currency",
	}, tool(h.Prestige))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "save_game",
		Description: "Persist the current state to the configured slot",
	}, tool(h.SaveGame))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_save",
		Description: "Export the current state as a base64 string",
	}, tool(h.ExportSave))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_save",
		Description: "Replace the current state with an exported save string and persist it",
	}, tool(h.ImportSave))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reset_game",
		Description: "Delete the stored save and start over; settings are kept",
	}, tool(h.ResetGame))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_settings",
		Description: "Change display and audio settings; omitted fields keep their value",
	}, tool(h.UpdateSettings))
	if h.history != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        "list_save_history",
			Description: "List earlier saves of this slot, newest first; pass an entry's data to import_save to roll back",
		}, tool(h.ListSaveHistory))
	}
}

// tool adapts a handler method to the SDK's typed tool handler, mapping
// domain errors to coded tool errors.
func tool[In, Out any](fn func(context.Context, In) (Out, error)) sdkmcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, Out, error) {
		out, err := fn(ctx, in)
		if err != nil {
			var zero Out
			return nil, zero, mapError(err)
		}
		return nil, out, nil
	}
}
