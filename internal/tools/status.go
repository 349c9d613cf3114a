package tools

import (
	"context"

	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// StatusTool handles the plan_status MCP tool.
// It shows a plan with phase progress and gate states.
type StatusTool struct {
	store state.Store
}

// NewStatusTool creates a StatusTool with the given plan store.
func NewStatusTool(store state.Store) *StatusTool {
	return &StatusTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_status",
		mcp.WithDescription(
			"Show a plan: score, category, phase shares and durations, and every validation gate "+
				"with its status. If `plan_id` is omitted, shows the current plan.",
		),
		mcp.WithString("plan_id",
			mcp.Description("Specific plan ID to inspect. If omitted, shows the current plan."),
		),
	)
}

// Handle processes the plan_status tool call.
func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plan, msg, err := loadPlan(t.store, req.GetString("plan_id", ""))
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return mcp.NewToolResultError(msg), nil
	}
	return mcp.NewToolResultText(formatPlan(plan)), nil
}
