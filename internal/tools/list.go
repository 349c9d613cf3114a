package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// ListTool handles the plan_list MCP tool.
type ListTool struct {
	store state.Store
}

// NewListTool creates a ListTool with the given plan store.
func NewListTool(store state.Store) *ListTool {
	return &ListTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *ListTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_list",
		mcp.WithDescription("List every stored plan, oldest first, marking the current one."),
	)
}

// Handle processes the plan_list tool call.
func (t *ListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	plans, err := t.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	if len(plans) == 0 {
		return mcp.NewToolResultText("No plans yet. Create one with `plan_create`."), nil
	}

	var b strings.Builder
	b.WriteString("# Plans\n\n")
	b.WriteString("| | ID | Created | Category | Score | Phases | Progress |\n")
	b.WriteString("|-|----|---------|----------|-------|--------|----------|\n")
	for _, p := range plans {
		marker := " "
		if p.Current {
			marker = "*"
		}
		progress := fmt.Sprintf("phase %d", p.CurrentPhase)
		switch {
		case p.Blocked:
			progress = "blocked"
		case p.CurrentPhase == 0:
			progress = "complete"
		}
		fmt.Fprintf(&b, "| %s | `%s` | %s | %s | %.3f | %d | %s |\n",
			marker, p.ID, p.CreatedAt, p.Category, p.OverallScore, p.PhaseCount, progress)
	}
	return mcp.NewToolResultText(b.String()), nil
}
