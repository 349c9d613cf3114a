package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/complexity"
	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/mark3labs/mcp-go/mcp"
)

// AssessTool handles the plan_assess MCP tool.
// It scores project signals without persisting anything.
type AssessTool struct{}

// NewAssessTool creates an AssessTool.
func NewAssessTool() *AssessTool {
	return &AssessTool{}
}

// Definition returns the MCP tool definition for registration.
func (t *AssessTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Score a project's complexity across six weighted dimensions " +
				"(structure, logic, integration, scale, uncertainty, technical debt). " +
				"Returns the overall score, category, recommended phase count and effort budget. " +
				"Nothing is saved; use plan_create to build and persist a plan.",
		),
	}
	return mcp.NewTool("plan_assess", append(opts, signalOptions()...)...)
}

// Handle processes the plan_assess tool call.
func (t *AssessTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sig, err := signalsFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	domains, err := domainsFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	a, err := planner.Assess(sig, domains)
	if err != nil {
		if errors.Is(err, complexity.ErrInvalidInput) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("assessing signals: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Complexity Assessment\n\n")
	fmt.Fprintf(&b, "**Overall score:** %.3f\n", a.Score)
	fmt.Fprintf(&b, "**Category:** %s\n", a.Category)
	fmt.Fprintf(&b, "**Recommended phases:** %d\n", a.PhaseCount)
	fmt.Fprintf(&b, "**Total effort:** %.1fh\n", a.TotalHours)
	formatDomains(&b, domains)
	b.WriteString("\n## Dimensions\n\n")
	formatDimensions(&b, a.Dimensions)
	b.WriteString("\nCall `plan_create` with the same arguments to build the phased plan.\n")

	return mcp.NewToolResultText(b.String()), nil
}
