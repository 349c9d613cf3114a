package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/complexity"
	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// CreateTool handles the plan_create MCP tool.
// It builds a plan from signals, persists it and makes it current.
type CreateTool struct {
	store state.Store
}

// NewCreateTool creates a CreateTool with the given plan store.
func NewCreateTool(store state.Store) *CreateTool {
	return &CreateTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateTool) Definition() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(
			"Build a phased implementation plan from project signals and save it as the current plan. " +
				"Each phase gets a share of the effort budget, a duration and validation gates. " +
				"Takes the same arguments as plan_assess, plus an optional plan_id.",
		),
		mcp.WithString("plan_id",
			mcp.Description("Optional ID for the plan. A UUID is generated when omitted."),
		),
	}
	return mcp.NewTool("plan_create", append(opts, signalOptions()...)...)
}

// Handle processes the plan_create tool call.
func (t *CreateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sig, err := signalsFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	domains, err := domainsFromRequest(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	plan, err := planner.BuildFromSignals(sig, domains)
	if err != nil {
		if errors.Is(err, complexity.ErrInvalidInput) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, fmt.Errorf("building plan: %w", err)
	}
	requestedID := strings.TrimSpace(req.GetString("plan_id", ""))
	plan.ID = requestedID

	if err := t.store.Create(plan); err != nil {
		// A caller-chosen ID can collide or be malformed.
		if requestedID != "" {
			return mcp.NewToolResultError(fmt.Sprintf("Could not create plan %q: %v", requestedID, err)), nil
		}
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	slog.Info("plan created", "plan", plan.ID, "category", plan.Category, "phases", plan.PhaseCount)

	return mcp.NewToolResultText(
		"Plan created and set as current.\n\n" + formatPlan(plan) +
			"\nStart with phase 1: move its gates to `in_progress` with `plan_gate_update`.\n",
	), nil
}
