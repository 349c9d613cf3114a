package tools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// GateUpdateTool handles the plan_gate_update MCP tool.
// It moves a validation gate through its state machine and saves the plan.
type GateUpdateTool struct {
	store state.Store
}

// NewGateUpdateTool creates a GateUpdateTool with the given plan store.
func NewGateUpdateTool(store state.Store) *GateUpdateTool {
	return &GateUpdateTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *GateUpdateTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_gate_update",
		mcp.WithDescription(
			"Update a validation gate. Gates move pending → in_progress → passed | failed. "+
				"A phase can only start once every gate of the previous phase has passed. "+
				"A failed gate blocks the plan until it is reset. Set `reset` to return a gate to pending.",
		),
		mcp.WithString("gate_id",
			mcp.Required(),
			mcp.Description("Gate ID, e.g. P2-G1."),
		),
		mcp.WithString("status",
			mcp.Description("Target status. Required unless reset is true."),
			mcp.Enum("in_progress", "passed", "failed"),
		),
		mcp.WithBoolean("reset",
			mcp.Description("Return the gate to pending regardless of its status."),
		),
		mcp.WithString("plan_id",
			mcp.Description("Plan to update. If omitted, updates the current plan."),
		),
	)
}

// Handle processes the plan_gate_update tool call.
func (t *GateUpdateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gateID := strings.TrimSpace(req.GetString("gate_id", ""))
	if gateID == "" {
		return mcp.NewToolResultError("gate_id is required"), nil
	}
	reset := req.GetBool("reset", false)
	status := planner.GateStatus(strings.TrimSpace(req.GetString("status", "")))
	if !reset && status == "" {
		return mcp.NewToolResultError("status is required unless reset is true"), nil
	}

	plan, msg, err := loadPlan(t.store, req.GetString("plan_id", ""))
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return mcp.NewToolResultError(msg), nil
	}

	before, err := plan.Gate(gateID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if reset {
		err = planner.ResetGate(plan, gateID)
	} else {
		err = planner.TransitionGate(plan, gateID, status)
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := t.store.Save(plan); err != nil {
		return nil, fmt.Errorf("saving plan: %w", err)
	}
	after, _ := plan.Gate(gateID)
	slog.Info("gate updated", "plan", plan.ID, "gate", gateID, "from", before.Status, "to", after.Status)

	var b strings.Builder
	fmt.Fprintf(&b, "Gate `%s` moved from %s to %s.\n\n", gateID, before.Status, after.Status)
	switch {
	case plan.Completed():
		b.WriteString("All phases are complete. 🎉\n")
	case plan.Blocked():
		fmt.Fprintf(&b, "⛔ The plan is blocked in phase %d. Fix the failed gate and reset it.\n", plan.CurrentPhase())
	default:
		cur := plan.Phases[plan.CurrentPhase()-1]
		fmt.Fprintf(&b, "Current phase: %d (%s), %s.\n", cur.Number, cur.Name, cur.Status())
	}
	return mcp.NewToolResultText(b.String()), nil
}
