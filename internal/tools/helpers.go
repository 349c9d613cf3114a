// Package tools implements MCP tool handlers for phase planning.
//
// Each tool is a struct that receives its dependencies via constructor (DIP)
// and exposes Definition() for registration and Handle() for calls.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on state.Store, not a concrete backend
// - Bad input is reported with mcp.NewToolResultError; Go errors are
//   reserved for infrastructure failures (storage, encoding)
package tools

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/complexity"
	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/mark3labs/mcp-go/mcp"
)

// signalParam describes one numeric signal argument.
type signalParam struct {
	name        string
	description string
	integer     bool
	required    bool
}

var signalParams = []signalParam{
	{"file_count", "Number of source files in scope.", true, false},
	{"module_depth", "Deepest module/package nesting level.", true, false},
	{"business_rules", "Count of distinct business rules.", true, false},
	{"branch_count", "Conditional branches in the core logic.", true, false},
	{"integration_count", "External systems or APIs integrated.", true, false},
	{"auth_types", "Authentication mechanisms (0-3).", true, false},
	{"expected_users", "Expected number of users (>= 1).", true, true},
	{"data_gb", "Expected data volume in GB.", false, false},
	{"spec_completeness", "How complete the spec is, 0.0-1.0.", false, false},
	{"clarity_score", "How clear the requirements are, 0.0-1.0.", false, false},
	{"legacy_files", "Legacy files touched (<= total_files).", true, false},
	{"total_files", "Total files in the codebase (>= 1).", true, true},
	{"deprecated_deps", "Deprecated dependencies in use.", true, false},
	{"total_deps", "Total dependencies.", true, false},
}

// signalOptions returns the tool options for every signal plus domains.
func signalOptions() []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, len(signalParams)+1)
	for _, p := range signalParams {
		propOpts := []mcp.PropertyOption{mcp.Description(p.description)}
		if p.required {
			propOpts = append(propOpts, mcp.Required())
		}
		opts = append(opts, mcp.WithNumber(p.name, propOpts...))
	}
	opts = append(opts, mcp.WithObject("domains",
		mcp.Description(
			"Share of the work per domain in percent, e.g. {\"backend\": 45, \"frontend\": 40}. "+
				"Shares are independent and need not sum to 100.",
		),
	))
	return opts
}

// signalsFromRequest reads the raw signals. Missing numbers default to 0.
func signalsFromRequest(req mcp.CallToolRequest) (complexity.ProjectSignals, error) {
	args := req.GetArguments()
	vals := make(map[string]float64, len(signalParams))
	var problems []string
	for _, p := range signalParams {
		raw, ok := args[p.name]
		if !ok || raw == nil {
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", p.name, err))
			continue
		}
		if p.integer && v != math.Trunc(v) {
			problems = append(problems, fmt.Sprintf("%s must be a whole number (got %v)", p.name, v))
			continue
		}
		vals[p.name] = v
	}
	if len(problems) > 0 {
		return complexity.ProjectSignals{}, fmt.Errorf("%w: %s", complexity.ErrInvalidInput, strings.Join(problems, "; "))
	}

	return complexity.ProjectSignals{
		FileCount:        int(vals["file_count"]),
		ModuleDepth:      int(vals["module_depth"]),
		BusinessRules:    int(vals["business_rules"]),
		BranchCount:      int(vals["branch_count"]),
		IntegrationCount: int(vals["integration_count"]),
		AuthTypes:        int(vals["auth_types"]),
		ExpectedUsers:    int(vals["expected_users"]),
		DataGB:           vals["data_gb"],
		SpecCompleteness: vals["spec_completeness"],
		ClarityScore:     vals["clarity_score"],
		LegacyFiles:      int(vals["legacy_files"]),
		TotalFiles:       int(vals["total_files"]),
		DeprecatedDeps:   int(vals["deprecated_deps"]),
		TotalDeps:        int(vals["total_deps"]),
	}, nil
}

// domainsFromRequest reads the optional domains object.
func domainsFromRequest(req mcp.CallToolRequest) (planner.Domains, error) {
	raw, ok := req.GetArguments()["domains"]
	if !ok || raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: domains must be an object of name to share", complexity.ErrInvalidInput)
	}
	domains := make(planner.Domains, len(obj))
	for name, v := range obj {
		share, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: domain %q: %v", complexity.ErrInvalidInput, name, err)
		}
		domains[name] = share
	}
	return domains, nil
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("not a number: %v", v)
}

// loadPlan returns the plan with the given ID or, when planID is empty,
// the current plan. A user-facing message is returned for lookups that
// fail because of the request rather than the store.
func loadPlan(store state.Store, planID string) (*planner.Plan, string, error) {
	if planID != "" {
		plan, err := store.Load(planID)
		if err != nil {
			return nil, fmt.Sprintf("Plan %q not found: %v", planID, err), nil
		}
		return plan, "", nil
	}
	plan, err := store.LoadCurrent()
	if err != nil {
		return nil, "", fmt.Errorf("loading current plan: %w", err)
	}
	if plan == nil {
		return nil, "No current plan found. Create one with `plan_create` first.", nil
	}
	return plan, "", nil
}

// --- Markdown rendering ---

func statusMarker(s planner.PhaseStatus) string {
	switch s {
	case planner.PhaseCompleted:
		return "✅"
	case planner.PhaseInProgress:
		return "🔄"
	case planner.PhaseBlocked:
		return "⛔"
	}
	return "⬜"
}

func gateMarker(s planner.GateStatus) string {
	switch s {
	case planner.GatePassed:
		return "✅"
	case planner.GateInProgress:
		return "🔄"
	case planner.GateFailed:
		return "❌"
	}
	return "⬜"
}

func formatDimensions(b *strings.Builder, dims complexity.Scores) {
	b.WriteString("| Dimension | Weight | Score |\n")
	b.WriteString("|-----------|--------|-------|\n")
	for _, d := range complexity.DimensionOrder {
		fmt.Fprintf(b, "| %s | %.2f | %.3f |\n", d, complexity.Weights[d], dims.Get(d))
	}
}

func formatDomains(b *strings.Builder, domains planner.Domains) {
	if len(domains) == 0 {
		return
	}
	names := make([]string, 0, len(domains))
	for name := range domains {
		names = append(names, name)
	}
	sort.Strings(names)
	b.WriteString("\n**Domains:** ")
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%s %.0f%%", name, domains[name])
	}
	if major := domains.MajorDomains(); len(major) > 0 {
		fmt.Fprintf(b, " (major: %s)", strings.Join(major, ", "))
	}
	b.WriteString("\n")
}

// formatPlan renders a plan with phase progress and every gate.
func formatPlan(plan *planner.Plan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Plan `%s`\n\n", plan.ID)
	fmt.Fprintf(&b, "**Created:** %s\n", plan.CreatedAt)
	fmt.Fprintf(&b, "**Category:** %s (score %.3f)\n", plan.Category, plan.OverallScore)
	fmt.Fprintf(&b, "**Phases:** %d\n", plan.PhaseCount)
	fmt.Fprintf(&b, "**Total effort:** %.1fh\n", plan.TotalHours)
	switch {
	case plan.Completed():
		b.WriteString("**Progress:** all phases complete\n")
	case plan.Blocked():
		fmt.Fprintf(&b, "**Progress:** BLOCKED (current phase %d)\n", plan.CurrentPhase())
	default:
		fmt.Fprintf(&b, "**Progress:** phase %d of %d\n", plan.CurrentPhase(), plan.PhaseCount)
	}
	formatDomains(&b, plan.Domains)

	if len(plan.Adjustments) > 0 {
		b.WriteString("\n## Adjustments\n\n")
		for _, a := range plan.Adjustments {
			fmt.Fprintf(&b, "- %s (%s %.2f)\n", a.Name, a.Dimension, a.Score)
		}
	}

	b.WriteString("\n## Phases\n\n")
	b.WriteString("| # | Phase | Share | Hours | Status |\n")
	b.WriteString("|---|-------|-------|-------|--------|\n")
	for _, ph := range plan.Phases {
		st := ph.Status()
		fmt.Fprintf(&b, "| %d | %s %s | %.1f%% | %.1f | %s |\n",
			ph.Number, statusMarker(st), ph.Name, ph.Percentage, ph.DurationHours, st)
	}

	for _, ph := range plan.Phases {
		fmt.Fprintf(&b, "\n### Phase %d: %s\n\n", ph.Number, ph.Name)
		for _, g := range ph.Gates {
			fmt.Fprintf(&b, "- %s `%s` %s: %s\n", gateMarker(g.Status), g.ID, g.Description, g.Criterion)
		}
	}
	return b.String()
}
