package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/complexity"
	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/state"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// renderer writes command results in the configured output format.
type renderer struct {
	w      io.Writer
	format string
}

func (a *app) renderer(w io.Writer) *renderer {
	return &renderer{w: w, format: a.cfg.Output.Format}
}

// structured writes v as JSON or YAML. It reports false for table output.
func (r *renderer) structured(v any) (bool, error) {
	switch r.format {
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return true, fmt.Errorf("encoding output: %w", err)
		}
		_, err = fmt.Fprintln(r.w, string(data))
		return true, err
	case "yaml":
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return true, fmt.Errorf("encoding output: %w", err)
		}
		return true, enc.Close()
	}
	return false, nil
}

func (r *renderer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.SetStyle(table.StyleLight)
	return t
}

// Assessment renders a score breakdown with its phase recommendation.
func (r *renderer) Assessment(a planner.Assessment, domains planner.Domains) error {
	if done, err := r.structured(a); done {
		return err
	}

	fmt.Fprintf(r.w, "Overall score: %.3f (%s)\n", a.Score, a.Category)
	fmt.Fprintf(r.w, "Recommended phases: %d, total effort %.1fh\n", a.PhaseCount, a.TotalHours)
	r.domains(domains)
	fmt.Fprintln(r.w)

	t := r.newTable()
	t.AppendHeader(table.Row{"Dimension", "Weight", "Score", "Weighted"})
	for _, d := range complexity.DimensionOrder {
		score := a.Dimensions.Get(d)
		t.AppendRow(table.Row{d, fmt.Sprintf("%.2f", complexity.Weights[d]), fmt.Sprintf("%.3f", score),
			fmt.Sprintf("%.3f", score*complexity.Weights[d])})
	}
	t.AppendFooter(table.Row{"overall", "", "", fmt.Sprintf("%.3f", a.Score)})
	alignRight(t, 2, 3, 4)
	t.Render()
	return nil
}

// Plan renders a plan with phases and gates.
func (r *renderer) Plan(plan *planner.Plan) error {
	switch r.format {
	case "json", "yaml":
		f, _ := state.ParseFormat(r.format)
		data, err := state.Encode(plan, f)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.w, strings.TrimRight(string(data), "\n"))
		return err
	}

	fmt.Fprintf(r.w, "Plan %s (created %s)\n", plan.ID, plan.CreatedAt)
	fmt.Fprintf(r.w, "Score %.3f, %s, %d phases, %.1fh\n", plan.OverallScore, plan.Category, plan.PhaseCount, plan.TotalHours)
	r.domains(plan.Domains)
	for _, adj := range plan.Adjustments {
		fmt.Fprintf(r.w, "Adjustment: %s (%s %.2f)\n", adj.Name, adj.Dimension, adj.Score)
	}
	fmt.Fprintln(r.w, progressLine(plan))
	fmt.Fprintln(r.w)

	phases := r.newTable()
	phases.AppendHeader(table.Row{"#", "Phase", "Archetype", "Share", "Hours", "Gates", "Status"})
	for _, ph := range plan.Phases {
		passed := 0
		for _, g := range ph.Gates {
			if g.Status == planner.GatePassed {
				passed++
			}
		}
		phases.AppendRow(table.Row{ph.Number, ph.Name, ph.Archetype,
			fmt.Sprintf("%.1f%%", ph.Percentage), fmt.Sprintf("%.1f", ph.DurationHours),
			fmt.Sprintf("%d/%d", passed, len(ph.Gates)), ph.Status()})
	}
	alignRight(phases, 1, 4, 5, 6)
	phases.Render()
	fmt.Fprintln(r.w)

	gates := r.newTable()
	gates.AppendHeader(table.Row{"Gate", "Status", "Description", "Criterion"})
	for _, ph := range plan.Phases {
		for _, g := range ph.Gates {
			gates.AppendRow(table.Row{g.ID, g.Status, g.Description, g.Criterion})
		}
		gates.AppendSeparator()
	}
	gates.SetColumnConfigs([]table.ColumnConfig{{Number: 4, WidthMax: 60}})
	gates.Render()
	return nil
}

// Plans renders the plan list.
func (r *renderer) Plans(list []state.Summary) error {
	if done, err := r.structured(list); done {
		return err
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(r.w, `No plans yet. Create one with "phaseplan create".`)
		return err
	}

	t := r.newTable()
	t.AppendHeader(table.Row{"", "ID", "Created", "Category", "Score", "Phases", "Progress"})
	for _, s := range list {
		marker := ""
		if s.Current {
			marker = "*"
		}
		progress := fmt.Sprintf("phase %d", s.CurrentPhase)
		switch {
		case s.Blocked:
			progress = "blocked"
		case s.CurrentPhase == 0:
			progress = "complete"
		}
		t.AppendRow(table.Row{marker, s.ID, s.CreatedAt, s.Category, fmt.Sprintf("%.3f", s.OverallScore), s.PhaseCount, progress})
	}
	alignRight(t, 5, 6)
	t.Render()
	return nil
}

// gateResult is the structured output of a gate update.
type gateResult struct {
	PlanID       string             `json:"plan_id" yaml:"plan_id"`
	Gate         planner.Gate       `json:"gate" yaml:"gate"`
	Previous     planner.GateStatus `json:"previous_status" yaml:"previous_status"`
	CurrentPhase int                `json:"current_phase" yaml:"current_phase"`
	Blocked      bool               `json:"blocked" yaml:"blocked"`
	Completed    bool               `json:"completed" yaml:"completed"`
}

// GateUpdate renders the outcome of a gate transition.
func (r *renderer) GateUpdate(plan *planner.Plan, before, after planner.Gate) error {
	res := gateResult{
		PlanID:       plan.ID,
		Gate:         after,
		Previous:     before.Status,
		CurrentPhase: plan.CurrentPhase(),
		Blocked:      plan.Blocked(),
		Completed:    plan.Completed(),
	}
	if done, err := r.structured(res); done {
		return err
	}
	fmt.Fprintf(r.w, "Gate %s: %s -> %s\n", after.ID, before.Status, after.Status)
	_, err := fmt.Fprintln(r.w, progressLine(plan))
	return err
}

func (r *renderer) domains(domains planner.Domains) {
	if len(domains) == 0 {
		return
	}
	names := make([]string, 0, len(domains))
	for name := range domains {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %.0f%%", name, domains[name])
	}
	line := "Domains: " + strings.Join(parts, ", ")
	if major := domains.MajorDomains(); len(major) > 0 {
		line += " (major: " + strings.Join(major, ", ") + ")"
	}
	fmt.Fprintln(r.w, line)
}

func progressLine(plan *planner.Plan) string {
	switch {
	case plan.Completed():
		return "Progress: all phases complete"
	case plan.Blocked():
		return fmt.Sprintf("Progress: BLOCKED in phase %d", plan.CurrentPhase())
	}
	return fmt.Sprintf("Progress: phase %d of %d", plan.CurrentPhase(), plan.PhaseCount)
}

func alignRight(t table.Writer, columns ...int) {
	cfgs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	t.SetColumnConfigs(cfgs)
}
