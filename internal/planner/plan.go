package planner

import (
	"fmt"

	"github.com/HendryAvila/phaseplan/internal/complexity"
)

// Phase is a time-boxed segment of a plan.
type Phase struct {
	Number        int       `json:"number" yaml:"number"`
	Name          string    `json:"name" yaml:"name"`
	Archetype     Archetype `json:"archetype" yaml:"archetype"`
	Percentage    float64   `json:"percentage" yaml:"percentage"`
	DurationHours float64   `json:"duration_hours" yaml:"duration_hours"`
	Gates         []Gate    `json:"gates" yaml:"gates"`
}

// Plan is the root record produced for a planning request. ID and
// CreatedAt are left empty by Build and stamped when the plan is stored.
type Plan struct {
	ID           string              `json:"id" yaml:"id"`
	CreatedAt    string              `json:"created_at" yaml:"created_at"`
	OverallScore float64             `json:"overall_score" yaml:"overall_score"`
	Category     complexity.Category `json:"category" yaml:"category"`
	PhaseCount   int                 `json:"phase_count" yaml:"phase_count"`
	TotalHours   float64             `json:"total_hours" yaml:"total_hours"`
	Dimensions   complexity.Scores   `json:"dimensions" yaml:"dimensions"`
	Domains      Domains             `json:"domains,omitempty" yaml:"domains,omitempty"`
	Adjustments  []Adjustment        `json:"adjustments,omitempty" yaml:"adjustments,omitempty"`
	Phases       []Phase             `json:"phases" yaml:"phases"`
}

// Assessment is a complexity result with its recommended phase count.
type Assessment struct {
	complexity.Result `yaml:",inline"`
	PhaseCount        int     `json:"phase_count" yaml:"phase_count"`
	TotalHours        float64 `json:"total_hours" yaml:"total_hours"`
}

// Recommend attaches a phase count and effort budget to a result.
func Recommend(res complexity.Result, domains Domains) (Assessment, error) {
	count, err := PhaseCount(res.Score, domains)
	if err != nil {
		return Assessment{}, err
	}
	hours, err := complexity.TotalHours(res.Category)
	if err != nil {
		return Assessment{}, err
	}
	return Assessment{Result: res, PhaseCount: count, TotalHours: hours}, nil
}

// Assess scores signals and recommends a phase count in one step.
func Assess(sig complexity.ProjectSignals, domains Domains) (Assessment, error) {
	res, err := complexity.Assess(sig)
	if err != nil {
		return Assessment{}, err
	}
	return Recommend(res, domains)
}

// Build derives a full plan from a complexity result.
func Build(res complexity.Result, domains Domains) (*Plan, error) {
	a, err := Recommend(res, domains)
	if err != nil {
		return nil, err
	}

	layout, err := LayoutFor(a.PhaseCount)
	if err != nil {
		return nil, err
	}

	dist, adjustments, err := Distribute(layout, res.Dimensions)
	if err != nil {
		return nil, err
	}
	durations := Durations(dist, a.TotalHours)

	seen := make(map[Archetype]bool, len(layout.Phases))
	phases := make([]Phase, len(layout.Phases))
	for i, tmpl := range layout.Phases {
		gates, err := GenerateGates(i+1, tmpl.Archetype, res.Dimensions, !seen[tmpl.Archetype])
		if err != nil {
			return nil, err
		}
		if len(gates) < MinGatesPerPhase {
			return nil, fmt.Errorf("phase %d has %d gates, want at least %d", i+1, len(gates), MinGatesPerPhase)
		}
		seen[tmpl.Archetype] = true

		phases[i] = Phase{
			Number:        i + 1,
			Name:          tmpl.Name,
			Archetype:     tmpl.Archetype,
			Percentage:    dist[i],
			DurationHours: durations[i],
			Gates:         gates,
		}
	}

	plan := &Plan{
		OverallScore: res.Score,
		Category:     res.Category,
		PhaseCount:   a.PhaseCount,
		TotalHours:   a.TotalHours,
		Dimensions:   res.Dimensions,
		Adjustments:  adjustments,
		Phases:       phases,
	}
	if len(domains) > 0 {
		plan.Domains = make(Domains, len(domains))
		for k, v := range domains {
			plan.Domains[k] = v
		}
	}
	return plan, nil
}

// BuildFromSignals scores the signals and builds the plan.
func BuildFromSignals(sig complexity.ProjectSignals, domains Domains) (*Plan, error) {
	res, err := complexity.Assess(sig)
	if err != nil {
		return nil, err
	}
	return Build(res, domains)
}

// Validate checks a decoded plan against the plan invariants.
func (p *Plan) Validate() error {
	if err := complexity.ValidateCategory(p.Category); err != nil {
		return err
	}
	if len(p.Phases) != p.PhaseCount {
		return fmt.Errorf("plan declares %d phases but has %d", p.PhaseCount, len(p.Phases))
	}
	dist := make([]float64, len(p.Phases))
	for i, ph := range p.Phases {
		if ph.Number != i+1 {
			return fmt.Errorf("phase at position %d is numbered %d", i+1, ph.Number)
		}
		if len(ph.Gates) < MinGatesPerPhase {
			return fmt.Errorf("phase %d has %d gates, want at least %d", ph.Number, len(ph.Gates), MinGatesPerPhase)
		}
		for _, g := range ph.Gates {
			if err := ValidateGateStatus(g.Status); err != nil {
				return fmt.Errorf("gate %s: %w", g.ID, err)
			}
		}
		dist[i] = ph.Percentage
	}
	return CheckDistribution(dist)
}
