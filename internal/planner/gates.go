package planner

import (
	"fmt"

	"github.com/HendryAvila/phaseplan/internal/complexity"
)

// GateStatus tracks a validation gate through its lifecycle.
type GateStatus string

const (
	GatePending    GateStatus = "pending"
	GateInProgress GateStatus = "in_progress"
	GatePassed     GateStatus = "passed"
	GateFailed     GateStatus = "failed"
)

// validGateStatuses is the set of allowed gate statuses.
var validGateStatuses = map[GateStatus]bool{
	GatePending:    true,
	GateInProgress: true,
	GatePassed:     true,
	GateFailed:     true,
}

// ValidateGateStatus returns an error if the status is not recognized.
func ValidateGateStatus(s GateStatus) error {
	if !validGateStatuses[s] {
		return fmt.Errorf("invalid gate status %q: must be one of: pending, in_progress, passed, failed", s)
	}
	return nil
}

// Gate is a measurable exit criterion for a phase.
type Gate struct {
	ID          string     `json:"id" yaml:"id"`
	Description string     `json:"description" yaml:"description"`
	Criterion   string     `json:"criterion" yaml:"criterion"`
	Status      GateStatus `json:"status" yaml:"status"`
}

// MinGatesPerPhase is the least number of gates any phase carries.
const MinGatesPerPhase = 3

type gateTemplate struct {
	description string
	criterion   string
}

// gateTemplates holds the standard exit criteria per archetype.
var gateTemplates = map[Archetype][]gateTemplate{
	ArchetypeSetup: {
		{"Project skeleton builds from a clean checkout", "build command exits 0 on a fresh clone"},
		{"Development environment is reproducible", "setup script completes in under 10 minutes on a new machine"},
		{"Continuous integration runs on every push", "CI pipeline reports a green run for the default branch"},
	},
	ArchetypeCore: {
		{"Core domain model is implemented", "all core entities have create/read/update/delete paths exercised by tests"},
		{"Core business rules are covered by functional tests", "functional test coverage of core packages >= 80%"},
		{"No blocking defects remain in core flows", "0 open defects labelled blocker or critical"},
	},
	ArchetypeFeature: {
		{"Planned features are complete", "100% of phase feature tickets closed"},
		{"Each feature has an end-to-end test against real services", "one passing end-to-end scenario per feature"},
		{"Feature performance meets the budget", "p95 response time <= 300ms under expected load"},
	},
	ArchetypeIntegration: {
		{"External integrations work against real endpoints", "all integration tests pass against staging services"},
		{"Authentication flows are verified", "every configured auth mechanism passes a login/logout scenario"},
		{"Failure handling is exercised", "each integration has a passing test for timeout and error responses"},
	},
	ArchetypePolish: {
		{"Documentation is complete", "README, setup and operations guides reviewed and merged"},
		{"Release candidate is stable", "0 open defects above minor severity"},
		{"Deployment is repeatable", "release pipeline deploys the candidate twice without manual steps"},
	},
}

// extraGate is appended to the first phase of an archetype when a
// dimension score exceeds its threshold.
type extraGate struct {
	archetype Archetype
	dimension complexity.Dimension
	threshold float64
	gate      gateTemplate
}

var extraGates = []extraGate{
	{ArchetypeSetup, complexity.DimUncertainty, 0.60, gateTemplate{
		"Requirements are signed off before core work starts",
		"spec completeness >= 90% with every open question resolved or deferred in writing",
	}},
	{ArchetypeSetup, complexity.DimTechnicalDebt, 0.60, gateTemplate{
		"Legacy behaviour is pinned by characterization tests",
		"every legacy module touched by the plan has at least one passing characterization test",
	}},
	{ArchetypeIntegration, complexity.DimIntegration, 0.70, gateTemplate{
		"Integration contracts are versioned and tested",
		"a contract test exists and passes for every external system",
	}},
	{ArchetypeFeature, complexity.DimScale, 0.70, gateTemplate{
		"Load test confirms the expected user volume",
		"sustained load at projected peak users with error rate < 0.1%",
	}},
}

// GenerateGates builds the gate list for one phase. Gate IDs have the form
// P<phase>-G<n> so they are stable across regenerations.
func GenerateGates(phaseNumber int, archetype Archetype, dims complexity.Scores, firstOfArchetype bool) ([]Gate, error) {
	templates, ok := gateTemplates[archetype]
	if !ok {
		return nil, fmt.Errorf("no gate templates for archetype %q", archetype)
	}

	all := append([]gateTemplate(nil), templates...)
	if firstOfArchetype {
		for _, e := range extraGates {
			if e.archetype == archetype && dims.Get(e.dimension) > e.threshold {
				all = append(all, e.gate)
			}
		}
	}

	gates := make([]Gate, len(all))
	for i, tmpl := range all {
		gates[i] = Gate{
			ID:          fmt.Sprintf("P%d-G%d", phaseNumber, i+1),
			Description: tmpl.description,
			Criterion:   tmpl.criterion,
			Status:      GatePending,
		}
	}
	return gates, nil
}
