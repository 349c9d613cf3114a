// Package planner turns a complexity assessment into a phased plan.
//
// The pipeline is: phase count → base timeline → adjustments → durations →
// validation gates. Like the complexity package it is pure; persistence of
// the resulting Plan lives in the state package.
package planner

import "fmt"

// Archetype is the kind of work a phase represents. Gate templates are
// chosen per archetype.
type Archetype string

const (
	ArchetypeSetup       Archetype = "setup"
	ArchetypeCore        Archetype = "core"
	ArchetypeFeature     Archetype = "feature"
	ArchetypeIntegration Archetype = "integration"
	ArchetypePolish      Archetype = "polish"
)

// Shift moves a number of percentage points into (positive) or out of
// (negative) a 1-based phase.
type Shift struct {
	Phase int     `json:"phase" yaml:"phase"`
	Delta float64 `json:"delta" yaml:"delta"`
}

// PhaseTemplate names one phase of a layout.
type PhaseTemplate struct {
	Name      string
	Archetype Archetype
}

// Layout fixes everything that depends only on the phase count.
type Layout struct {
	Phases []PhaseTemplate
	// Base is the unadjusted percentage per phase; it sums to 100.
	Base []float64
	// IntegrationPhase receives the integration adjustment.
	IntegrationPhase int
	// IntegrationDonors give up the points IntegrationPhase gains.
	IntegrationDonors []Shift
	// FeaturePhase receives the scale adjustment.
	FeaturePhase int
}

// LayoutRegistry defines the layout for each supported phase count.
//
// Small plans fold feature work into the core phase; larger plans split it
// out and add a polish phase at the end.
var LayoutRegistry = map[int]Layout{
	3: {
		Phases: []PhaseTemplate{
			{"Foundation", ArchetypeSetup},
			{"Core Implementation", ArchetypeCore},
			{"Integration & Release", ArchetypeIntegration},
		},
		Base:              []float64{25, 50, 25},
		IntegrationPhase:  3,
		IntegrationDonors: []Shift{{Phase: 1, Delta: -2}, {Phase: 2, Delta: -3}},
		FeaturePhase:      2,
	},
	4: {
		Phases: []PhaseTemplate{
			{"Foundation", ArchetypeSetup},
			{"Core Implementation", ArchetypeCore},
			{"Feature Development", ArchetypeFeature},
			{"Integration & Release", ArchetypeIntegration},
		},
		Base:              []float64{20, 35, 25, 20},
		IntegrationPhase:  4,
		IntegrationDonors: []Shift{{Phase: 2, Delta: -2}, {Phase: 3, Delta: -3}},
		FeaturePhase:      3,
	},
	5: {
		Phases: []PhaseTemplate{
			{"Foundation", ArchetypeSetup},
			{"Core Implementation", ArchetypeCore},
			{"Feature Development", ArchetypeFeature},
			{"Integration", ArchetypeIntegration},
			{"Polish & Release", ArchetypePolish},
		},
		Base:              []float64{15, 35, 25, 20, 5},
		IntegrationPhase:  4,
		IntegrationDonors: []Shift{{Phase: 2, Delta: -2}, {Phase: 3, Delta: -3}},
		FeaturePhase:      3,
	},
	6: {
		Phases: []PhaseTemplate{
			{"Foundation", ArchetypeSetup},
			{"Core Implementation", ArchetypeCore},
			{"Feature Development", ArchetypeFeature},
			{"Advanced Features", ArchetypeFeature},
			{"Integration", ArchetypeIntegration},
			{"Polish & Release", ArchetypePolish},
		},
		Base:              []float64{12, 20, 25, 20, 18, 5},
		IntegrationPhase:  5,
		IntegrationDonors: []Shift{{Phase: 3, Delta: -2}, {Phase: 4, Delta: -3}},
		FeaturePhase:      3,
	},
}

// LayoutFor returns the layout for a phase count. The returned slices are
// copies, so callers may modify them freely.
func LayoutFor(phaseCount int) (Layout, error) {
	l, ok := LayoutRegistry[phaseCount]
	if !ok {
		return Layout{}, fmt.Errorf("no layout defined for %d phases: must be 3-6", phaseCount)
	}

	out := l
	out.Phases = append([]PhaseTemplate(nil), l.Phases...)
	out.Base = append([]float64(nil), l.Base...)
	out.IntegrationDonors = append([]Shift(nil), l.IntegrationDonors...)
	return out, nil
}

// BaseDistribution returns a copy of the unadjusted timeline for a phase count.
func BaseDistribution(phaseCount int) ([]float64, error) {
	l, err := LayoutFor(phaseCount)
	if err != nil {
		return nil, err
	}
	return l.Base, nil
}
