package planner

import (
	"errors"
	"fmt"
	"math"

	"github.com/HendryAvila/phaseplan/internal/complexity"
)

// ErrDistributionInvariant is returned when a timeline no longer sums to
// 100 or a phase share goes negative. Shares are never clamped.
var ErrDistributionInvariant = errors.New("distribution invariant violation")

// sumTolerance is the allowed distance from 100 after adjustments.
const sumTolerance = 0.01

// Adjustment is one triggered redistribution of percentage points.
type Adjustment struct {
	Name      string               `json:"name" yaml:"name"`
	Dimension complexity.Dimension `json:"dimension" yaml:"dimension"`
	Score     float64              `json:"score" yaml:"score"`
	Shifts    []Shift              `json:"shifts" yaml:"shifts"`
}

// adjustmentRule fires when a dimension score exceeds its threshold.
type adjustmentRule struct {
	name      string
	dimension complexity.Dimension
	threshold float64
	shifts    func(Layout) []Shift
}

// adjustmentRules run in this order, cumulatively.
var adjustmentRules = []adjustmentRule{
	{
		name:      "integration-heavy",
		dimension: complexity.DimIntegration,
		threshold: 0.70,
		shifts: func(l Layout) []Shift {
			shifts := append([]Shift(nil), l.IntegrationDonors...)
			gain := 0.0
			for _, s := range l.IntegrationDonors {
				gain -= s.Delta
			}
			return append(shifts, Shift{Phase: l.IntegrationPhase, Delta: gain})
		},
	},
	{
		name:      "high-uncertainty",
		dimension: complexity.DimUncertainty,
		threshold: 0.60,
		shifts: func(Layout) []Shift {
			return []Shift{{Phase: 2, Delta: -5}, {Phase: 1, Delta: 5}}
		},
	},
	{
		name:      "large-scale",
		dimension: complexity.DimScale,
		threshold: 0.70,
		shifts: func(l Layout) []Shift {
			return []Shift{{Phase: 2, Delta: -5}, {Phase: l.FeaturePhase, Delta: 5}}
		},
	},
	{
		name:      "technical-debt",
		dimension: complexity.DimTechnicalDebt,
		threshold: 0.60,
		shifts: func(Layout) []Shift {
			return []Shift{{Phase: 2, Delta: -5}, {Phase: 3, Delta: -5}, {Phase: 1, Delta: 10}}
		},
	},
}

// TriggeredAdjustments returns the adjustments the scores call for, in
// application order.
func TriggeredAdjustments(l Layout, dims complexity.Scores) []Adjustment {
	var out []Adjustment
	for _, r := range adjustmentRules {
		score := dims.Get(r.dimension)
		if score <= r.threshold {
			continue
		}
		out = append(out, Adjustment{
			Name:      r.name,
			Dimension: r.dimension,
			Score:     score,
			Shifts:    r.shifts(l),
		})
	}
	return out
}

// ApplyAdjustments applies each adjustment to a copy of base and checks
// the result still forms a valid timeline.
func ApplyAdjustments(base []float64, adjustments []Adjustment) ([]float64, error) {
	dist := append([]float64(nil), base...)
	for _, a := range adjustments {
		for _, s := range a.Shifts {
			if s.Phase < 1 || s.Phase > len(dist) {
				return nil, fmt.Errorf("%w: adjustment %s targets phase %d of %d",
					ErrDistributionInvariant, a.Name, s.Phase, len(dist))
			}
			dist[s.Phase-1] += s.Delta
		}
	}
	if err := CheckDistribution(dist); err != nil {
		return nil, err
	}
	return dist, nil
}

// CheckDistribution reports negative shares and sums away from 100.
func CheckDistribution(dist []float64) error {
	sum := 0.0
	for i, p := range dist {
		if math.IsNaN(p) || p < 0 {
			return fmt.Errorf("%w: phase %d has share %v", ErrDistributionInvariant, i+1, p)
		}
		sum += p
	}
	if math.Abs(sum-100) > sumTolerance {
		return fmt.Errorf("%w: shares sum to %v, want 100", ErrDistributionInvariant, sum)
	}
	return nil
}

// Distribute computes the adjusted timeline for a layout.
func Distribute(l Layout, dims complexity.Scores) ([]float64, []Adjustment, error) {
	if err := CheckDistribution(l.Base); err != nil {
		return nil, nil, fmt.Errorf("base timeline: %w", err)
	}
	adjustments := TriggeredAdjustments(l, dims)
	dist, err := ApplyAdjustments(l.Base, adjustments)
	if err != nil {
		return nil, nil, err
	}
	return dist, adjustments, nil
}

// Durations converts percentages into hours of a total budget.
func Durations(dist []float64, totalHours float64) []float64 {
	out := make([]float64, len(dist))
	for i, p := range dist {
		out[i] = p * totalHours / 100
	}
	return out
}
