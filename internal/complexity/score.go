package complexity

import (
	"fmt"
	"math"
)

// Dimension names one weighted axis of project complexity.
type Dimension string

const (
	DimStructure     Dimension = "structure"
	DimLogic         Dimension = "logic"
	DimIntegration   Dimension = "integration"
	DimScale         Dimension = "scale"
	DimUncertainty   Dimension = "uncertainty"
	DimTechnicalDebt Dimension = "technical_debt"
)

// DimensionOrder is the canonical reporting order.
var DimensionOrder = []Dimension{
	DimStructure,
	DimLogic,
	DimIntegration,
	DimScale,
	DimUncertainty,
	DimTechnicalDebt,
}

// Weights is the contribution of each dimension to the overall score.
var Weights = map[Dimension]float64{
	DimStructure:     0.20,
	DimLogic:         0.25,
	DimIntegration:   0.20,
	DimScale:         0.15,
	DimUncertainty:   0.10,
	DimTechnicalDebt: 0.10,
}

// weightTolerance bounds the drift allowed when summing Weights.
const weightTolerance = 1e-9

// DataFloorGB replaces data volumes below it before taking log10,
// so an empty data set scores like one megabyte instead of -Inf.
const DataFloorGB = 0.001

func init() {
	if err := checkWeights(Weights); err != nil {
		panic(err)
	}
}

// checkWeights asserts the weights cover every dimension and sum to 1.
func checkWeights(w map[Dimension]float64) error {
	sum := 0.0
	for _, d := range DimensionOrder {
		v, ok := w[d]
		if !ok {
			return fmt.Errorf("complexity: missing weight for %s", d)
		}
		sum += v
	}
	if math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("complexity: weights sum to %v, want 1.0", sum)
	}
	return nil
}

// Scores holds the six dimension scores, each in [0,1].
type Scores struct {
	Structure     float64 `json:"structure" yaml:"structure"`
	Logic         float64 `json:"logic" yaml:"logic"`
	Integration   float64 `json:"integration" yaml:"integration"`
	Scale         float64 `json:"scale" yaml:"scale"`
	Uncertainty   float64 `json:"uncertainty" yaml:"uncertainty"`
	TechnicalDebt float64 `json:"technical_debt" yaml:"technical_debt"`
}

// Get returns the score for a single dimension (0 for unknown names).
func (s Scores) Get(d Dimension) float64 {
	switch d {
	case DimStructure:
		return s.Structure
	case DimLogic:
		return s.Logic
	case DimIntegration:
		return s.Integration
	case DimScale:
		return s.Scale
	case DimUncertainty:
		return s.Uncertainty
	case DimTechnicalDebt:
		return s.TechnicalDebt
	}
	return 0
}

// ScoreDimensions validates the signals and maps them onto the six axes.
func ScoreDimensions(sig ProjectSignals) (Scores, error) {
	if err := sig.Validate(); err != nil {
		return Scores{}, err
	}

	structure := ratio(sig.FileCount, 50)*0.4 + ratio(sig.ModuleDepth, 5)*0.6
	logic := ratio(sig.BusinessRules, 20)*0.5 + ratio(sig.BranchCount, 30)*0.5
	integration := ratio(sig.IntegrationCount, 8)*0.7 + ratio(sig.AuthTypes, 3)*0.3

	data := math.Max(sig.DataGB, DataFloorGB)
	scale := math.Log10(float64(sig.ExpectedUsers))/7*0.4 + math.Log10(data)/4*0.6

	uncertainty := 1 - sig.SpecCompleteness*sig.ClarityScore

	debt := ratio(sig.LegacyFiles, sig.TotalFiles)*0.6 +
		ratio(sig.DeprecatedDeps, max(sig.TotalDeps, 1))*0.4

	return Scores{
		Structure:     clamp01(structure),
		Logic:         clamp01(logic),
		Integration:   clamp01(integration),
		Scale:         clamp01(scale),
		Uncertainty:   clamp01(uncertainty),
		TechnicalDebt: clamp01(debt),
	}, nil
}

// Overall combines dimension scores with Weights.
func Overall(s Scores) float64 {
	total := 0.0
	for _, d := range DimensionOrder {
		total += s.Get(d) * Weights[d]
	}
	return clamp01(total)
}

func ratio(n, d int) float64 {
	return float64(n) / float64(d)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
