package complexity

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const tolerance = 1e-9

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// smallProject is the worked example from the planning guide.
func smallProject() ProjectSignals {
	return ProjectSignals{
		FileCount:        10,
		ModuleDepth:      2,
		BusinessRules:    5,
		BranchCount:      8,
		IntegrationCount: 1,
		AuthTypes:        1,
		ExpectedUsers:    50,
		DataGB:           0.5,
		SpecCompleteness: 0.9,
		ClarityScore:     0.9,
		LegacyFiles:      0,
		TotalFiles:       10,
		DeprecatedDeps:   0,
		TotalDeps:        5,
	}
}

// --- Weights ---

func TestWeights_SumToOne(t *testing.T) {
	if err := checkWeights(Weights); err != nil {
		t.Fatalf("checkWeights(Weights) = %v, want nil", err)
	}
}

func TestCheckWeights_RejectsBadSum(t *testing.T) {
	w := map[Dimension]float64{}
	for d, v := range Weights {
		w[d] = v
	}
	w[DimLogic] = 0.30
	if err := checkWeights(w); err == nil {
		t.Fatal("checkWeights should fail when weights sum to 1.05")
	}
}

func TestCheckWeights_RejectsMissingDimension(t *testing.T) {
	w := map[Dimension]float64{DimStructure: 1.0}
	if err := checkWeights(w); err == nil {
		t.Fatal("checkWeights should fail when dimensions are missing")
	}
}

// --- ScoreDimensions ---

func TestScoreDimensions_SmallProject(t *testing.T) {
	got, err := ScoreDimensions(smallProject())
	if err != nil {
		t.Fatalf("ScoreDimensions failed: %v", err)
	}

	wantScale := math.Log10(50)/7*0.4 + math.Log10(0.5)/4*0.6

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"structure", got.Structure, 0.32},
		{"logic", got.Logic, 5.0/20*0.5 + 8.0/30*0.5},
		{"integration", got.Integration, 1.0/8*0.7 + 1.0/3*0.3},
		{"scale", got.Scale, wantScale},
		{"uncertainty", got.Uncertainty, 0.19},
		{"technical_debt", got.TechnicalDebt, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !approx(tt.got, tt.want, tolerance) {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestScoreDimensions_ClampsAtOne(t *testing.T) {
	sig := ProjectSignals{
		FileCount:        5000,
		ModuleDepth:      40,
		BusinessRules:    400,
		BranchCount:      900,
		IntegrationCount: 30,
		AuthTypes:        3,
		ExpectedUsers:    1_000_000_000,
		DataGB:           1_000_000,
		SpecCompleteness: 0,
		ClarityScore:     0,
		LegacyFiles:      100,
		TotalFiles:       100,
		DeprecatedDeps:   50,
		TotalDeps:        10,
	}
	got, err := ScoreDimensions(sig)
	if err != nil {
		t.Fatalf("ScoreDimensions failed: %v", err)
	}
	for _, d := range DimensionOrder {
		if got.Get(d) != 1 {
			t.Errorf("%s = %v, want 1 (clamped)", d, got.Get(d))
		}
	}
}

func TestScoreDimensions_ScaleFloorsEmptyData(t *testing.T) {
	sig := smallProject()
	sig.ExpectedUsers = 1
	sig.DataGB = 0

	got, err := ScoreDimensions(sig)
	if err != nil {
		t.Fatalf("ScoreDimensions failed: %v", err)
	}
	if got.Scale != 0 {
		t.Errorf("scale = %v, want 0 (negative log clamped)", got.Scale)
	}
	if math.IsNaN(got.Scale) || math.IsInf(got.Scale, 0) {
		t.Errorf("scale must be finite, got %v", got.Scale)
	}
}

func TestScoreDimensions_DeprecatedDepsWithoutTotal(t *testing.T) {
	sig := smallProject()
	sig.DeprecatedDeps = 1
	sig.TotalDeps = 0

	got, err := ScoreDimensions(sig)
	if err != nil {
		t.Fatalf("ScoreDimensions failed: %v", err)
	}
	// max(total_deps, 1) keeps the ratio defined: 1/1*0.4.
	if !approx(got.TechnicalDebt, 0.4, tolerance) {
		t.Errorf("technical_debt = %v, want 0.4", got.TechnicalDebt)
	}
}

func TestScoreDimensions_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProjectSignals)
		field  string
	}{
		{"zero total files", func(s *ProjectSignals) { s.TotalFiles = 0; s.LegacyFiles = 0 }, "total_files"},
		{"negative file count", func(s *ProjectSignals) { s.FileCount = -1 }, "file_count"},
		{"zero expected users", func(s *ProjectSignals) { s.ExpectedUsers = 0 }, "expected_users"},
		{"too many auth types", func(s *ProjectSignals) { s.AuthTypes = 4 }, "auth_types"},
		{"clarity above one", func(s *ProjectSignals) { s.ClarityScore = 1.5 }, "clarity_score"},
		{"negative completeness", func(s *ProjectSignals) { s.SpecCompleteness = -0.1 }, "spec_completeness"},
		{"legacy exceeds total", func(s *ProjectSignals) { s.LegacyFiles = 11 }, "legacy_files"},
		{"negative data", func(s *ProjectSignals) { s.DataGB = -1 }, "data_gb"},
		{"NaN data", func(s *ProjectSignals) { s.DataGB = math.NaN() }, "data_gb"},
		{"infinite data", func(s *ProjectSignals) { s.DataGB = math.Inf(1) }, "data_gb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := smallProject()
			tt.mutate(&sig)

			_, err := ScoreDimensions(sig)
			if err == nil {
				t.Fatal("ScoreDimensions should fail")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v should wrap ErrInvalidInput", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q should mention %s", err.Error(), tt.field)
			}
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	sig := smallProject()
	sig.AuthTypes = 9
	sig.ExpectedUsers = 0

	err := sig.Validate()
	if err == nil {
		t.Fatal("Validate should fail")
	}
	for _, field := range []string{"auth_types", "expected_users"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("error %q should mention %s", err.Error(), field)
		}
	}
}

// --- Overall ---

func TestOverall_SmallProject(t *testing.T) {
	dims, err := ScoreDimensions(smallProject())
	if err != nil {
		t.Fatalf("ScoreDimensions failed: %v", err)
	}
	got := Overall(dims)

	want := 0.20*dims.Structure + 0.25*dims.Logic + 0.20*dims.Integration +
		0.15*dims.Scale + 0.10*dims.Uncertainty + 0.10*dims.TechnicalDebt
	if !approx(got, want, tolerance) {
		t.Errorf("Overall = %v, want %v", got, want)
	}
	if !approx(got, 0.192873, 1e-6) {
		t.Errorf("Overall = %v, want ~0.192873", got)
	}
}

func TestOverall_EqualsWeightedSumAcrossGrid(t *testing.T) {
	for _, files := range []int{0, 10, 49, 200} {
		for _, users := range []int{1, 50, 10_000, 5_000_000} {
			for _, clarity := range []float64{0, 0.35, 0.8, 1} {
				sig := smallProject()
				sig.FileCount = files
				sig.ExpectedUsers = users
				sig.ClarityScore = clarity
				sig.LegacyFiles = 3

				dims, err := ScoreDimensions(sig)
				if err != nil {
					t.Fatalf("ScoreDimensions(%+v) failed: %v", sig, err)
				}
				for _, d := range DimensionOrder {
					if v := dims.Get(d); v < 0 || v > 1 {
						t.Errorf("%s = %v, out of [0,1]", d, v)
					}
				}

				got := Overall(dims)
				want := 0.0
				for d, w := range Weights {
					want += dims.Get(d) * w
				}
				if got < 0 || got > 1 {
					t.Errorf("Overall = %v, out of [0,1]", got)
				}
				if !approx(got, want, tolerance) {
					t.Errorf("Overall = %v, want weighted sum %v", got, want)
				}
			}
		}
	}
}

func TestScores_GetUnknownDimension(t *testing.T) {
	s := Scores{Structure: 1}
	if got := s.Get(Dimension("banana")); got != 0 {
		t.Errorf("Get(unknown) = %v, want 0", got)
	}
}
