// Package complexity scores a project across six weighted dimensions.
//
// Raw ProjectSignals are validated, mapped to dimension scores in [0,1],
// combined into one overall score and bucketed into a Category. Everything
// here is pure: no I/O, no shared mutable state.
package complexity

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput is returned when a raw signal is outside its declared domain.
var ErrInvalidInput = errors.New("invalid input")

// ProjectSignals holds the raw measurements a plan is derived from.
type ProjectSignals struct {
	FileCount        int     `json:"file_count" yaml:"file_count" validate:"gte=0"`
	ModuleDepth      int     `json:"module_depth" yaml:"module_depth" validate:"gte=0"`
	BusinessRules    int     `json:"business_rules" yaml:"business_rules" validate:"gte=0"`
	BranchCount      int     `json:"branch_count" yaml:"branch_count" validate:"gte=0"`
	IntegrationCount int     `json:"integration_count" yaml:"integration_count" validate:"gte=0"`
	AuthTypes        int     `json:"auth_types" yaml:"auth_types" validate:"gte=0,lte=3"`
	ExpectedUsers    int     `json:"expected_users" yaml:"expected_users" validate:"gte=1"`
	DataGB           float64 `json:"data_gb" yaml:"data_gb" validate:"gte=0"`
	SpecCompleteness float64 `json:"spec_completeness" yaml:"spec_completeness" validate:"gte=0,lte=1"`
	ClarityScore     float64 `json:"clarity_score" yaml:"clarity_score" validate:"gte=0,lte=1"`
	LegacyFiles      int     `json:"legacy_files" yaml:"legacy_files" validate:"gte=0,ltefield=TotalFiles"`
	TotalFiles       int     `json:"total_files" yaml:"total_files" validate:"gte=1"`
	DeprecatedDeps   int     `json:"deprecated_deps" yaml:"deprecated_deps" validate:"gte=0"`
	TotalDeps        int     `json:"total_deps" yaml:"total_deps" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate reports every field outside its domain in one ErrInvalidInput.
func (s ProjectSignals) Validate() error {
	var problems []string

	// validator's numeric comparisons treat NaN as failing, but +Inf slips
	// through gte=0, so reals are checked for finiteness first.
	for name, v := range map[string]float64{
		"data_gb":           s.DataGB,
		"spec_completeness": s.SpecCompleteness,
		"clarity_score":     s.ClarityScore,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("%s must be a finite number", name))
		}
	}

	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := jsonName(fe.StructField())
	switch fe.Tag() {
	case "gte":
		return fmt.Sprintf("%s must be >= %s (got %v)", field, fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be <= %s (got %v)", field, fe.Param(), fe.Value())
	case "ltefield":
		return fmt.Sprintf("%s must not exceed %s (got %v)", field, jsonName(fe.Param()), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q (got %v)", field, fe.Tag(), fe.Value())
	}
}

// jsonName turns a Go field name into its snake_case wire name.
func jsonName(field string) string {
	switch field {
	case "DataGB":
		return "data_gb"
	}
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
