package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/planner"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding for plans.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml (case-insensitive).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("invalid format %q: must be one of: json, yaml", s)
}

// Encode serializes a plan in the given format.
func Encode(plan *planner.Plan, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling plan: %w", err)
		}
		return data, nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(plan); err != nil {
			return nil, fmt.Errorf("marshaling plan: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshaling plan: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("invalid format %q", f)
}

// Decode parses a plan document and checks the plan invariants.
func Decode(data []byte, f Format) (*planner.Plan, error) {
	var plan planner.Plan
	switch f {
	case FormatJSON:
		if err := json.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("parsing plan: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("parsing plan: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid format %q", f)
	}

	if err := plan.Validate(); err != nil {
		return nil, fmt.Errorf("invalid plan %q: %w", plan.ID, err)
	}
	return &plan, nil
}
