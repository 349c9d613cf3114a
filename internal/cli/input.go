package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/complexity"
	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// signalsDocument is the on-disk shape of a signals file: the raw signals
// plus optional domain shares.
type signalsDocument struct {
	complexity.ProjectSignals `yaml:",inline"`
	Domains                   planner.Domains `json:"domains,omitempty" yaml:"domains,omitempty"`
}

// addSignalFlags registers --signals and --domain on cmd.
func addSignalFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("signals", "s", "", `signals file (.json, .yaml or .yml; "-" reads JSON or YAML from stdin)`)
	cmd.Flags().StringToString("domain", nil, "domain share in percent, e.g. --domain backend=45 (repeatable)")
	_ = cmd.MarkFlagRequired("signals")
}

// readInput loads the signals file and merges --domain flags over any
// domains it declares.
func readInput(cmd *cobra.Command) (complexity.ProjectSignals, planner.Domains, error) {
	path, _ := cmd.Flags().GetString("signals")
	doc, err := readSignalsFile(cmd.InOrStdin(), path)
	if err != nil {
		return complexity.ProjectSignals{}, nil, err
	}

	flagDomains, _ := cmd.Flags().GetStringToString("domain")
	parsed, err := parseDomains(flagDomains)
	if err != nil {
		return complexity.ProjectSignals{}, nil, err
	}
	domains := doc.Domains
	if len(parsed) > 0 && domains == nil {
		domains = make(planner.Domains, len(parsed))
	}
	for name, share := range parsed {
		domains[name] = share
	}
	return doc.ProjectSignals, domains, nil
}

func readSignalsFile(stdin io.Reader, path string) (signalsDocument, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return signalsDocument{}, fmt.Errorf("reading signals: %w", err)
	}

	var doc signalsDocument
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = decodeJSON(data, &doc)
	case ".yaml", ".yml":
		err = decodeYAML(data, &doc)
	default:
		// stdin or unknown extension: JSON is valid YAML, so YAML covers both.
		err = decodeYAML(data, &doc)
	}
	if err != nil {
		return signalsDocument{}, fmt.Errorf("parsing signals %s: %w", path, err)
	}
	return doc, nil
}

func decodeJSON(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func decodeYAML(data []byte, v any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// parseDomains converts name=share flag values to numbers.
func parseDomains(raw map[string]string) (planner.Domains, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	domains := make(planner.Domains, len(raw))
	for name, s := range raw {
		share, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: domain %q share %q is not a number", complexity.ErrInvalidInput, name, s)
		}
		domains[strings.TrimSpace(name)] = share
	}
	return domains, nil
}
