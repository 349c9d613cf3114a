package planner

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/HendryAvila/phaseplan/internal/complexity"
)

// Domains maps a work domain (e.g. "backend") to its share of the work in
// percent. Shares are independent: they are never normalized and need not
// sum to 100.
type Domains map[string]float64

// majorDomainShare is the share at which a domain counts as major.
const majorDomainShare = 30.0

// Validate rejects empty names and shares outside [0,100].
func (d Domains) Validate() error {
	var problems []string
	for name, share := range d {
		switch {
		case strings.TrimSpace(name) == "":
			problems = append(problems, "domain name must not be empty")
		case math.IsNaN(share) || math.IsInf(share, 0):
			problems = append(problems, fmt.Sprintf("domain %q share must be a finite number", name))
		case share < 0 || share > 100:
			problems = append(problems, fmt.Sprintf("domain %q share must be within [0,100] (got %v)", name, share))
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return fmt.Errorf("%w: %s", complexity.ErrInvalidInput, strings.Join(problems, "; "))
}

// MajorDomains returns the domains holding at least 30% of the work, sorted.
func (d Domains) MajorDomains() []string {
	var major []string
	for name, share := range d {
		if share >= majorDomainShare {
			major = append(major, name)
		}
	}
	sort.Strings(major)
	return major
}

// PhaseCount picks the number of phases for an overall score.
//
//	score < 0.30          → 3
//	0.30 ≤ score < 0.50   → 4 with two or more major domains, else 3
//	0.50 ≤ score < 0.85   → 5
//	score ≥ 0.85          → 6
func PhaseCount(score float64, domains Domains) (int, error) {
	if math.IsNaN(score) || score < 0 || score > 1 {
		return 0, fmt.Errorf("%w: score must be within [0,1] (got %v)", complexity.ErrInvalidInput, score)
	}
	if err := domains.Validate(); err != nil {
		return 0, err
	}

	switch {
	case score < 0.30:
		return 3, nil
	case score < 0.50:
		if len(domains.MajorDomains()) >= 2 {
			return 4, nil
		}
		return 3, nil
	case score < 0.85:
		return 5, nil
	default:
		return 6, nil
	}
}
