// Package state persists plans on top of the storage capability.
//
// Layout inside the state directory:
//
//	plans/<id>.json   one document per plan
//	current           ID of the plan being worked on
package state

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/HendryAvila/phaseplan/internal/planner"
	"github.com/HendryAvila/phaseplan/internal/storage"
	"github.com/google/uuid"
)

const (
	// PlansPrefix is the key prefix plan documents live under.
	PlansPrefix = "plans/"
	// CurrentKey holds the ID of the current plan.
	CurrentKey = "current"
)

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// newID generates plan IDs; replaced in tests.
var newID = func() string { return uuid.NewString() }

// Store defines the persistence interface for plans.
// Abstracted for testability (DIP).
type Store interface {
	Create(plan *planner.Plan) error
	Load(planID string) (*planner.Plan, error)
	LoadCurrent() (*planner.Plan, error)
	Save(plan *planner.Plan) error
	List() ([]Summary, error)
}

// Summary is the list view of a stored plan.
type Summary struct {
	ID           string  `json:"id" yaml:"id"`
	CreatedAt    string  `json:"created_at" yaml:"created_at"`
	Category     string  `json:"category" yaml:"category"`
	OverallScore float64 `json:"overall_score" yaml:"overall_score"`
	PhaseCount   int     `json:"phase_count" yaml:"phase_count"`
	CurrentPhase int     `json:"current_phase" yaml:"current_phase"`
	Blocked      bool    `json:"blocked" yaml:"blocked"`
	Current      bool    `json:"current" yaml:"current"`
}

// PlanStore implements Store over any storage.Storage.
type PlanStore struct {
	kv storage.Storage
}

// NewPlanStore creates a plan store on the given storage capability.
func NewPlanStore(kv storage.Storage) *PlanStore {
	return &PlanStore{kv: kv}
}

// PlanKey returns the storage key for a plan document.
func PlanKey(planID string) string {
	return PlansPrefix + planID + ".json"
}

// Create stamps a new plan with an ID and creation time, persists it and
// makes it the current plan.
func (s *PlanStore) Create(plan *planner.Plan) error {
	if plan.ID == "" {
		plan.ID = newID()
	}
	if err := validateID(plan.ID); err != nil {
		return err
	}
	if _, err := s.kv.Read(PlanKey(plan.ID)); err == nil {
		return fmt.Errorf("plan %q already exists", plan.ID)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("checking plan %q: %w", plan.ID, err)
	}

	if plan.CreatedAt == "" {
		plan.CreatedAt = timeNow().UTC().Format(time.RFC3339)
	}
	if err := s.Save(plan); err != nil {
		return err
	}
	if err := s.kv.Write(CurrentKey, []byte(plan.ID)); err != nil {
		return fmt.Errorf("setting current plan: %w", err)
	}
	return nil
}

// Load reads a plan by ID.
func (s *PlanStore) Load(planID string) (*planner.Plan, error) {
	if err := validateID(planID); err != nil {
		return nil, err
	}
	data, err := s.kv.Read(PlanKey(planID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("plan %q not found: %w", planID, err)
		}
		return nil, fmt.Errorf("reading plan %q: %w", planID, err)
	}
	return Decode(data, FormatJSON)
}

// LoadCurrent returns the current plan, or nil (not an error) if none is set.
func (s *PlanStore) LoadCurrent() (*planner.Plan, error) {
	id, err := s.currentID()
	if err != nil || id == "" {
		return nil, err
	}
	return s.Load(id)
}

// Save writes a plan document, replacing any previous version.
func (s *PlanStore) Save(plan *planner.Plan) error {
	if err := validateID(plan.ID); err != nil {
		return err
	}
	if err := plan.Validate(); err != nil {
		return fmt.Errorf("refusing to save invalid plan %q: %w", plan.ID, err)
	}
	data, err := Encode(plan, FormatJSON)
	if err != nil {
		return err
	}
	if err := s.kv.Write(PlanKey(plan.ID), data); err != nil {
		return fmt.Errorf("writing plan %q: %w", plan.ID, err)
	}
	return nil
}

// List returns summaries of every stored plan, oldest first.
// Unreadable documents are skipped.
func (s *PlanStore) List() ([]Summary, error) {
	keys, err := s.kv.List(PlansPrefix)
	if err != nil {
		return nil, fmt.Errorf("listing plans: %w", err)
	}
	current, err := s.currentID()
	if err != nil {
		return nil, err
	}

	result := []Summary{}
	for _, key := range keys {
		if !strings.HasSuffix(key, ".json") {
			continue
		}
		data, err := s.kv.Read(key)
		if err != nil {
			continue
		}
		plan, err := Decode(data, FormatJSON)
		if err != nil {
			continue
		}
		result = append(result, Summary{
			ID:           plan.ID,
			CreatedAt:    plan.CreatedAt,
			Category:     string(plan.Category),
			OverallScore: plan.OverallScore,
			PhaseCount:   plan.PhaseCount,
			CurrentPhase: plan.CurrentPhase(),
			Blocked:      plan.Blocked(),
			Current:      plan.ID == current,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (s *PlanStore) currentID() (string, error) {
	data, err := s.kv.Read(CurrentKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("reading current plan: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// validateID keeps plan IDs usable as a single key segment.
func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("plan ID must not be empty")
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("invalid plan ID %q", id)
	}
	return nil
}
