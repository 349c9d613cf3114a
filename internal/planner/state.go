package planner

import (
	"errors"
	"fmt"
)

// --- Gate state machine ---
//
// pending → in_progress → passed | failed. Only ResetGate moves a gate
// back to pending. A phase may start (any gate leaving pending) only once
// every gate of the previous phase has passed.

var (
	// ErrGateNotFound is returned when no gate has the requested ID.
	ErrGateNotFound = errors.New("gate not found")
	// ErrInvalidTransition is returned for moves the state machine forbids.
	ErrInvalidTransition = errors.New("invalid gate transition")
	// ErrPhaseBlocked is returned when the previous phase is not complete.
	ErrPhaseBlocked = errors.New("phase blocked")
)

// PhaseStatus is derived from a phase's gates. It is never persisted.
type PhaseStatus string

const (
	PhasePending    PhaseStatus = "pending"
	PhaseInProgress PhaseStatus = "in_progress"
	PhaseBlocked    PhaseStatus = "blocked"
	PhaseCompleted  PhaseStatus = "completed"
)

var gateTransitions = map[GateStatus][]GateStatus{
	GatePending:    {GateInProgress},
	GateInProgress: {GatePassed, GateFailed},
}

// CanTransition reports whether a gate may move from one status to another.
func CanTransition(from, to GateStatus) bool {
	for _, next := range gateTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Status derives the phase status from its gates. Any failed gate blocks
// the phase.
func (ph Phase) Status() PhaseStatus {
	passed, pending := 0, 0
	for _, g := range ph.Gates {
		switch g.Status {
		case GateFailed:
			return PhaseBlocked
		case GatePassed:
			passed++
		case GatePending:
			pending++
		}
	}
	switch {
	case len(ph.Gates) > 0 && passed == len(ph.Gates):
		return PhaseCompleted
	case pending == len(ph.Gates):
		return PhasePending
	default:
		return PhaseInProgress
	}
}

// CurrentPhase returns the number of the first phase that is not complete,
// or 0 when every phase is complete.
func (p *Plan) CurrentPhase() int {
	for _, ph := range p.Phases {
		if ph.Status() != PhaseCompleted {
			return ph.Number
		}
	}
	return 0
}

// Blocked reports whether any gate in the plan has failed.
func (p *Plan) Blocked() bool {
	for _, ph := range p.Phases {
		if ph.Status() == PhaseBlocked {
			return true
		}
	}
	return false
}

// Completed reports whether every gate in the plan has passed.
func (p *Plan) Completed() bool {
	return len(p.Phases) > 0 && p.CurrentPhase() == 0
}

// findGate returns the phase and gate index for a gate ID.
func (p *Plan) findGate(gateID string) (int, int, error) {
	for i, ph := range p.Phases {
		for j, g := range ph.Gates {
			if g.ID == gateID {
				return i, j, nil
			}
		}
	}
	return -1, -1, fmt.Errorf("%w: %q", ErrGateNotFound, gateID)
}

// Gate returns a copy of the gate with the given ID.
func (p *Plan) Gate(gateID string) (Gate, error) {
	i, j, err := p.findGate(gateID)
	if err != nil {
		return Gate{}, err
	}
	return p.Phases[i].Gates[j], nil
}

// TransitionGate moves a gate to a new status, enforcing the state machine
// and phase ordering.
func TransitionGate(p *Plan, gateID string, to GateStatus) error {
	if err := ValidateGateStatus(to); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	i, j, err := p.findGate(gateID)
	if err != nil {
		return err
	}
	gate := &p.Phases[i].Gates[j]

	if !CanTransition(gate.Status, to) {
		return fmt.Errorf("%w: gate %s cannot move from %s to %s", ErrInvalidTransition, gateID, gate.Status, to)
	}

	if gate.Status == GatePending && i > 0 {
		prev := p.Phases[i-1]
		if st := prev.Status(); st != PhaseCompleted {
			return fmt.Errorf("%w: phase %d cannot start while phase %d is %s",
				ErrPhaseBlocked, p.Phases[i].Number, prev.Number, st)
		}
	}

	gate.Status = to
	return nil
}

// ResetGate returns a gate to pending regardless of its current status.
func ResetGate(p *Plan, gateID string) error {
	i, j, err := p.findGate(gateID)
	if err != nil {
		return err
	}
	p.Phases[i].Gates[j].Status = GatePending
	return nil
}
