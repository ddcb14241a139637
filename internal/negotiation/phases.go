package negotiation

import (
	"fmt"

	"github.com/paddockworks/pitwall-engine/internal/domain"
)

// validTransitions defines the one-directional negotiation phase flow shared
// by all four stakeholder kinds.
var validTransitions = map[domain.NegotiationPhase]map[domain.NegotiationPhase]bool{
	domain.PhaseInProgress:       {domain.PhaseResponseReceived: true},
	domain.PhaseResponseReceived: {domain.PhaseCompleted: true, domain.PhaseFailed: true},
}

// IsValidTransition checks whether a phase transition is legal.
func IsValidTransition(from, to domain.NegotiationPhase) bool {
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// AdvancePhase moves a negotiation to the next phase, rejecting backwards or
// skipping transitions.
func AdvancePhase(n domain.Negotiation, to domain.NegotiationPhase) error {
	base := n.Base()
	if !IsValidTransition(base.Phase, to) {
		return domain.NewEngineError(domain.ErrNegotiationPhase.Code,
			fmt.Sprintf("illegal negotiation transition %s -> %s", base.Phase, to))
	}
	base.Phase = to
	return nil
}
