package types

// SessionPhase tracks where a session is in the intake funnel
type SessionPhase string

const (
	PhaseTriage    SessionPhase = "TRIAGE"
	PhaseAnalysis  SessionPhase = "ANALYSIS"
	PhaseProposal  SessionPhase = "PROPOSAL"
	PhaseConcluded SessionPhase = "CONCLUDED"
)

// IsValid checks if the session phase is valid
func (p SessionPhase) IsValid() bool {
	switch p {
	case PhaseTriage, PhaseAnalysis, PhaseProposal, PhaseConcluded:
		return true
	default:
		return false
	}
}

// Normalize returns the phase, treating empty as PhaseTriage
func (p SessionPhase) Normalize() SessionPhase {
	if p == "" {
		return PhaseTriage
	}
	return p
}

// String returns the string representation of the session phase
func (p SessionPhase) String() string {
	return string(p)
}
