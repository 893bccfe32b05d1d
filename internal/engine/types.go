package engine

import (
	"github.com/empath-labs/intake-server/internal/incident"
	"github.com/empath-labs/intake-server/internal/safety"
)

// Phase is the processing branch a turn resolved to. It is derived from the
// safety decision and the record state each turn; there is no stored
// cross-turn phase.
type Phase string

const (
	PhaseHighRisk Phase = "high_risk"
	PhasePocso    Phase = "pocso"
	PhaseIntake   Phase = "intake"
	PhaseSummary  Phase = "summary"
	PhaseSupport  Phase = "support"
)

// Turn is one incoming user message plus the conversation's current record.
type Turn struct {
	Text string
	// ReporterAge is the reporter's age when known; nil otherwise.
	ReporterAge *int
	// Record is the state loaded for this conversation; nil starts a fresh
	// record. Process never mutates it.
	Record *incident.Record
}

// Result is the complete outcome of one turn: the reply to deliver and the
// updated record. The record (fields and asked-list together) is the single
// pending update the caller persists atomically with the assistant message.
type Result struct {
	Phase      Phase
	Reply      string
	Mode       safety.Mode
	Marker     string
	Record     *incident.Record
	Completion float64
}
