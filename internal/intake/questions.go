package intake

import "github.com/empath-labs/intake-server/internal/incident"

// Question pairs a slot with its follow-up wording. The selector returns the
// bare question; the composer adds the softening preamble.
type Question struct {
	Slot string
	Text string
}

// BootstrapQuestion is the open-ended prompt used while no incident
// description has been captured yet. It has no slot, is never marked asked
// and may repeat across turns until the person shares what happened.
const BootstrapQuestion = "would you like to tell me a little more about what happened?"

// DefaultQuestions is the fixed priority order for structured follow-ups.
var DefaultQuestions = []Question{
	{incident.SlotTimePeriod, "when did this situation first begin for you?"},
	{incident.SlotFrequency, "has this been happening repeatedly, or was it a one-time experience?"},
	{incident.SlotLocation, "is this happening somewhere specific, like online or in a particular place?"},
	{incident.SlotWitnesses, "was anyone else aware of what happened, or someone you trust who knows about this?"},
	{incident.SlotEvidence, "do you happen to have any messages, screenshots, or anything else that might document what happened?"},
	{incident.SlotInjury, "have you experienced any physical harm as a result of this?"},
}

// Selector picks the single highest-priority unanswered, unasked follow-up
// question for a record.
type Selector struct {
	questions []Question
}

// NewSelector creates a selector over the given priority table; a nil table
// uses DefaultQuestions.
func NewSelector(questions []Question) *Selector {
	if questions == nil {
		questions = DefaultQuestions
	}
	return &Selector{questions: questions}
}

// Next returns the next question for the record, or ok=false when every slot
// is either filled or already asked. Selecting a slot question marks that
// slot asked on the record — the caller persists the record, so the mark and
// any merged facts land together. The bootstrap question carries no slot and
// marks nothing.
func (s *Selector) Next(rec *incident.Record) (slot, text string, ok bool) {
	if rec.Fields[incident.SlotDescription] == "" {
		return "", BootstrapQuestion, true
	}

	for _, q := range s.questions {
		if rec.Fields[q.Slot] == "" && !rec.Asked(q.Slot) {
			rec.MarkAsked(q.Slot)
			return q.Slot, q.Text, true
		}
	}
	return "", "", false
}
