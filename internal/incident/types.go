package incident

// Slot names form the fixed, closed schema of structured facts the intake
// process collects. Values are stored as free text; yes/no slots hold
// "yes" or "no".
const (
	SlotDescription = "incident_description"
	SlotTimePeriod  = "time_period"
	SlotFrequency   = "frequency"
	SlotLocation    = "crime_location"
	SlotWitnesses   = "witnesses"
	SlotEvidence    = "evidence_available"
	SlotInjury      = "injury_present"
)

// schema is the full ordered slot list. witnesses is optional and does not
// count toward completion.
var schema = []string{
	SlotDescription,
	SlotTimePeriod,
	SlotFrequency,
	SlotLocation,
	SlotWitnesses,
	SlotEvidence,
	SlotInjury,
}

var required = []string{
	SlotDescription,
	SlotTimePeriod,
	SlotFrequency,
	SlotLocation,
	SlotEvidence,
	SlotInjury,
}

// Schema returns a copy of the full slot schema in canonical order.
func Schema() []string {
	out := make([]string, len(schema))
	copy(out, schema)
	return out
}

// KnownSlot reports whether name is part of the fixed schema.
func KnownSlot(name string) bool {
	for _, s := range schema {
		if s == name {
			return true
		}
	}
	return false
}

// Record is the accumulating structured state for one conversation. It is
// persisted between turns by the conversations store and mutated only
// through Merge and MarkAsked.
type Record struct {
	Fields      map[string]string `json:"fields"`
	AskedFields []string          `json:"asked_fields"`
	Completion  float64           `json:"completion"`
	Summary     string            `json:"summary,omitempty"`
}

// NewRecord returns a fresh record with every slot present and empty.
// Each conversation gets its own copy; the template is never shared.
func NewRecord() *Record {
	fields := make(map[string]string, len(schema))
	for _, s := range schema {
		fields[s] = ""
	}
	return &Record{
		Fields:      fields,
		AskedFields: []string{},
	}
}

// Clone returns a deep copy of the record. Turn processing works on a copy
// so a failed persistence never leaves half-applied shared state behind.
func (r *Record) Clone() *Record {
	fields := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		fields[k] = v
	}
	asked := make([]string, len(r.AskedFields))
	copy(asked, r.AskedFields)
	return &Record{
		Fields:      fields,
		AskedFields: asked,
		Completion:  r.Completion,
		Summary:     r.Summary,
	}
}

// Asked reports whether a follow-up question for slot has already been posed.
func (r *Record) Asked(slot string) bool {
	for _, a := range r.AskedFields {
		if a == slot {
			return true
		}
	}
	return false
}

// MarkAsked records that a follow-up question for slot was posed. A slot is
// marked at most once.
func (r *Record) MarkAsked(slot string) {
	if r.Asked(slot) {
		return
	}
	r.AskedFields = append(r.AskedFields, slot)
}
