package safety

// Mode is the safety-routing outcome for one message. Exactly one mode is
// returned per message; HIGH_RISK takes precedence over POCSO, POCSO over
// NORMAL.
type Mode string

const (
	ModeNormal   Mode = "NORMAL"
	ModeHighRisk Mode = "HIGH_RISK"
	ModePocso    Mode = "POCSO"
)

// Decision is the routing outcome for a single message. It is computed per
// message, consumed within the same turn and never persisted.
type Decision struct {
	Mode Mode
	// Marker is the matched indicator, for the audit trail. Empty in
	// NORMAL mode.
	Marker string
	// AllowQuestions and AllowEmpathy tune downstream composition within
	// NORMAL mode. Both are false outside NORMAL.
	AllowQuestions bool
	AllowEmpathy   bool
}
