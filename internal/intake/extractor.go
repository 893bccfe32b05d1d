package intake

import (
	"regexp"
	"strings"

	"github.com/empath-labs/intake-server/internal/incident"
)

// Extractor pulls structured slot values out of free text with rule-based
// matching. It only reports slots it is confident about and never produces
// empty values; everything uncertain is left for a follow-up question.
type Extractor struct {
	timePeriod []*regexp.Regexp
	frequency  []valuedPattern
	location   []*regexp.Regexp
	witnesses  []valuedPattern
	evidence   []valuedPattern
	injury     []valuedPattern
}

// valuedPattern maps a matched pattern to a slot value. An empty Value means
// "use the matched text".
type valuedPattern struct {
	re    *regexp.Regexp
	value string
}

// minDescriptionWords is the minimum length for a message to be taken as the
// incident description.
const minDescriptionWords = 6

// NewExtractor compiles the built-in extraction rules.
func NewExtractor() *Extractor {
	re := func(p string) *regexp.Regexp { return regexp.MustCompile(`(?i)` + p) }

	return &Extractor{
		timePeriod: []*regexp.Regexp{
			re(`\b(yesterday|today|last\s+(night|week|month|year))\b`),
			re(`\b(a\s+few|\d+|couple\s+of)\s+(days?|weeks?|months?|years?)\s+ago\b`),
			re(`\bsince\s+(last\s+)?[a-z]+\b`),
			re(`\bearlier\s+this\s+(week|month|year)\b`),
			re(`\b(in|around)\s+(january|february|march|april|may|june|july|august|september|october|november|december)\b`),
		},
		frequency: []valuedPattern{
			{re: re(`\b(just\s+)?(once|one[-\s]time|a\s+single\s+(time|incident))\b`), value: "one-time"},
			{re: re(`\b(every\s+(day|week|night)|daily|weekly|constantly|all\s+the\s+time)\b`), value: "repeated"},
			{re: re(`\b(keeps?\s+happening|happens?\s+again|again\s+and\s+again|repeatedly|many\s+times|several\s+times|ongoing)\b`), value: "repeated"},
		},
		location: []*regexp.Regexp{
			re(`\bonline\b`),
			re(`\bon\s+(whatsapp|instagram|facebook|snapchat|telegram|twitter|discord)\b`),
			re(`\bat\s+(work|school|college|home|the\s+office)\b`),
			re(`\bin\s+(my|our)\s+(house|home|building|neighbourhood|neighborhood|hostel)\b`),
		},
		witnesses: []valuedPattern{
			{re: re(`\b(no\s+one|nobody)\s+(saw|knows|knew|was\s+there)\b`), value: "none reported"},
			{re: re(`\bmy\s+(friend|mother|father|mom|dad|sister|brother|colleague|neighbour|neighbor|roommate)[a-z\s]*\b(saw|witnessed|knows|knew|was\s+there)\b`)},
		},
		evidence: []valuedPattern{
			{re: re(`\b(no\s+(proof|evidence|recordings?))\b`), value: "none"},
			{re: re(`\b(screenshots?|chat\s+logs?|recordings?|voice\s+notes?|photos?|pictures?|videos?|emails?)\b`), value: "yes"},
			{re: re(`\bsaved\s+(the\s+)?(messages?|chats?)\b`), value: "yes"},
		},
		injury: []valuedPattern{
			{re: re(`\b(not\s+hurt|no\s+injur(y|ies)|didn'?t\s+(hurt|touch)\s+me)\b`), value: "no"},
			{re: re(`\b(hurt|injured|bruis(e|ed|es)|bleeding|bled|hit\s+me|beat(en)?\s+me|slapped|pushed)\b`), value: "yes"},
		},
	}
}

// Extract returns a partial slot update for the given text. existing is
// advisory only: slots already populated there are skipped to keep the first
// account of each fact, but a nil existing map is fine.
func (e *Extractor) Extract(text string, existing map[string]string) map[string]string {
	text = strings.TrimSpace(text)
	update := make(map[string]string)
	if text == "" {
		return update
	}

	known := func(slot string) bool {
		return strings.TrimSpace(existing[slot]) != ""
	}

	if !known(incident.SlotDescription) && len(strings.Fields(text)) >= minDescriptionWords {
		update[incident.SlotDescription] = text
	}

	if !known(incident.SlotTimePeriod) {
		if m := firstMatch(e.timePeriod, text); m != "" {
			update[incident.SlotTimePeriod] = strings.ToLower(m)
		}
	}
	if !known(incident.SlotFrequency) {
		if v := firstValued(e.frequency, text); v != "" {
			update[incident.SlotFrequency] = v
		}
	}
	if !known(incident.SlotLocation) {
		if m := firstMatch(e.location, text); m != "" {
			update[incident.SlotLocation] = strings.ToLower(m)
		}
	}
	if !known(incident.SlotWitnesses) {
		if v := firstValued(e.witnesses, text); v != "" {
			update[incident.SlotWitnesses] = v
		}
	}
	if !known(incident.SlotEvidence) {
		if v := firstValued(e.evidence, text); v != "" {
			update[incident.SlotEvidence] = v
		}
	}
	if !known(incident.SlotInjury) {
		if v := firstValued(e.injury, text); v != "" {
			update[incident.SlotInjury] = v
		}
	}

	return update
}

func firstMatch(patterns []*regexp.Regexp, text string) string {
	for _, re := range patterns {
		if m := re.FindString(text); m != "" {
			return m
		}
	}
	return ""
}

func firstValued(patterns []valuedPattern, text string) string {
	for _, p := range patterns {
		if m := p.re.FindString(text); m != "" {
			if p.value != "" {
				return p.value
			}
			return strings.ToLower(m)
		}
	}
	return ""
}
