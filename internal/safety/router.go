package safety

import (
	"fmt"
	"regexp"
	"strings"
)

// RouterConfig holds the indicator patterns for each mode. Patterns are
// case-insensitive regular expressions matched against the raw message.
type RouterConfig struct {
	// HighRiskPatterns flag severe violence or threat to life.
	HighRiskPatterns []string
	// PocsoPatterns flag sexual abuse indicators.
	PocsoPatterns []string
	// MinorPatterns flag that the message concerns a minor, used when the
	// reporter's age is unknown.
	MinorPatterns []string
	// MinorAgeLimit is the exclusive age bound below which a reporter is
	// treated as a minor (default 18).
	MinorAgeLimit int
}

// DefaultRouterConfig returns the built-in indicator sets.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		HighRiskPatterns: []string{
			`\bkill(ed|ing)?\b`,
			`\bmurder(ed|ing)?\b`,
			`threat(en(ed|ing)?|s)?\s+to\s+(kill|hurt|harm)`,
			`\b(gun|knife|weapon|acid)\b`,
			`\bstab(bed|bing)?\b`,
			`\bstrangl(e|ed|ing)\b`,
			`\bend(ing)?\s+my\s+life\b`,
			`\bsuicid(e|al)\b`,
			`\bwants?\s+me\s+dead\b`,
		},
		PocsoPatterns: []string{
			`\bsexual(ly)?\s+(abus(e|ed|ing)|assault(ed)?|harass(ed|ment)?)\b`,
			`\bmolest(ed|ing|ation)?\b`,
			`\brap(e|ed|ing)\b`,
			`\btouch(ed|ing)?\s+(me|her|him)\s+inappropriately\b`,
			`\bprivate\s+parts\b`,
			`\bforced\s+(me|her|him)\s+to\s+undress\b`,
			`\binappropriate\s+(photos?|pictures?|videos?)\b`,
		},
		MinorPatterns: []string{
			`\bmy\s+(son|daughter|child|little\s+(brother|sister))\b`,
			`\b(i'?m|i\s+am)\s+(1[0-7]|[1-9])\s*(years?\s+old)?\b`,
			`\bunder\s*(18|age)\b`,
			`\ba\s+minor\b`,
			`\bin\s+(school|class\s+\d+)\b`,
		},
		MinorAgeLimit: 18,
	}
}

// Router classifies messages into a safety mode. Classification is pure and
// CPU-bound; it gates every message and never calls out.
type Router struct {
	highRisk []*regexp.Regexp
	pocso    []*regexp.Regexp
	minor    []*regexp.Regexp
	ageLimit int
}

// NewRouter compiles the configured patterns. Invalid patterns are rejected
// here so that Classify itself cannot fail mid-conversation.
func NewRouter(cfg RouterConfig) (*Router, error) {
	if cfg.MinorAgeLimit <= 0 {
		cfg.MinorAgeLimit = 18
	}

	compile := func(kind string, patterns []string) ([]*regexp.Regexp, error) {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, fmt.Errorf("compiling %s pattern %q: %w", kind, p, err)
			}
			out = append(out, re)
		}
		return out, nil
	}

	highRisk, err := compile("high-risk", cfg.HighRiskPatterns)
	if err != nil {
		return nil, err
	}
	pocso, err := compile("pocso", cfg.PocsoPatterns)
	if err != nil {
		return nil, err
	}
	minor, err := compile("minor", cfg.MinorPatterns)
	if err != nil {
		return nil, err
	}

	return &Router{
		highRisk: highRisk,
		pocso:    pocso,
		minor:    minor,
		ageLimit: cfg.MinorAgeLimit,
	}, nil
}

// Classify routes a message to a safety mode. High-risk indicators are
// checked before POCSO indicators, so a message carrying both routes
// HIGH_RISK. A nil reporterAge degrades POCSO applicability to text-only
// minor indicators.
func (r *Router) Classify(text string, reporterAge *int) Decision {
	text = strings.TrimSpace(text)

	for _, re := range r.highRisk {
		if m := re.FindString(text); m != "" {
			return Decision{Mode: ModeHighRisk, Marker: m}
		}
	}

	if r.concernsMinor(text, reporterAge) {
		for _, re := range r.pocso {
			if m := re.FindString(text); m != "" {
				return Decision{Mode: ModePocso, Marker: m}
			}
		}
	}

	return Decision{
		Mode:           ModeNormal,
		AllowQuestions: true,
		AllowEmpathy:   true,
	}
}

// concernsMinor reports whether the message plausibly concerns a minor:
// either the reporter's known age is below the limit, or the text itself
// carries a minor indicator.
func (r *Router) concernsMinor(text string, reporterAge *int) bool {
	if reporterAge != nil && *reporterAge < r.ageLimit {
		return true
	}
	for _, re := range r.minor {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
