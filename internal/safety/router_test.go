package safety

import "testing"

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := NewRouter(DefaultRouterConfig())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r
}

func intPtr(n int) *int { return &n }

func TestClassifyHighRisk(t *testing.T) {
	r := newTestRouter(t)

	cases := []string{
		"he threatened to kill me",
		"She said she would murder him",
		"he came at me with a knife",
		"I have been thinking about ending my life",
	}
	for _, text := range cases {
		d := r.Classify(text, nil)
		if d.Mode != ModeHighRisk {
			t.Errorf("%q: mode = %s, want HIGH_RISK", text, d.Mode)
		}
		if d.Marker == "" {
			t.Errorf("%q: expected non-empty marker", text)
		}
		if d.AllowQuestions || d.AllowEmpathy {
			t.Errorf("%q: composition flags set outside NORMAL", text)
		}
	}
}

func TestClassifyPocsoWithMinorAge(t *testing.T) {
	r := newTestRouter(t)

	d := r.Classify("my teacher touched me inappropriately", intPtr(12))
	if d.Mode != ModePocso {
		t.Errorf("mode = %s, want POCSO", d.Mode)
	}
}

func TestClassifyPocsoFromTextOnlyMinorSignal(t *testing.T) {
	r := newTestRouter(t)

	// No age provided; the text itself indicates a minor.
	d := r.Classify("my daughter was sexually abused by a neighbour", nil)
	if d.Mode != ModePocso {
		t.Errorf("mode = %s, want POCSO", d.Mode)
	}
}

func TestClassifyAdultAbuseIsNormal(t *testing.T) {
	r := newTestRouter(t)

	// Adult reporter, no minor indicator: routed NORMAL so intake proceeds.
	d := r.Classify("I was sexually harassed at work", intPtr(34))
	if d.Mode != ModeNormal {
		t.Errorf("mode = %s, want NORMAL", d.Mode)
	}
}

func TestHighRiskPrecedesPocso(t *testing.T) {
	r := newTestRouter(t)

	// Both indicator families present; HIGH_RISK wins.
	d := r.Classify("he molested my daughter and threatened to kill her", intPtr(10))
	if d.Mode != ModeHighRisk {
		t.Errorf("mode = %s, want HIGH_RISK", d.Mode)
	}
}

func TestClassifyNormal(t *testing.T) {
	r := newTestRouter(t)

	d := r.Classify("someone has been sending me rude messages online", nil)
	if d.Mode != ModeNormal {
		t.Errorf("mode = %s, want NORMAL", d.Mode)
	}
	if !d.AllowQuestions || !d.AllowEmpathy {
		t.Error("NORMAL mode should allow questions and empathy")
	}
}

func TestClassifyMissingAgeDoesNotPanic(t *testing.T) {
	r := newTestRouter(t)

	d := r.Classify("", nil)
	if d.Mode != ModeNormal {
		t.Errorf("empty text: mode = %s, want NORMAL", d.Mode)
	}
}

func TestNewRouterRejectsBadPattern(t *testing.T) {
	cfg := DefaultRouterConfig()
	cfg.HighRiskPatterns = append(cfg.HighRiskPatterns, `([unclosed`)
	if _, err := NewRouter(cfg); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
