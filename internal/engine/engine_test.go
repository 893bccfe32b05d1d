package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/empath-labs/intake-server/internal/incident"
	"github.com/empath-labs/intake-server/internal/llm"
	"github.com/empath-labs/intake-server/internal/safety"
)

// fakeProvider returns a canned reply, or an error when Err is set.
type fakeProvider struct {
	Reply string
	Err   error
	Calls []llm.CompletionRequest
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	f.Calls = append(f.Calls, req)
	if f.Err != nil {
		return nil, f.Err
	}
	return &llm.CompletionResponse{Content: f.Reply}, nil
}

const (
	testHighRiskReply = "Your safety matters. Please contact emergency services at 112 right away."
	testPocsoReply    = "What you have shared is serious and protected under law. A trained child-welfare counselor needs to be involved."
)

func newTestEngine(t *testing.T, provider llm.Provider) *Engine {
	t.Helper()
	router, err := safety.NewRouter(safety.DefaultRouterConfig())
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return New(Config{
		HighRiskReply: testHighRiskReply,
		PocsoReply:    testPocsoReply,
	}, provider, router, nil, nil)
}

func intPtr(n int) *int { return &n }

func TestHighRiskExit(t *testing.T) {
	provider := &fakeProvider{Reply: "should not be used"}
	e := newTestEngine(t, provider)

	res := e.Process(context.Background(), Turn{
		Text:        "he threatened to kill me",
		ReporterAge: intPtr(10),
	})

	if res.Phase != PhaseHighRisk {
		t.Errorf("phase = %s, want high_risk", res.Phase)
	}
	if res.Reply != testHighRiskReply {
		t.Errorf("reply = %q, want the fixed catalog text verbatim", res.Reply)
	}
	if len(provider.Calls) != 0 {
		t.Error("generator called on a safety exit turn")
	}
	// No extraction on safety exits.
	for slot, v := range res.Record.Fields {
		if v != "" {
			t.Errorf("slot %s extracted on high-risk turn: %q", slot, v)
		}
	}
}

func TestPocsoExit(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{Reply: "unused"})

	res := e.Process(context.Background(), Turn{
		Text:        "my teacher touched me inappropriately",
		ReporterAge: intPtr(12),
	})

	if res.Phase != PhasePocso {
		t.Errorf("phase = %s, want pocso", res.Phase)
	}
	if res.Reply != testPocsoReply {
		t.Errorf("reply = %q", res.Reply)
	}
}

func TestIntakeTurnComposesReplyAndQuestion(t *testing.T) {
	provider := &fakeProvider{Reply: "That sounds really difficult, thank you for telling me."}
	e := newTestEngine(t, provider)

	res := e.Process(context.Background(), Turn{
		Text: "my landlord has been harassing me about leaving since last week",
	})

	if res.Phase != PhaseIntake {
		t.Fatalf("phase = %s, want intake", res.Phase)
	}
	if !strings.HasPrefix(res.Reply, provider.Reply) {
		t.Errorf("reply missing generated text: %q", res.Reply)
	}
	if !strings.Contains(res.Reply, "If you feel comfortable sharing,") {
		t.Errorf("reply missing softened follow-up: %q", res.Reply)
	}
	if res.Record.Fields[incident.SlotDescription] == "" {
		t.Error("description not extracted")
	}
	if res.Record.Fields[incident.SlotTimePeriod] != "last week" {
		t.Errorf("time_period = %q", res.Record.Fields[incident.SlotTimePeriod])
	}
	// time_period was extracted, so the next question by priority is
	// frequency and it is marked asked in the pending record.
	if !res.Record.Asked(incident.SlotFrequency) {
		t.Errorf("asked_fields = %v, want frequency marked", res.Record.AskedFields)
	}
}

func TestGenerationFailureFallsBack(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{Err: errors.New("upstream timeout")})

	res := e.Process(context.Background(), Turn{Text: "someone is spreading lies about me at work"})

	if res.Phase != PhaseIntake {
		t.Fatalf("phase = %s", res.Phase)
	}
	if !strings.HasPrefix(res.Reply, "I'm here with you.") {
		t.Errorf("expected fallback primary text, got %q", res.Reply)
	}
}

func TestProcessDoesNotMutateInputRecord(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{Reply: "ok"})

	rec := incident.NewRecord()
	res := e.Process(context.Background(), Turn{
		Text:   "my ex keeps showing up at my office and following me home",
		Record: rec,
	})

	if rec.Fields[incident.SlotDescription] != "" {
		t.Error("input record mutated")
	}
	if len(rec.AskedFields) != 0 {
		t.Error("input asked_fields mutated")
	}
	if res.Record == rec {
		t.Error("result record is the input record, not a pending copy")
	}
}

// filledRecord returns a record past the default completion threshold.
func filledRecord() *incident.Record {
	rec := incident.NewRecord()
	rec.ApplyUpdate(map[string]string{
		incident.SlotDescription: "a colleague has been blackmailing me over private photos",
		incident.SlotTimePeriod:  "since march",
		incident.SlotFrequency:   "repeated",
		incident.SlotLocation:    "online",
		incident.SlotEvidence:    "yes",
	})
	return rec
}

func TestSummaryPhaseSetsSummaryOnce(t *testing.T) {
	provider := &fakeProvider{Reply: "The reporter describes repeated blackmail by a colleague beginning in March."}
	e := newTestEngine(t, provider)

	res := e.Process(context.Background(), Turn{
		Text:   "I was not hurt physically, just scared",
		Record: filledRecord(),
	})

	if res.Phase != PhaseSummary {
		t.Fatalf("phase = %s, want summary (completion %v)", res.Phase, res.Completion)
	}
	if res.Reply != provider.Reply {
		t.Errorf("summary reply = %q", res.Reply)
	}
	if res.Record.Summary != provider.Reply {
		t.Error("summary not stored on the record")
	}

	// A later turn with the stored summary gives support, not a new summary.
	provider.Reply = "I hear how frightening this has been."
	res2 := e.Process(context.Background(), Turn{
		Text:   "thank you, what should I do next?",
		Record: res.Record,
	})
	if res2.Phase != PhaseSupport {
		t.Errorf("phase = %s, want support", res2.Phase)
	}
	if res2.Record.Summary != res.Record.Summary {
		t.Error("summary regenerated")
	}
	if strings.Contains(res2.Reply, "If you feel comfortable sharing,") {
		t.Error("support phase asked a follow-up question")
	}
}

func TestSummaryGenerationFailureUsesFixedText(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{Err: errors.New("unavailable")})

	res := e.Process(context.Background(), Turn{
		Text:   "not hurt, no",
		Record: filledRecord(),
	})

	if res.Phase != PhaseSummary {
		t.Fatalf("phase = %s", res.Phase)
	}
	if res.Reply != fallbackSummary {
		t.Errorf("reply = %q, want fallback summary", res.Reply)
	}
	if res.Record.Summary != fallbackSummary {
		t.Error("fallback summary not stored")
	}
}

func TestThresholdOverride(t *testing.T) {
	router, _ := safety.NewRouter(safety.DefaultRouterConfig())
	e := New(Config{CompletionThreshold: 0.1}, &fakeProvider{Reply: "summary text"}, router, nil, nil)

	// One substantial message already clears a 0.1 threshold.
	res := e.Process(context.Background(), Turn{
		Text: "my neighbour damaged my car on purpose last night",
	})
	if res.Phase != PhaseSummary {
		t.Errorf("phase = %s, want summary with lowered threshold", res.Phase)
	}
}

func TestRoundTripPreservesQuestionBehavior(t *testing.T) {
	provider := &fakeProvider{Reply: "ok"}
	e := newTestEngine(t, provider)

	res := e.Process(context.Background(), Turn{
		Text: "someone hacked my account and keeps messaging my contacts",
	})

	// Simulate persistence: serialize, reload, resume.
	data, err := json.Marshal(res.Record)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	reloaded := &incident.Record{}
	if err := json.Unmarshal(data, reloaded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	resA := e.Process(context.Background(), Turn{Text: "it started last month", Record: res.Record})
	resB := e.Process(context.Background(), Turn{Text: "it started last month", Record: reloaded})

	if resA.Reply != resB.Reply {
		t.Errorf("replies diverge after reload: %q vs %q", resA.Reply, resB.Reply)
	}
	if len(resA.Record.AskedFields) != len(resB.Record.AskedFields) {
		t.Error("asked_fields diverge after reload")
	}
}
