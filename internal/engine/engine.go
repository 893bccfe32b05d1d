// Package engine drives one conversational turn of the incident intake
// process: safety routing first, then fact extraction and merging, then a
// single composed reply with at most one follow-up question.
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/empath-labs/intake-server/internal/incident"
	"github.com/empath-labs/intake-server/internal/intake"
	"github.com/empath-labs/intake-server/internal/llm"
	"github.com/empath-labs/intake-server/internal/safety"
)

// fallbackSummary replaces a failed or empty generated summary so the
// summary phase always concludes.
const fallbackSummary = "Based on the information shared, a partial incident summary can be prepared, though some details remain unspecified."

// Config holds the engine's tunables. The fixed safety replies and the
// completion threshold come from configuration so tests and deployments can
// override them deterministically.
type Config struct {
	// CompletionThreshold is the completion ratio at which intake stops and
	// the summary phase begins (default 0.7).
	CompletionThreshold float64
	// Model overrides the provider's default model when non-empty.
	Model string
	// HighRiskReply and PocsoReply are the fixed, non-generated replies for
	// the two safety exit modes.
	HighRiskReply string
	PocsoReply    string
}

// Engine processes turns. It holds no conversation state of its own: all
// state enters through Turn.Record and leaves through Result.Record.
type Engine struct {
	cfg       Config
	provider  llm.Provider
	router    *safety.Router
	extractor *intake.Extractor
	selector  *intake.Selector
}

// New creates an engine. A nil extractor or selector falls back to the
// built-in rules and question table.
func New(cfg Config, provider llm.Provider, router *safety.Router, extractor *intake.Extractor, selector *intake.Selector) *Engine {
	if cfg.CompletionThreshold <= 0 {
		cfg.CompletionThreshold = 0.7
	}
	if extractor == nil {
		extractor = intake.NewExtractor()
	}
	if selector == nil {
		selector = intake.NewSelector(nil)
	}
	return &Engine{
		cfg:       cfg,
		provider:  provider,
		router:    router,
		extractor: extractor,
		selector:  selector,
	}
}

// Process runs one turn start to finish. It never fails: generation and
// extraction problems degrade to safe fixed text per the failure policy, so
// the conversation cannot stall mid-intake. Input validation belongs to the
// caller.
func (e *Engine) Process(ctx context.Context, turn Turn) Result {
	rec := turn.Record
	if rec == nil {
		rec = incident.NewRecord()
	} else {
		rec = rec.Clone()
	}

	// Safety check gates everything; the exit replies are fixed text and
	// no extraction runs on these turns.
	decision := e.classify(turn.Text, turn.ReporterAge)
	switch decision.Mode {
	case safety.ModeHighRisk:
		return Result{
			Phase:      PhaseHighRisk,
			Reply:      e.cfg.HighRiskReply,
			Mode:       decision.Mode,
			Marker:     decision.Marker,
			Record:     rec,
			Completion: rec.Completion,
		}
	case safety.ModePocso:
		return Result{
			Phase:      PhasePocso,
			Reply:      e.cfg.PocsoReply,
			Mode:       decision.Mode,
			Marker:     decision.Marker,
			Record:     rec,
			Completion: rec.Completion,
		}
	}

	rec.ApplyUpdate(e.extractor.Extract(turn.Text, rec.Fields))

	var phase Phase
	var reply string
	switch {
	case rec.Completion < e.cfg.CompletionThreshold:
		phase = PhaseIntake
		reply = e.intakeReply(ctx, turn.Text, rec, decision)
	case rec.Summary == "":
		phase = PhaseSummary
		reply = e.summarize(ctx, rec)
		rec.Summary = reply
	default:
		phase = PhaseSupport
		reply = e.supportReply(ctx, turn.Text, rec.Summary)
	}

	return Result{
		Phase:      phase,
		Reply:      reply,
		Mode:       decision.Mode,
		Record:     rec,
		Completion: rec.Completion,
	}
}

// intakeReply composes the warm free-form reply with at most one follow-up
// question.
func (e *Engine) intakeReply(ctx context.Context, text string, rec *incident.Record, decision safety.Decision) string {
	var primary string
	if decision.AllowEmpathy {
		primary = e.generate(ctx, replySystemPrompt, fmt.Sprintf(replyPromptTemplate, text))
	}

	var question string
	if decision.AllowQuestions {
		if _, q, ok := e.selector.Next(rec); ok {
			question = q
		}
	}

	return intake.Compose(primary, question)
}

// summarize produces the one-time neutral factual summary of the record.
func (e *Engine) summarize(ctx context.Context, rec *incident.Record) string {
	data, err := json.MarshalIndent(rec.Fields, "", "  ")
	if err != nil {
		log.Printf("engine: marshalling record for summary: %v", err)
		return fallbackSummary
	}

	summary := e.generate(ctx, summarySystemPrompt, fmt.Sprintf(summaryPromptTemplate, data))
	if summary == "" {
		return fallbackSummary
	}
	return summary
}

// supportReply generates an empathetic reply grounded in the stored summary.
func (e *Engine) supportReply(ctx context.Context, text, summary string) string {
	reply := e.generate(ctx, supportSystemPrompt, fmt.Sprintf(supportPromptTemplate, summary, text))
	if reply == "" {
		return intake.FallbackReply
	}
	return reply
}

// generate calls the provider and returns its text, or "" on any failure.
// Generator failures are logged and never surfaced to the conversation.
func (e *Engine) generate(ctx context.Context, system, prompt string) string {
	if e.provider == nil {
		return ""
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Model: e.cfg.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: prompt},
		},
		Temperature: 0.6,
	})
	if err != nil {
		log.Printf("engine: generation failed: %v", err)
		return ""
	}
	return resp.Content
}

// classify runs the safety router, degrading to NORMAL if the router is
// missing so a misconfiguration never stalls the pipeline.
func (e *Engine) classify(text string, age *int) safety.Decision {
	if e.router == nil {
		log.Printf("engine: safety router unavailable, defaulting to NORMAL")
		return safety.Decision{Mode: safety.ModeNormal, AllowQuestions: true, AllowEmpathy: true}
	}
	return e.router.Classify(text, age)
}
