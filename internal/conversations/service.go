package conversations

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/empath-labs/intake-server/internal/engine"
	"github.com/empath-labs/intake-server/internal/safety"
)

// User-visible failures. Everything else degrades inside the engine so a
// conversation never stalls mid-intake.
var (
	ErrEmptyMessage         = errors.New("empty message")
	ErrConversationNotFound = errors.New("conversation not found")
)

// TurnEngine processes one conversational turn.
type TurnEngine interface {
	Process(ctx context.Context, turn engine.Turn) engine.Result
}

// RoutingLog records safety routing outcomes for the audit trail.
type RoutingLog interface {
	LogRouting(ctx context.Context, conversationID, mode, marker, phase string) error
}

// Escalator raises an operator alert when a turn exits through a safety mode.
type Escalator interface {
	Escalate(ctx context.Context, conversationID, mode string) error
}

// Service runs the full per-message pipeline: validation, persistence of the
// user message, the engine turn, and the atomic write of reply plus record.
type Service struct {
	store     *Store
	engine    TurnEngine
	audit     RoutingLog
	escalator Escalator

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewService creates a Service. audit and escalator may be nil.
func NewService(store *Store, eng TurnEngine, auditLog RoutingLog, escalator Escalator) *Service {
	return &Service{
		store:     store,
		engine:    eng,
		audit:     auditLog,
		escalator: escalator,
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing turns for one conversation. Turns
// for different conversations proceed in parallel; turns for the same
// conversation are strictly ordered so merges and asked-field updates are
// never lost to interleaving.
func (s *Service) lockFor(conversationID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[conversationID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[conversationID] = l
	}
	return l
}

// HandleMessage processes one incoming user message and returns the turn
// result. Only ErrEmptyMessage and ErrConversationNotFound are returned as
// failures; both leave conversation state untouched.
func (s *Service) HandleMessage(ctx context.Context, conversationID, text string, reporterAge *int) (engine.Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return engine.Result{}, ErrEmptyMessage
	}

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return engine.Result{}, err
	}
	if conv == nil {
		return engine.Result{}, ErrConversationNotFound
	}

	lock := s.lockFor(conversationID)
	lock.Lock()
	defer lock.Unlock()

	if _, err := s.store.AppendMessage(ctx, conversationID, RoleUser, text); err != nil {
		return engine.Result{}, err
	}

	rec, err := s.store.LoadRecord(ctx, conversationID)
	if err != nil {
		return engine.Result{}, err
	}

	res := s.engine.Process(ctx, engine.Turn{
		Text:        text,
		ReporterAge: reporterAge,
		Record:      rec,
	})

	// State consistency beats delivery: once the engine has run, the merge
	// and the assistant message are persisted even if the client has
	// disconnected mid-stream.
	persistCtx := context.WithoutCancel(ctx)
	if err := s.store.SaveTurn(persistCtx, conversationID, res.Reply, res.Record); err != nil {
		return engine.Result{}, err
	}

	if s.audit != nil {
		if err := s.audit.LogRouting(persistCtx, conversationID, string(res.Mode), res.Marker, string(res.Phase)); err != nil {
			log.Printf("conversations: recording routing event: %v", err)
		}
	}
	if s.escalator != nil && res.Mode != safety.ModeNormal {
		if err := s.escalator.Escalate(persistCtx, conversationID, string(res.Mode)); err != nil {
			log.Printf("conversations: raising escalation: %v", err)
		}
	}

	return res, nil
}
