package notifications

import (
	"context"
	"fmt"
)

// Dispatcher raises operator notifications for safety escalations.
type Dispatcher struct {
	store *Store
}

// NewDispatcher creates a Dispatcher backed by the given store.
func NewDispatcher(store *Store) *Dispatcher {
	return &Dispatcher{store: store}
}

// Escalate records a critical notification for a conversation that exited
// through the given safety mode.
func (d *Dispatcher) Escalate(ctx context.Context, conversationID, mode string) error {
	_, err := d.store.Create(ctx, Notification{
		Type:           TypeSafetyEscalation,
		Severity:       SeverityCritical,
		Title:          fmt.Sprintf("Conversation routed %s", mode),
		Message:        fmt.Sprintf("Conversation %s was routed %s and given the fixed safety reply. Trained follow-up is needed.", conversationID, mode),
		ConversationID: conversationID,
	})
	if err != nil {
		return fmt.Errorf("creating escalation: %w", err)
	}
	return nil
}
