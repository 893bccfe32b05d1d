package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/empath-labs/intake-server/internal/db"
)

// Store manages persistence of routing events.
type Store struct {
	db *db.DB
}

// NewStore creates a new audit store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// LogRouting appends a routing decision to the trail.
func (s *Store) LogRouting(ctx context.Context, conversationID, mode, marker, phase string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO safety_events (id, timestamp, conversation_id, mode, marker, phase)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), time.Now().UTC(), conversationID, mode, marker, phase,
	)
	if err != nil {
		return fmt.Errorf("inserting safety event: %w", err)
	}
	return nil
}

// List returns events matching the filter, newest first.
func (s *Store) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	query := `SELECT id, timestamp, conversation_id, mode, marker, phase FROM safety_events WHERE 1=1`
	args := []interface{}{}

	if filter.ConversationID != "" {
		query += " AND conversation_id = ?"
		args = append(args, filter.ConversationID)
	}
	if filter.Mode != "" {
		query += " AND mode = ?"
		args = append(args, filter.Mode)
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing safety events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.ConversationID, &e.Mode, &e.Marker, &e.Phase); err != nil {
			return nil, fmt.Errorf("scanning safety event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
