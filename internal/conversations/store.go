package conversations

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/empath-labs/intake-server/internal/db"
	"github.com/empath-labs/intake-server/internal/incident"
)

// Store manages persistence of conversations, their messages and the
// per-conversation incident record.
type Store struct {
	db *db.DB
}

// NewStore creates a new conversations store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateConversation starts a new conversation.
func (s *Store) CreateConversation(ctx context.Context, userID, title string) (*Conversation, error) {
	c := Conversation{
		ID:     uuid.New().String(),
		UserID: userID,
		Title:  title,
	}
	if c.UserID == "" {
		c.UserID = "anonymous"
	}
	if c.Title == "" {
		c.Title = "New Chat"
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (id, user_id, title, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Title, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting conversation: %w", err)
	}
	return &c, nil
}

// GetConversation retrieves a conversation by ID, or nil if it does not exist.
func (s *Store) GetConversation(ctx context.Context, id string) (*Conversation, error) {
	var c Conversation
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM conversations WHERE id = ?`, id,
	).Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}
	return &c, nil
}

// ListConversations returns a user's conversations, newest first.
func (s *Store) ListConversations(ctx context.Context, userID string) ([]Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, created_at, updated_at FROM conversations
		 WHERE user_id = ? ORDER BY updated_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing conversations: %w", err)
	}
	defer rows.Close()

	var out []Conversation
	for rows.Next() {
		var c Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteConversation removes a conversation and, via foreign keys, its
// messages and incident record.
func (s *Store) DeleteConversation(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting conversation: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrConversationNotFound
	}
	return nil
}

// AppendMessage appends a role-tagged message to a conversation.
func (s *Store) AppendMessage(ctx context.Context, conversationID string, role Role, content string) (*Message, error) {
	m := Message{
		ID:             uuid.New().String(),
		ConversationID: conversationID,
		Role:           role,
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting message: %w", err)
	}
	return &m, nil
}

// ListMessages returns a conversation's messages in arrival order.
func (s *Store) ListMessages(ctx context.Context, conversationID string) ([]Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, conversation_id, role, content, created_at FROM messages
		 WHERE conversation_id = ? ORDER BY created_at ASC, id ASC`, conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	defer rows.Close()

	var out []Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// LoadRecord returns the conversation's incident record, or nil if none has
// been stored yet.
func (s *Store) LoadRecord(ctx context.Context, conversationID string) (*incident.Record, error) {
	var fieldsJSON, askedJSON, summary string
	var completion float64

	err := s.db.QueryRowContext(ctx,
		`SELECT fields, asked_fields, completion, summary FROM incidents WHERE conversation_id = ?`,
		conversationID,
	).Scan(&fieldsJSON, &askedJSON, &completion, &summary)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading incident record: %w", err)
	}

	rec := incident.NewRecord()
	if err := json.Unmarshal([]byte(fieldsJSON), &rec.Fields); err != nil {
		return nil, fmt.Errorf("decoding incident fields: %w", err)
	}
	if err := json.Unmarshal([]byte(askedJSON), &rec.AskedFields); err != nil {
		return nil, fmt.Errorf("decoding asked fields: %w", err)
	}
	rec.Completion = completion
	rec.Summary = summary
	return rec, nil
}

// SaveTurn persists the assistant reply and the updated incident record in
// one transaction, so the asked-list, the merged facts and the delivered
// message cannot drift apart.
func (s *Store) SaveTurn(ctx context.Context, conversationID, reply string, rec *incident.Record) error {
	fieldsJSON, err := json.Marshal(rec.Fields)
	if err != nil {
		return fmt.Errorf("encoding incident fields: %w", err)
	}
	askedJSON, err := json.Marshal(rec.AskedFields)
	if err != nil {
		return fmt.Errorf("encoding asked fields: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning turn transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO incidents (conversation_id, fields, asked_fields, completion, summary, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(conversation_id) DO UPDATE SET
		   fields = excluded.fields,
		   asked_fields = excluded.asked_fields,
		   completion = excluded.completion,
		   summary = excluded.summary,
		   updated_at = excluded.updated_at`,
		conversationID, string(fieldsJSON), string(askedJSON), rec.Completion, rec.Summary, now, now,
	)
	if err != nil {
		return fmt.Errorf("upserting incident record: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.New().String(), conversationID, RoleAssistant, reply, now,
	)
	if err != nil {
		return fmt.Errorf("inserting assistant message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET updated_at = ? WHERE id = ?`, now, conversationID,
	)
	if err != nil {
		return fmt.Errorf("touching conversation: %w", err)
	}

	return tx.Commit()
}
