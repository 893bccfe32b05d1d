// Package audit keeps an append-only trail of safety routing decisions.
// Every processed turn lands here with its mode and the matched indicator,
// so reviewers can reconstruct why a conversation was routed the way it was.
package audit

import "time"

// Event is a single routing decision record.
type Event struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	ConversationID string    `json:"conversation_id"`
	Mode           string    `json:"mode"`
	Marker         string    `json:"marker,omitempty"`
	Phase          string    `json:"phase"`
}

// ListFilter controls which events to return.
type ListFilter struct {
	ConversationID string
	Mode           string
	Limit          int
}
