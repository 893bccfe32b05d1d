package notifications

import "time"

// Severity indicates the importance of a notification.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// NotificationType categorises what triggered the notification.
type NotificationType string

const (
	// TypeSafetyEscalation is raised when a conversation exits through a
	// safety mode and needs trained follow-up.
	TypeSafetyEscalation NotificationType = "safety_escalation"
)

// Notification is a single operator alert. Titles and messages carry no
// quoted disclosure text, only the routing outcome.
type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Severity       Severity         `json:"severity"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	ConversationID string           `json:"conversation_id"`
	Delivered      bool             `json:"delivered"`
	CreatedAt      time.Time        `json:"created_at"`
}

// ListFilter controls which notifications to return.
type ListFilter struct {
	Undelivered bool
	Limit       int
}
