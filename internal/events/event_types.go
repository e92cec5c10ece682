package events

import (
	"time"

	"github.com/campus-grievance/grievance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueCreated       EventType = "issue_created"
	EventIssueStatusChanged EventType = "issue_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueCreatedPayload payload.
type IssueCreatedPayload struct {
	Title     string `json:"title"`
	Sensitive bool   `json:"sensitive"`
	Anonymous bool   `json:"anonymous"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	ReporterID string             `json:"reporter_id"`
	Title      string             `json:"title"`
	OldStatus  domain.IssueStatus `json:"old_status"`
	NewStatus  domain.IssueStatus `json:"new_status"`
	Sensitive  bool               `json:"sensitive"`
}
