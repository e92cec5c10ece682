package domain

import (
	"fmt"
	"time"
)

// IssueStatus enumerates the lifecycle states of an issue.
type IssueStatus string

const (
	IssueStatusPending    IssueStatus = "Pending"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusResolved   IssueStatus = "Resolved"
)

// IssueStatuses lists every valid status in display order.
var IssueStatuses = []IssueStatus{IssueStatusPending, IssueStatusInProgress, IssueStatusResolved}

// Valid reports whether s is a known status.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusPending, IssueStatusInProgress, IssueStatusResolved:
		return true
	}
	return false
}

// ParseIssueStatus converts a wire value into an IssueStatus.
func ParseIssueStatus(s string) (IssueStatus, error) {
	st := IssueStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid status %q", s)
	}
	return st, nil
}

// Issue is a grievance filed by a user.
//
// ReporterID is always retained, Anonymous only affects what is shown to
// other viewers.
type Issue struct {
	ID          string
	ReporterID  string
	Title       string
	Description string
	Status      IssueStatus
	Sensitive   bool
	Anonymous   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IssueStats counts issues per status.
type IssueStats struct {
	Total      int
	Pending    int
	InProgress int
	Resolved   int
}

// Add counts n issues in the given status.
func (s *IssueStats) Add(status IssueStatus, n int) {
	s.Total += n
	switch status {
	case IssueStatusPending:
		s.Pending += n
	case IssueStatusInProgress:
		s.InProgress += n
	case IssueStatusResolved:
		s.Resolved += n
	}
}
