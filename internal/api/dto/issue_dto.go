package dto

import (
	"time"

	"github.com/campus-grievance/grievance-service/internal/domain"
)

// CreateIssueRequest payload. The reporter is never taken from the body.
type CreateIssueRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Description string `json:"description" validate:"max=5000"`
	Sensitive   bool   `json:"sensitive"`
	Anonymous   bool   `json:"anonymous"`
}

// UpdateStatusRequest payload. The value is validated by the policy so that
// format errors are reported before authorization.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// ReporterResponse identifies who filed an issue.
type ReporterResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// IssueResponse is the public view of an issue.
type IssueResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Status      domain.IssueStatus `json:"status"`
	Sensitive   bool               `json:"sensitive"`
	Anonymous   bool               `json:"anonymous"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	Reporter    *ReporterResponse  `json:"reporter,omitempty"`
}

// IssueStatsResponse counts issues per status.
type IssueStatsResponse struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
}
