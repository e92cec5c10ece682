// Package policy decides who can see an issue, who can change its status and
// which transitions are legal. Every handler and service goes through here;
// no visibility rule is evaluated anywhere else.
package policy

import (
	"fmt"

	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/repository"
	apperrors "github.com/campus-grievance/grievance-service/pkg/util"
)

// CanView reports whether requester may see issue.
func CanView(requester *domain.Principal, issue *domain.Issue) bool {
	if requester == nil || issue == nil {
		return false
	}
	switch requester.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleFaculty:
		return !issue.Sensitive
	case domain.RoleStudent:
		return issue.ReporterID == requester.UserID
	}
	return false
}

// ListScope returns the store filter for the staff-wide listing.
func ListScope(requester *domain.Principal) (repository.IssueFilter, error) {
	if requester == nil {
		return repository.IssueFilter{}, apperrors.NewUnauthorized("authentication required")
	}
	switch requester.Role {
	case domain.RoleAdmin:
		return repository.IssueFilter{}, nil
	case domain.RoleFaculty:
		sensitive := false
		return repository.IssueFilter{Sensitive: &sensitive}, nil
	case domain.RoleStudent:
		return repository.IssueFilter{}, apperrors.NewForbidden("only faculty and admin can list all issues")
	}
	return repository.IssueFilter{}, apperrors.NewForbidden("unknown role")
}

// OwnScope returns the store filter for the requester's own submissions.
func OwnScope(requester *domain.Principal) repository.IssueFilter {
	id := requester.UserID
	return repository.IssueFilter{ReporterID: &id}
}

// StatsScope returns the filter for dashboard counts: staff see what they
// can list, everyone else sees their own issues.
func StatsScope(requester *domain.Principal) (repository.IssueFilter, error) {
	if requester == nil {
		return repository.IssueFilter{}, apperrors.NewUnauthorized("authentication required")
	}
	switch requester.Role {
	case domain.RoleAdmin, domain.RoleFaculty:
		return ListScope(requester)
	case domain.RoleStudent:
		return OwnScope(requester), nil
	}
	return repository.IssueFilter{}, apperrors.NewForbidden("unknown role")
}

// CanChangeStatus is the role-level gate evaluated before the issue is
// loaded.
func CanChangeStatus(role domain.Role) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleFaculty:
		return true
	case domain.RoleStudent:
		return false
	}
	return false
}

// AuthorizeStatusChange checks requester against a loaded issue.
func AuthorizeStatusChange(requester *domain.Principal, issue *domain.Issue) error {
	if requester == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	switch requester.Role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleFaculty:
		if issue.Sensitive {
			return apperrors.NewForbidden("faculty cannot update sensitive issues")
		}
		return nil
	case domain.RoleStudent:
		return apperrors.NewForbidden("students cannot change issue status")
	}
	return apperrors.NewForbidden("unknown role")
}

// ParseTargetStatus validates a requested status. It runs before any
// authorization check.
func ParseTargetStatus(raw string) (domain.IssueStatus, error) {
	status, err := domain.ParseIssueStatus(raw)
	if err != nil {
		return "", apperrors.NewInvalidStatus(raw)
	}
	return status, nil
}

// ValidateTransition checks from -> to. Any state may move to any other
// state, including Resolved -> Pending.
func ValidateTransition(from, to domain.IssueStatus) error {
	if !to.Valid() {
		return apperrors.NewInvalidStatus(string(to))
	}
	if !from.Valid() {
		return apperrors.NewInternalError(fmt.Errorf("stored status %q is invalid", from))
	}
	return nil
}

// RevealReporter reports whether the reporter's identity may be shown to
// requester. The reporter reference itself is always stored.
func RevealReporter(requester *domain.Principal, issue *domain.Issue) bool {
	if !CanView(requester, issue) {
		return false
	}
	switch requester.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleFaculty:
		return !issue.Anonymous
	case domain.RoleStudent:
		return issue.ReporterID == requester.UserID
	}
	return false
}
