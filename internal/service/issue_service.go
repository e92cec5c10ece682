package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campus-grievance/grievance-service/internal/domain"
	"github.com/campus-grievance/grievance-service/internal/events"
	"github.com/campus-grievance/grievance-service/internal/policy"
	"github.com/campus-grievance/grievance-service/internal/repository"
	apperrors "github.com/campus-grievance/grievance-service/pkg/util"
)

// IssueService coordinates issue workflows. All visibility and status
// decisions are delegated to the policy package.
type IssueService struct {
	issues     repository.IssueRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// IssueDependencies bundles repositories for issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// CreateIssueInput describes issue creation payload.
type CreateIssueInput struct {
	Title       string
	Description string
	Sensitive   bool
	Anonymous   bool
}

// IssueView is an issue as seen by a particular requester. Reporter is nil
// when the requester may not see who filed it.
type IssueView struct {
	Issue    domain.Issue
	Reporter *domain.User
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IssueService{
		issues:     deps.IssueRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Create files an issue on behalf of requester.
func (s *IssueService) Create(ctx context.Context, requester *domain.Principal, in CreateIssueInput) (*IssueView, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", map[string]any{"title": "title is required"})
	}

	issue := &domain.Issue{
		ID:          uuid.NewString(),
		ReporterID:  requester.UserID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Status:      domain.IssueStatusPending,
		Sensitive:   in.Sensitive,
		Anonymous:   in.Anonymous,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueCreated,
		IssueID: issue.ID,
		Actor:   actorOf(requester),
		Payload: events.IssueCreatedPayload{
			Title:     issue.Title,
			Sensitive: issue.Sensitive,
			Anonymous: issue.Anonymous,
		},
	})

	views, err := s.views(ctx, requester, []domain.Issue{*issue})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListOwn returns the issues requester filed, sensitive or not.
func (s *IssueService) ListOwn(ctx context.Context, requester *domain.Principal) ([]IssueView, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	issues, err := s.issues.List(ctx, policy.OwnScope(requester))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return s.views(ctx, requester, issues)
}

// ListAll returns every issue the staff requester may see.
func (s *IssueService) ListAll(ctx context.Context, requester *domain.Principal) ([]IssueView, error) {
	filter, err := policy.ListScope(requester)
	if err != nil {
		return nil, err
	}
	issues, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return s.views(ctx, requester, issues)
}

// Get returns one issue. Issues hidden from requester are reported as not
// found so their existence is not disclosed.
func (s *IssueService) Get(ctx context.Context, requester *domain.Principal, id string) (*IssueView, error) {
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	issue, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(requester, issue) {
		return nil, apperrors.NewNotFound("issue", nil)
	}
	views, err := s.views(ctx, requester, []domain.Issue{*issue})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// UpdateStatus moves an issue to rawStatus. The value is validated before
// any authorization check and no write happens until every check passes.
func (s *IssueService) UpdateStatus(ctx context.Context, requester *domain.Principal, id, rawStatus string) (*IssueView, error) {
	target, err := policy.ParseTargetStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if !policy.CanChangeStatus(requester.Role) {
		return nil, apperrors.NewForbidden("only faculty and admin can change issue status")
	}

	issue, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeStatusChange(requester, issue); err != nil {
		return nil, err
	}
	if err := policy.ValidateTransition(issue.Status, target); err != nil {
		return nil, err
	}

	updated, err := s.issues.UpdateStatus(ctx, issue.ID, target)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("issue", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if issue.Status != updated.Status {
		s.publishEvent(ctx, events.Event{
			Type:    events.EventIssueStatusChanged,
			IssueID: updated.ID,
			Actor:   actorOf(requester),
			Payload: events.IssueStatusChangedPayload{
				ReporterID: updated.ReporterID,
				Title:      updated.Title,
				OldStatus:  issue.Status,
				NewStatus:  updated.Status,
				Sensitive:  updated.Sensitive,
			},
		})
	}

	views, err := s.views(ctx, requester, []domain.Issue{*updated})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Stats counts the issues requester can see, per status.
func (s *IssueService) Stats(ctx context.Context, requester *domain.Principal) (*domain.IssueStats, error) {
	filter, err := policy.StatsScope(requester)
	if err != nil {
		return nil, err
	}
	stats, err := s.issues.CountByStatus(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &stats, nil
}

func (s *IssueService) load(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("issue", map[string]any{"id": id})
		}
		return nil, apperrors.NewInternalError(err)
	}
	return issue, nil
}

// views attaches reporter records where the policy allows it.
func (s *IssueService) views(ctx context.Context, requester *domain.Principal, issues []domain.Issue) ([]IssueView, error) {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for i := range issues {
		if !policy.RevealReporter(requester, &issues[i]) {
			continue
		}
		if _, ok := seen[issues[i].ReporterID]; !ok {
			seen[issues[i].ReporterID] = struct{}{}
			ids = append(ids, issues[i].ReporterID)
		}
	}

	reporters := make(map[string]*domain.User, len(ids))
	if len(ids) > 0 {
		users, err := s.users.GetByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		for i := range users {
			reporters[users[i].ID] = &users[i]
		}
	}

	views := make([]IssueView, 0, len(issues))
	for i := range issues {
		view := IssueView{Issue: issues[i]}
		if policy.RevealReporter(requester, &issues[i]) {
			view.Reporter = reporters[issues[i].ReporterID]
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed",
			zap.String("event_type", string(event.Type)),
			zap.String("issue_id", event.IssueID),
			zap.Error(err))
	}
}

func actorOf(p *domain.Principal) events.Actor {
	return events.Actor{UserID: p.UserID, Role: p.Role}
}
