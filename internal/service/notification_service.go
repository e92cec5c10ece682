package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campus-grievance/grievance-service/internal/events"
	"github.com/campus-grievance/grievance-service/internal/notify"
	"github.com/campus-grievance/grievance-service/internal/repository"
)

// NotificationService reacts to issue events: it forwards them to the
// configured broker and e-mails reporters when their issue changes status.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  events.Publisher
	mailer     notify.Mailer
	users      repository.UserRepository
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Publisher  events.Publisher
	Mailer     notify.Mailer
	UserRepo   repository.UserRepository
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		publisher:  publisher,
		mailer:     deps.Mailer,
		users:      deps.UserRepo,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIssueCreated, n.handleIssueCreated)
	n.dispatcher.Subscribe(events.EventIssueStatusChanged, n.handleIssueStatusChanged)
}

func (n *NotificationService) handleIssueCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("IssueCreated", zap.String("issue_id", event.IssueID), zap.String("actor", event.Actor.UserID))
	return n.forward(ctx, event)
}

func (n *NotificationService) handleIssueStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("IssueStatusChanged", zap.String("issue_id", event.IssueID), zap.Any("payload", event.Payload))
	forwardErr := n.forward(ctx, event)

	payload, ok := event.Payload.(events.IssueStatusChangedPayload)
	if !ok || n.mailer == nil || n.users == nil {
		return forwardErr
	}
	reporter, err := n.users.GetByID(ctx, payload.ReporterID)
	if err != nil {
		return fmt.Errorf("load reporter %s: %w", payload.ReporterID, err)
	}
	msg := notify.Message{
		To:      reporter.Email,
		Subject: fmt.Sprintf("Your issue is now %s", payload.NewStatus),
		Body: fmt.Sprintf("Hello %s,\n\nThe status of your issue %q changed from %s to %s.\n",
			reporter.Name, payload.Title, payload.OldStatus, payload.NewStatus),
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify reporter: %w", err)
	}
	return forwardErr
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if err := n.publisher.Forward(ctx, event); err != nil {
		return fmt.Errorf("forward %s: %w", event.Type, err)
	}
	return nil
}
