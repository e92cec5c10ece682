package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/campus-grievance/grievance-service/internal/events"
	"github.com/campus-grievance/grievance-service/internal/service"
)

// ErrQueueFull is returned by Publish when the buffer is saturated.
var ErrQueueFull = errors.New("notification queue full")

// NotificationWorker decouples request handling from notification delivery.
// Services publish into it; a background goroutine replays events on the
// inner dispatcher where the notification handlers are subscribed.
type NotificationWorker struct {
	inner  events.Dispatcher
	queue  chan events.Event
	logger *zap.Logger

	mu      sync.RWMutex
	closed  bool
	done    chan struct{}
	started bool
}

// NewNotificationWorker wraps inner with a buffered queue of the given size.
func NewNotificationWorker(inner events.Dispatcher, size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		inner:  inner,
		queue:  make(chan events.Event, size),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// StartNotificationWorker registers notification handlers and starts draining.
func StartNotificationWorker(ctx context.Context, w *NotificationWorker, notificationService *service.NotificationService) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	w.Start(ctx)
}

// Publish enqueues the event without waiting for handlers.
func (w *NotificationWorker) Publish(_ context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return errors.New("notification worker stopped")
	}
	select {
	case w.queue <- event:
		return nil
	default:
		w.logger.Warn("dropping event", zap.String("event_type", string(event.Type)), zap.String("issue_id", event.IssueID))
		return ErrQueueFull
	}
}

// Subscribe registers handler on the inner dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Start launches the drain loop. Handlers run with ctx; cancelling it does
// not discard queued events, Stop does that.
func (w *NotificationWorker) Start(ctx context.Context) {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	go func() {
		defer close(w.done)
		for event := range w.queue {
			if err := w.inner.Publish(context.WithoutCancel(ctx), event); err != nil {
				w.logger.Error("notification handlers failed",
					zap.String("event_type", string(event.Type)),
					zap.String("issue_id", event.IssueID),
					zap.Error(err))
			}
		}
	}()
}

// Stop closes the queue and waits for queued events to drain or ctx to end.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	started := w.started
	close(w.queue)
	w.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
