package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-grievance/grievance-service/internal/events"
)

func TestNotificationWorkerDrainsOnStop(t *testing.T) {
	inner := events.NewInMemoryDispatcher()
	w := NewNotificationWorker(inner, 8, nil)

	var mu sync.Mutex
	var seen []string
	w.Subscribe(events.EventIssueCreated, func(_ context.Context, e events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, e.IssueID)
		return nil
	})
	w.Start(context.Background())

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventIssueCreated, IssueID: id}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Stop(ctx))
	assert.Equal(t, []string{"a", "b", "c"}, seen)

	assert.Error(t, w.Publish(context.Background(), events.Event{Type: events.EventIssueCreated}))
	assert.NoError(t, w.Stop(ctx))
}

func TestNotificationWorkerQueueFull(t *testing.T) {
	w := NewNotificationWorker(events.NewInMemoryDispatcher(), 1, nil)

	require.NoError(t, w.Publish(context.Background(), events.Event{Type: events.EventIssueCreated}))
	assert.ErrorIs(t, w.Publish(context.Background(), events.Event{Type: events.EventIssueCreated}), ErrQueueFull)
	assert.NoError(t, w.Stop(context.Background()))
}
