package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-grievance/grievance-service/internal/domain"
)

func TestDispatcherFanOut(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventIssueCreated, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("boom")
	})
	d.Subscribe(EventIssueCreated, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventIssueStatusChanged, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventIssueCreated})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.Equal(t, []string{"first", "second"}, calls)

	assert.NoError(t, d.Publish(context.Background(), Event{Type: "unknown"}))
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func TestAMQPPublisherRoutesByType(t *testing.T) {
	ch := &fakeChannel{}
	p := NewAMQPPublisher(ch, "grievance.events")
	event := Event{
		ID:        "evt-1",
		Type:      EventIssueStatusChanged,
		IssueID:   "issue-1",
		Actor:     Actor{UserID: "u", Role: domain.RoleFaculty},
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Payload:   IssueStatusChangedPayload{OldStatus: domain.IssueStatusPending, NewStatus: domain.IssueStatusResolved},
	}

	require.NoError(t, p.Forward(context.Background(), event))
	assert.Equal(t, "grievance.events", ch.exchange)
	assert.Equal(t, "issue_status_changed", ch.key)
	assert.Equal(t, "evt-1", ch.msg.MessageId)
	assert.Equal(t, "application/json", ch.msg.ContentType)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, "issue-1", decoded["issue_id"])
	payload := decoded["payload"].(map[string]any)
	assert.Equal(t, "Resolved", payload["new_status"])
}
