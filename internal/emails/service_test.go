package emails

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdesk/scentdesk/jobs"
)

type fakeQueue struct {
	sent []jobs.SendEmailPayload
}

func (f *fakeQueue) EnqueueSendEmail(_ context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error) {
	f.sent = append(f.sent, payload)
	return &asynq.TaskInfo{}, nil
}

func TestTemplatesLists(t *testing.T) {
	svc, err := NewService(&fakeQueue{})
	require.NoError(t, err)

	assert.Equal(t, []string{"formula_ready", "order_status", "welcome"}, svc.Templates())
}

func TestRenderFillsPlaceholders(t *testing.T) {
	svc, err := NewService(&fakeQueue{})
	require.NoError(t, err)

	body, err := svc.Render("welcome", map[string]any{"FirstName": "Anna", "Reference": "C-042"})
	require.NoError(t, err)
	assert.Contains(t, body, "Welcome, Anna")
	assert.Contains(t, body, "C-042")
}

func TestRenderUnknownTemplate(t *testing.T) {
	svc, err := NewService(&fakeQueue{})
	require.NoError(t, err)

	_, err = svc.Render("nonexistent", nil)
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestSendEnqueuesRenderedBody(t *testing.T) {
	queue := &fakeQueue{}
	svc, err := NewService(queue)
	require.NoError(t, err)

	err = svc.Send(context.Background(), SendRequest{
		To:       "anna@example.com",
		Subject:  "Your order",
		Template: "order_status",
		Data:     map[string]any{"FirstName": "Anna", "Reference": "ORD-7", "Status": "shipped"},
	})
	require.NoError(t, err)
	require.Len(t, queue.sent, 1)
	assert.Equal(t, "anna@example.com", queue.sent[0].To)
	assert.Contains(t, queue.sent[0].Body, "shipped")
}
