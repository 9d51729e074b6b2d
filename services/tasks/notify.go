// Package tasks defines the asynq task types shared between the API process
// (which enqueues) and the worker (which handles).
package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"movecall/models"
)

// TypeNotifySend is the queue task for one outbound notification.
const TypeNotifySend = "notify:send"

// NewNotifyTask wraps a notification payload as an asynq task. Sends are
// fire-and-forget, so retries are capped low.
func NewNotifyTask(p models.NotifyPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notify payload: %w", err)
	}
	return asynq.NewTask(TypeNotifySend, payload, asynq.MaxRetry(2)), nil
}

// Sender performs the actual channel send for a dequeued task.
type Sender interface {
	Send(ctx context.Context, p models.NotifyPayload) error
}

// HandleNotifyTask returns the worker handler for TypeNotifySend.
func HandleNotifyTask(sender Sender) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p models.NotifyPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("invalid notify payload: %w", err)
		}
		return sender.Send(ctx, p)
	}
}
