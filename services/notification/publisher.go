package notification

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"serviqo/models"
)

// TypeEventDispatch is the asynq task type carrying a domain event.
const TypeEventDispatch = "event:dispatch"

// AsynqPublisher enqueues domain events onto the Redis-backed event queue.
type AsynqPublisher struct {
	Client *asynq.Client
	Logger *zap.Logger
}

func NewAsynqPublisher(client *asynq.Client, logger *zap.Logger) *AsynqPublisher {
	return &AsynqPublisher{Client: client, Logger: logger}
}

func (p *AsynqPublisher) Publish(ctx context.Context, event models.DomainEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.Logger.Error("failed to marshal domain event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	task := asynq.NewTask(TypeEventDispatch, payload)
	if _, err := p.Client.EnqueueContext(ctx, task, asynq.MaxRetry(5)); err != nil {
		// Best-effort: the owning transition has already committed.
		p.Logger.Error("failed to enqueue domain event", zap.String("type", event.Type), zap.Error(err))
		return
	}
	p.Logger.Debug("domain event enqueued", zap.String("type", event.Type))
}

// LoggingNotifier is the default Notifier: it logs delivered events. Real
// delivery (push, email) belongs to the external notification collaborator.
type LoggingNotifier struct {
	Logger *zap.Logger
}

func (n *LoggingNotifier) Deliver(_ context.Context, event models.DomainEvent) error {
	n.Logger.Info("domain event",
		zap.String("type", event.Type),
		zap.String("customer_id", event.CustomerID),
		zap.String("provider_id", event.ProviderID),
	)
	return nil
}
