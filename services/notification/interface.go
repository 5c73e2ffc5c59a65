package notification

import (
	"context"

	"serviqo/models"
)

// Publisher emits domain events for the notification collaborator. Emission
// is best-effort and happens after the owning transition has committed; a
// publish failure never rolls a transition back.
type Publisher interface {
	Publish(ctx context.Context, event models.DomainEvent)
}

// Notifier is the narrow interface the external notification collaborator
// implements. The engine never sends email or push directly.
type Notifier interface {
	Deliver(ctx context.Context, event models.DomainEvent) error
}
