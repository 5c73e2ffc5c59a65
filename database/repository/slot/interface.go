package slotRepo

import (
	"context"

	"serviqo/models"
)

// SlotRepository persists availability slots and blackout exceptions.
type SlotRepository interface {
	Create(ctx context.Context, slot *models.AvailabilitySlot) error
	GetByID(ctx context.Context, providerID, slotID string) (*models.AvailabilitySlot, error)
	Update(ctx context.Context, slot *models.AvailabilitySlot) error
	SoftDelete(ctx context.Context, providerID, slotID string) error
	ListByProvider(ctx context.Context, providerID string) ([]models.AvailabilitySlot, error)
	ListByProviderDay(ctx context.Context, providerID string, dayOfWeek int) ([]models.AvailabilitySlot, error)

	CreateException(ctx context.Context, exc *models.AvailabilityException) error
	ListExceptions(ctx context.Context, providerID string) ([]models.AvailabilityException, error)
	DeleteException(ctx context.Context, providerID, exceptionID string) error
	FindCoveringException(ctx context.Context, providerID, date string) (*models.AvailabilityException, error)

	EnsureIndexes() error
}
