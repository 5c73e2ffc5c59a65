package schedule

import (
	"context"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	bookingRepo "serviqo/database/repository/booking"
	slotRepo "serviqo/database/repository/slot"
	"serviqo/models"
)

// ScheduleService owns a provider's recurring availability: slot CRUD with
// conflict detection, the blackout overlay, and the weekly calendar view.
type ScheduleService interface {
	CreateSlot(ctx context.Context, providerID string, in models.CreateSlotInput) (*models.AvailabilitySlot, error)
	UpdateSlot(ctx context.Context, providerID, slotID string, upd models.SlotUpdate) (*models.AvailabilitySlot, error)
	DeleteSlot(ctx context.Context, providerID, slotID string) error
	ListSlots(ctx context.Context, providerID string) ([]models.AvailabilitySlot, error)

	CreateException(ctx context.Context, providerID string, in models.CreateExceptionInput) (*models.AvailabilityException, error)
	ListExceptions(ctx context.Context, providerID string) ([]models.AvailabilityException, error)
	DeleteException(ctx context.Context, providerID, exceptionID string) error
	IsDateBlocked(ctx context.Context, providerID, date string) (*models.AvailabilityException, error)

	WeeklyCalendar(ctx context.Context, providerID, anchorDate string) ([]models.CalendarDay, error)
}

// DefaultScheduleService is the production implementation.
type DefaultScheduleService struct {
	Slots    slotRepo.SlotRepository
	Bookings bookingRepo.BookingRepository
	Cache    *redis.Client
	Logger   *zap.Logger
}
