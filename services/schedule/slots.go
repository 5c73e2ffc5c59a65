package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	slotRepo "serviqo/database/repository/slot"
	"serviqo/models"
	"serviqo/utils"
)

// CreateSlot validates the new window, rejects it when it overlaps any of
// the provider's existing windows on the same weekday, and persists it with
// a zeroed capacity counter.
func (s *DefaultScheduleService) CreateSlot(ctx context.Context, providerID string, in models.CreateSlotInput) (*models.AvailabilitySlot, error) {
	if err := validateSlotWindow(in.DayOfWeek, in.StartTime, in.EndTime, in.BreakStart, in.BreakEnd, in.MaxBookings); err != nil {
		return nil, err
	}

	existing, err := s.Slots.ListByProviderDay(ctx, providerID, in.DayOfWeek)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Overlaps(in.StartTime, in.EndTime) {
			return nil, utils.NewConflictError(
				"slot %s-%s overlaps existing slot %s-%s on day %d",
				in.StartTime, in.EndTime, existing[i].StartTime, existing[i].EndTime, in.DayOfWeek,
			)
		}
	}

	now := time.Now()
	slot := &models.AvailabilitySlot{
		ID:              uuid.New().String(),
		ProviderID:      providerID,
		DayOfWeek:       in.DayOfWeek,
		StartTime:       in.StartTime,
		EndTime:         in.EndTime,
		BreakStart:      in.BreakStart,
		BreakEnd:        in.BreakEnd,
		MaxBookings:     in.MaxBookings,
		CurrentBookings: 0,
		IsAvailable:     true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	s.invalidateCalendar(ctx, providerID)
	s.Logger.Info("slot created",
		zap.String("provider_id", providerID),
		zap.String("slot_id", slot.ID),
		zap.Int("day_of_week", slot.DayOfWeek),
	)
	return slot, nil
}

// UpdateSlot applies a partial edit. Moving the window re-runs the overlap
// check against the provider's other slots; shrinking capacity below the
// live booking count is rejected.
func (s *DefaultScheduleService) UpdateSlot(ctx context.Context, providerID, slotID string, upd models.SlotUpdate) (*models.AvailabilitySlot, error) {
	slot, err := s.Slots.GetByID(ctx, providerID, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return nil, utils.NewNotFoundError("slot")
		}
		return nil, err
	}

	if upd.StartTime != nil {
		slot.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		slot.EndTime = *upd.EndTime
	}
	if upd.BreakStart != nil {
		slot.BreakStart = upd.BreakStart
	}
	if upd.BreakEnd != nil {
		slot.BreakEnd = upd.BreakEnd
	}
	if upd.MaxBookings != nil {
		if *upd.MaxBookings < slot.CurrentBookings {
			return nil, utils.NewConflictError(
				"max_bookings %d is below current booking count %d", *upd.MaxBookings, slot.CurrentBookings,
			)
		}
		slot.MaxBookings = *upd.MaxBookings
	}
	if upd.IsAvailable != nil {
		slot.IsAvailable = *upd.IsAvailable
	}

	if err := validateSlotWindow(slot.DayOfWeek, slot.StartTime, slot.EndTime, slot.BreakStart, slot.BreakEnd, slot.MaxBookings); err != nil {
		return nil, err
	}

	if upd.StartTime != nil || upd.EndTime != nil {
		existing, err := s.Slots.ListByProviderDay(ctx, providerID, slot.DayOfWeek)
		if err != nil {
			return nil, err
		}
		for i := range existing {
			if existing[i].ID == slot.ID {
				continue
			}
			if existing[i].Overlaps(slot.StartTime, slot.EndTime) {
				return nil, utils.NewConflictError(
					"slot %s-%s overlaps existing slot %s-%s on day %d",
					slot.StartTime, slot.EndTime, existing[i].StartTime, existing[i].EndTime, slot.DayOfWeek,
				)
			}
		}
	}

	if err := s.Slots.Update(ctx, slot); err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return nil, utils.NewNotFoundError("slot")
		}
		return nil, err
	}

	s.invalidateCalendar(ctx, providerID)
	return slot, nil
}

// DeleteSlot soft-deletes the slot unless an active booking occupies it:
// any pending or confirmed booking whose date falls on the slot's weekday
// and whose start time lies within the slot window.
func (s *DefaultScheduleService) DeleteSlot(ctx context.Context, providerID, slotID string) error {
	slot, err := s.Slots.GetByID(ctx, providerID, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return utils.NewNotFoundError("slot")
		}
		return err
	}

	active, err := s.Bookings.ListActiveForProvider(ctx, providerID)
	if err != nil {
		return err
	}
	for i := range active {
		b := &active[i]
		date, err := utils.ParseDate(b.Date)
		if err != nil {
			continue
		}
		if utils.ISOWeekday(date) != slot.DayOfWeek {
			continue
		}
		if slot.ContainsTime(b.StartTime) {
			return utils.NewConflictError(
				"slot has an active booking (%s) on %s at %s", b.BookingNumber, b.Date, b.StartTime,
			)
		}
	}

	if err := s.Slots.SoftDelete(ctx, providerID, slotID); err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return utils.NewNotFoundError("slot")
		}
		return err
	}

	s.invalidateCalendar(ctx, providerID)
	s.Logger.Info("slot deleted", zap.String("provider_id", providerID), zap.String("slot_id", slotID))
	return nil
}

// ListSlots returns the provider's live slots ordered by weekday then start time.
func (s *DefaultScheduleService) ListSlots(ctx context.Context, providerID string) ([]models.AvailabilitySlot, error) {
	return s.Slots.ListByProvider(ctx, providerID)
}

func validateSlotWindow(dayOfWeek int, start, end models.TimeOfDay, breakStart, breakEnd *models.TimeOfDay, maxBookings int) error {
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return utils.NewValidationError("day_of_week", "must be between 1 (Monday) and 7 (Sunday)")
	}
	if start >= end {
		return utils.NewValidationError("start_time", "must be before end_time")
	}
	if maxBookings < 1 {
		return utils.NewValidationError("max_bookings", "must be at least 1")
	}
	if (breakStart == nil) != (breakEnd == nil) {
		return utils.NewValidationError("break_time", "both break bounds must be set together")
	}
	if breakStart != nil {
		if *breakStart >= *breakEnd {
			return utils.NewValidationError("break_time_start", "must be before break_time_end")
		}
		if *breakStart < start || *breakEnd > end {
			return utils.NewValidationError("break_time", "break window must lie within the slot window")
		}
	}
	return nil
}
