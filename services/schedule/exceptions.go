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

// CreateException records a blackout period. Slots are not touched; the
// overlay is consulted at read time.
func (s *DefaultScheduleService) CreateException(ctx context.Context, providerID string, in models.CreateExceptionInput) (*models.AvailabilityException, error) {
	if _, err := utils.ParseDate(in.StartDate); err != nil {
		return nil, utils.NewValidationError("start_date", err.Error())
	}
	if _, err := utils.ParseDate(in.EndDate); err != nil {
		return nil, utils.NewValidationError("end_date", err.Error())
	}
	if in.StartDate > in.EndDate {
		return nil, utils.NewValidationError("end_date", "must not be before start_date")
	}

	exc := &models.AvailabilityException{
		ID:          uuid.New().String(),
		ProviderID:  providerID,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Reason:      in.Reason,
		Description: in.Description,
		CreatedAt:   time.Now(),
	}
	if err := s.Slots.CreateException(ctx, exc); err != nil {
		return nil, err
	}

	s.invalidateCalendar(ctx, providerID)
	s.Logger.Info("blackout created",
		zap.String("provider_id", providerID),
		zap.String("start_date", exc.StartDate),
		zap.String("end_date", exc.EndDate),
	)
	return exc, nil
}

func (s *DefaultScheduleService) ListExceptions(ctx context.Context, providerID string) ([]models.AvailabilityException, error) {
	return s.Slots.ListExceptions(ctx, providerID)
}

func (s *DefaultScheduleService) DeleteException(ctx context.Context, providerID, exceptionID string) error {
	if err := s.Slots.DeleteException(ctx, providerID, exceptionID); err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return utils.NewNotFoundError("exception")
		}
		return err
	}
	s.invalidateCalendar(ctx, providerID)
	return nil
}

// IsDateBlocked returns the covering blackout for the date, if any.
func (s *DefaultScheduleService) IsDateBlocked(ctx context.Context, providerID, date string) (*models.AvailabilityException, error) {
	if _, err := utils.ParseDate(date); err != nil {
		return nil, utils.NewValidationError("date", err.Error())
	}
	return s.Slots.FindCoveringException(ctx, providerID, date)
}
