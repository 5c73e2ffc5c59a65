package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"serviqo/config"
	bookingRepo "serviqo/database/repository/booking"
	slotRepo "serviqo/database/repository/slot"
	"serviqo/models"
	"serviqo/utils"
)

const bookingNumberPrefix = "BK"

// CreateInstantBooking validates the request against the slot definition
// and the blackout overlay, allocates the yearly booking number, and
// reserves capacity and inserts the row in a single transaction. The
// booking is confirmed immediately; no provider approval step.
func (e *DefaultBookingEngine) CreateInstantBooking(ctx context.Context, customerID string, in models.CreateBookingInput) (*models.Booking, string, error) {
	date, err := utils.ParseDate(in.Date)
	if err != nil {
		return nil, "", utils.NewValidationError("date", err.Error())
	}
	today, _ := utils.ParseDate(time.Now().Format(utils.DateLayout))
	if date.Before(today) {
		return nil, "", utils.NewValidationError("date", "cannot book a past date")
	}
	if in.StartTime >= in.EndTime {
		return nil, "", utils.NewValidationError("start_time", "must be before end_time")
	}

	slot, err := e.Slots.GetByID(ctx, in.ProviderID, in.SlotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrNotFound) {
			return nil, "", utils.NewNotFoundError("slot")
		}
		return nil, "", err
	}
	if utils.ISOWeekday(date) != slot.DayOfWeek {
		return nil, "", utils.NewValidationError("date", fmt.Sprintf("date falls on weekday %d, slot is for weekday %d", utils.ISOWeekday(date), slot.DayOfWeek))
	}
	if in.StartTime < slot.StartTime || in.EndTime > slot.EndTime {
		return nil, "", utils.NewValidationError("start_time", fmt.Sprintf("booking window %s-%s is outside slot window %s-%s", in.StartTime, in.EndTime, slot.StartTime, slot.EndTime))
	}
	if slot.BreakStart != nil && slot.BreakEnd != nil && in.StartTime < *slot.BreakEnd && in.EndTime > *slot.BreakStart {
		return nil, "", utils.NewConflictError("booking window %s-%s overlaps the provider's break %s-%s", in.StartTime, in.EndTime, *slot.BreakStart, *slot.BreakEnd)
	}

	// Blackout overlay: advisory by default, hard-blocking when configured.
	warning := ""
	exc, err := e.Slots.FindCoveringException(ctx, in.ProviderID, in.Date)
	if err != nil {
		return nil, "", err
	}
	if exc != nil {
		if config.AppConfig.EnforceBlackouts {
			return nil, "", utils.NewConflictError("provider is unavailable on %s (%s)", in.Date, exc.Reason)
		}
		warning = fmt.Sprintf("provider has marked %s..%s as unavailable (%s)", exc.StartDate, exc.EndDate, exc.Reason)
	}

	number, err := e.Repo.NextNumber(ctx, bookingNumberPrefix, time.Now().Year())
	if err != nil {
		return nil, "", err
	}

	svc, travel, fee, total := priceBreakdown(in.ServicePrice, in.TravelFee)
	now := time.Now()
	booking := &models.Booking{
		ID:            uuid.New().String(),
		BookingNumber: number,
		CustomerID:    customerID,
		ProviderID:    in.ProviderID,
		ServiceID:     in.ServiceID,
		SlotID:        in.SlotID,
		Date:          in.Date,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		DurationMin:   int(in.EndTime - in.StartTime),
		Address:       in.Address,
		Lat:           in.Lat,
		Lng:           in.Lng,
		ServicePrice:  svc,
		TravelFee:     travel,
		PlatformFee:   fee,
		TotalAmount:   total,
		Currency:      config.AppConfig.Currency,
		PaymentStatus: "pending",
		Status:        models.BookingStatusConfirmed,
		ConfirmedAt:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := e.Repo.CreateWithCapacity(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrNoCapacity) {
			return nil, "", utils.NewConflictError("slot %s has no remaining capacity on %s", in.SlotID, in.Date)
		}
		return nil, "", err
	}

	e.Logger.Info("instant booking created",
		zap.String("booking_number", booking.BookingNumber),
		zap.String("customer_id", customerID),
		zap.String("provider_id", booking.ProviderID),
		zap.String("date", booking.Date),
	)
	e.emit(ctx, models.EventBookingCreated, booking)
	e.emit(ctx, models.EventBookingConfirmed, booking)
	return booking, warning, nil
}

// MaterializeFromQuote builds the confirmed booking for an accepted quote.
// When the request references a slot, capacity is reserved through the same
// transactional path as instant bookings; otherwise the row is inserted
// without a capacity reservation. At most one booking ever exists per
// request: a retried accept returns the booking already materialized.
func (e *DefaultBookingEngine) MaterializeFromQuote(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	if req.QuotedPrice == nil {
		return nil, utils.NewValidationError("quoted_price", "request has no quote to materialize")
	}

	if existing, err := e.Repo.GetByRequestID(ctx, req.ID); err == nil {
		return existing, nil
	} else if !errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, err
	}

	number, err := e.Repo.NextNumber(ctx, bookingNumberPrefix, time.Now().Year())
	if err != nil {
		return nil, err
	}

	quoted := *req.QuotedPrice
	fee, total := feeAndTotal(quoted, models.AmountFromFloat(0))
	now := time.Now()
	durationMin := int(req.EstimatedHours * 60)

	booking := &models.Booking{
		ID:            uuid.New().String(),
		BookingNumber: number,
		CustomerID:    req.CustomerID,
		ProviderID:    req.ProviderID,
		ServiceID:     req.ServiceID,
		SlotID:        req.SlotID,
		RequestID:     req.ID,
		Date:          req.PreferredDate,
		StartTime:     req.PreferredTime,
		EndTime:       req.PreferredTime + models.TimeOfDay(durationMin),
		DurationMin:   durationMin,
		ServicePrice:  quoted,
		TravelFee:     models.AmountFromFloat(0),
		PlatformFee:   fee,
		TotalAmount:   total,
		Currency:      config.AppConfig.Currency,
		PaymentStatus: "pending",
		Status:        models.BookingStatusConfirmed,
		ConfirmedAt:   &now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if req.SlotID != "" {
		err = e.Repo.CreateWithCapacity(ctx, booking)
	} else {
		err = e.Repo.Create(ctx, booking)
	}
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNoCapacity) {
			return nil, utils.NewConflictError("slot %s has no remaining capacity on %s", req.SlotID, req.PreferredDate)
		}
		// A concurrent accept won the insert; hand back its booking.
		if errors.Is(err, bookingRepo.ErrDuplicateRequest) {
			return e.Repo.GetByRequestID(ctx, req.ID)
		}
		return nil, err
	}

	e.emit(ctx, models.EventBookingCreated, booking)
	e.emit(ctx, models.EventBookingConfirmed, booking)
	return booking, nil
}

// Get returns the booking when the actor is one of its parties and has not
// hidden it. Anything else is a NotFoundError so existence never leaks.
func (e *DefaultBookingEngine) Get(ctx context.Context, actorID string, role models.Role, bookingID string) (*models.Booking, error) {
	booking, err := e.getOwned(ctx, actorID, role, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.HiddenFor(role) {
		return nil, utils.NewNotFoundError("booking")
	}
	return booking, nil
}

func (e *DefaultBookingEngine) List(ctx context.Context, actorID string, role models.Role) ([]models.Booking, error) {
	return e.Repo.ListForParty(ctx, actorID, role)
}

// getOwned fetches a booking and verifies the actor is a party to it.
func (e *DefaultBookingEngine) getOwned(ctx context.Context, actorID string, role models.Role, bookingID string) (*models.Booking, error) {
	booking, err := e.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, utils.NewNotFoundError("booking")
		}
		return nil, err
	}
	switch role {
	case models.RoleProvider:
		if booking.ProviderID != actorID {
			return nil, utils.NewNotFoundError("booking")
		}
	case models.RoleCustomer:
		if booking.CustomerID != actorID {
			return nil, utils.NewNotFoundError("booking")
		}
	case models.RoleAdmin:
		// Admin override: no ownership restriction.
	default:
		return nil, utils.NewNotFoundError("booking")
	}
	return booking, nil
}

func (e *DefaultBookingEngine) emit(ctx context.Context, eventType string, booking *models.Booking) {
	e.Publisher.Publish(ctx, models.DomainEvent{
		Type:       eventType,
		OccurredAt: time.Now(),
		CustomerID: booking.CustomerID,
		ProviderID: booking.ProviderID,
		Booking:    booking,
	})
}
