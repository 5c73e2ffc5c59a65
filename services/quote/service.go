package quote

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingRepo "serviqo/database/repository/booking"
	requestRepo "serviqo/database/repository/request"
	"serviqo/models"
	"serviqo/services/booking"
	"serviqo/services/notification"
	"serviqo/utils"
)

const requestNumberPrefix = "RQ"

// QuoteService owns the request-for-quote lifecycle; acceptance hands off
// to the booking engine to materialize a confirmed Booking.
type QuoteService interface {
	CreateRequest(ctx context.Context, customerID string, in models.CreateRequestInput) (*models.BookingRequest, error)
	Get(ctx context.Context, actorID string, role models.Role, requestID string) (*models.BookingRequest, error)
	List(ctx context.Context, actorID string, role models.Role) ([]models.BookingRequest, error)

	SubmitQuote(ctx context.Context, providerID, requestID string, in models.SubmitQuoteInput) (*models.BookingRequest, error)
	AcceptQuote(ctx context.Context, customerID, requestID string) (*models.BookingRequest, error)
	RejectQuote(ctx context.Context, actorID string, role models.Role, requestID string) (*models.BookingRequest, error)
	CancelRequest(ctx context.Context, customerID, requestID string) (*models.BookingRequest, error)

	// ExpireLapsed persists the expired status for quoted requests whose
	// validity window has passed. Safe to run redundantly; the lazy check
	// in AcceptQuote is authoritative either way.
	ExpireLapsed(ctx context.Context) (int, error)
}

// DefaultQuoteService is the production implementation.
type DefaultQuoteService struct {
	Repo      requestRepo.RequestRepository
	Booking   booking.BookingService
	Numbers   bookingRepo.BookingRepository
	Publisher notification.Publisher
	Logger    *zap.Logger
}

// CreateRequest opens a pending request-for-quote with a yearly RQ number.
func (s *DefaultQuoteService) CreateRequest(ctx context.Context, customerID string, in models.CreateRequestInput) (*models.BookingRequest, error) {
	if _, err := utils.ParseDate(in.PreferredDate); err != nil {
		return nil, utils.NewValidationError("preferred_date", err.Error())
	}
	if in.BudgetMin != nil && in.BudgetMax != nil && *in.BudgetMin > *in.BudgetMax {
		return nil, utils.NewValidationError("budget_min", "must not exceed budget_max")
	}

	number, err := s.Numbers.NextNumber(ctx, requestNumberPrefix, time.Now().Year())
	if err != nil {
		return nil, err
	}

	now := time.Now()
	req := &models.BookingRequest{
		ID:            uuid.New().String(),
		RequestNumber: number,
		CustomerID:    customerID,
		ProviderID:    in.ProviderID,
		ServiceID:     in.ServiceID,
		Title:         in.Title,
		Description:   in.Description,
		SlotID:        in.SlotID,
		PreferredDate: in.PreferredDate,
		PreferredTime: in.PreferredTime,
		Status:        models.RequestStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if in.BudgetMin != nil {
		min := models.AmountFromFloat(*in.BudgetMin)
		req.BudgetMin = &min
	}
	if in.BudgetMax != nil {
		max := models.AmountFromFloat(*in.BudgetMax)
		req.BudgetMax = &max
	}

	if err := s.Repo.Create(ctx, req); err != nil {
		return nil, err
	}
	s.Logger.Info("booking request created",
		zap.String("request_number", req.RequestNumber),
		zap.String("customer_id", customerID),
		zap.String("provider_id", req.ProviderID),
	)
	return req, nil
}

func (s *DefaultQuoteService) Get(ctx context.Context, actorID string, role models.Role, requestID string) (*models.BookingRequest, error) {
	return s.getOwned(ctx, actorID, role, requestID)
}

func (s *DefaultQuoteService) List(ctx context.Context, actorID string, role models.Role) ([]models.BookingRequest, error) {
	return s.Repo.ListForParty(ctx, actorID, role)
}

// SubmitQuote answers a pending request with a price and validity window.
func (s *DefaultQuoteService) SubmitQuote(ctx context.Context, providerID, requestID string, in models.SubmitQuoteInput) (*models.BookingRequest, error) {
	req, err := s.getOwned(ctx, providerID, models.RoleProvider, requestID)
	if err != nil {
		return nil, err
	}
	if in.Price <= 0 {
		return nil, utils.NewValidationError("price", "must be positive")
	}
	if in.ValidUntil != nil && in.ValidUntil.Before(time.Now()) {
		return nil, utils.NewValidationError("valid_until", "must be in the future")
	}

	next, ok := models.NextRequestStatus(req.Status, models.RequestActionQuote)
	if !ok {
		return nil, utils.NewStateError(string(req.Status), string(models.RequestActionQuote))
	}

	price := models.AmountFromFloat(in.Price)
	req.Status = next
	req.QuotedPrice = &price
	req.QuoteDetails = in.Details
	req.QuoteValidUntil = in.ValidUntil
	req.EstimatedHours = in.EstimatedHours

	if err := s.Repo.Update(ctx, req); err != nil {
		return nil, err
	}
	s.emit(ctx, models.EventQuoteSubmitted, req)
	return req, nil
}

// AcceptQuote materializes a confirmed Booking from a live quote and links
// it back to the request. A lapsed validity window makes the quote
// ineligible even before any persisted expired transition.
func (s *DefaultQuoteService) AcceptQuote(ctx context.Context, customerID, requestID string) (*models.BookingRequest, error) {
	req, err := s.getOwned(ctx, customerID, models.RoleCustomer, requestID)
	if err != nil {
		return nil, err
	}
	if req.IsExpired(time.Now()) {
		return nil, utils.NewConflictError("quote on request %s expired at %s", req.RequestNumber, req.QuoteValidUntil.Format(time.RFC3339))
	}

	next, ok := models.NextRequestStatus(req.Status, models.RequestActionAccept)
	if !ok {
		return nil, utils.NewStateError(string(req.Status), string(models.RequestActionAccept))
	}

	b, err := s.Booking.MaterializeFromQuote(ctx, req)
	if err != nil {
		return nil, err
	}

	req.Status = next
	req.BookingID = b.ID
	if err := s.Repo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.Logger.Info("quote accepted",
		zap.String("request_number", req.RequestNumber),
		zap.String("booking_number", b.BookingNumber),
	)
	s.emit(ctx, models.EventQuoteAccepted, req)
	return req, nil
}

// RejectQuote declines a pending or quoted request. Either party may reject.
func (s *DefaultQuoteService) RejectQuote(ctx context.Context, actorID string, role models.Role, requestID string) (*models.BookingRequest, error) {
	return s.close(ctx, actorID, role, requestID, models.RequestActionReject, models.EventQuoteRejected)
}

// CancelRequest withdraws a pending or quoted request. Customer only.
func (s *DefaultQuoteService) CancelRequest(ctx context.Context, customerID, requestID string) (*models.BookingRequest, error) {
	return s.close(ctx, customerID, models.RoleCustomer, requestID, models.RequestActionCancel, models.EventQuoteCancelled)
}

func (s *DefaultQuoteService) close(ctx context.Context, actorID string, role models.Role, requestID string, action models.RequestAction, eventType string) (*models.BookingRequest, error) {
	req, err := s.getOwned(ctx, actorID, role, requestID)
	if err != nil {
		return nil, err
	}
	next, ok := models.NextRequestStatus(req.Status, action)
	if !ok {
		return nil, utils.NewStateError(string(req.Status), string(action))
	}
	req.Status = next
	if err := s.Repo.Update(ctx, req); err != nil {
		return nil, err
	}
	s.emit(ctx, eventType, req)
	return req, nil
}

// ExpireLapsed persists expired for every quoted request whose validity has
// passed, returning the count mutated.
func (s *DefaultQuoteService) ExpireLapsed(ctx context.Context) (int, error) {
	lapsed, err := s.Repo.ListLapsedQuoted(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	count := 0
	for i := range lapsed {
		req := &lapsed[i]
		next, ok := models.NextRequestStatus(req.Status, models.RequestActionExpire)
		if !ok {
			continue
		}
		req.Status = next
		if err := s.Repo.Update(ctx, req); err != nil {
			s.Logger.Error("failed to expire quote", zap.String("request_number", req.RequestNumber), zap.Error(err))
			continue
		}
		count++
		s.emit(ctx, models.EventQuoteExpired, req)
	}
	return count, nil
}

func (s *DefaultQuoteService) getOwned(ctx context.Context, actorID string, role models.Role, requestID string) (*models.BookingRequest, error) {
	req, err := s.Repo.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, requestRepo.ErrNotFound) {
			return nil, utils.NewNotFoundError("booking request")
		}
		return nil, err
	}
	switch role {
	case models.RoleProvider:
		if req.ProviderID != actorID {
			return nil, utils.NewNotFoundError("booking request")
		}
	case models.RoleCustomer:
		if req.CustomerID != actorID {
			return nil, utils.NewNotFoundError("booking request")
		}
	case models.RoleAdmin:
	default:
		return nil, utils.NewNotFoundError("booking request")
	}
	return req, nil
}

func (s *DefaultQuoteService) emit(ctx context.Context, eventType string, req *models.BookingRequest) {
	s.Publisher.Publish(ctx, models.DomainEvent{
		Type:       eventType,
		OccurredAt: time.Now(),
		CustomerID: req.CustomerID,
		ProviderID: req.ProviderID,
		Request:    req,
	})
}
