package quote

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	bookingRepo "serviqo/database/repository/booking"
	requestRepo "serviqo/database/repository/request"
	"serviqo/models"
	"serviqo/services/booking"
	"serviqo/services/notification"
	"serviqo/utils"
)

type memRequestRepo struct {
	mu          sync.Mutex
	rows        map[string]*models.BookingRequest
	failUpdates int // next N Update calls fail
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{rows: make(map[string]*models.BookingRequest)}
}

func (r *memRequestRepo) Create(_ context.Context, req *models.BookingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *req
	r.rows[req.ID] = &copied
	return nil
}

func (r *memRequestRepo) GetByID(_ context.Context, requestID string) (*models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.rows[requestID]
	if !ok {
		return nil, requestRepo.ErrNotFound
	}
	copied := *req
	return &copied, nil
}

func (r *memRequestRepo) Update(_ context.Context, req *models.BookingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failUpdates > 0 {
		r.failUpdates--
		return fmt.Errorf("write failed")
	}
	if _, ok := r.rows[req.ID]; !ok {
		return requestRepo.ErrNotFound
	}
	copied := *req
	r.rows[req.ID] = &copied
	return nil
}

func (r *memRequestRepo) ListForParty(_ context.Context, partyID string, role models.Role) ([]models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingRequest
	for _, req := range r.rows {
		if (role == models.RoleProvider && req.ProviderID == partyID) ||
			(role != models.RoleProvider && req.CustomerID == partyID) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *memRequestRepo) ListLapsedQuoted(_ context.Context, now time.Time) ([]models.BookingRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.BookingRequest
	for _, req := range r.rows {
		if req.IsExpired(now) {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *memRequestRepo) EnsureIndexes() error { return nil }

// stubBookingService only materializes; everything else is unused here. It
// honors the engine's contract of at most one booking per request, handing
// back the existing booking on a repeated call.
type stubBookingService struct {
	booking.BookingService
	materialized []*models.BookingRequest
	byRequest    map[string]*models.Booking
	err          error
}

func (s *stubBookingService) MaterializeFromQuote(_ context.Context, req *models.BookingRequest) (*models.Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.byRequest == nil {
		s.byRequest = make(map[string]*models.Booking)
	}
	if existing, ok := s.byRequest[req.ID]; ok {
		return existing, nil
	}
	s.materialized = append(s.materialized, req)
	bk := &models.Booking{
		ID:            "bk-" + req.ID,
		BookingNumber: "BK-2026-00042",
		CustomerID:    req.CustomerID,
		ProviderID:    req.ProviderID,
		RequestID:     req.ID,
		Status:        models.BookingStatusConfirmed,
	}
	s.byRequest[req.ID] = bk
	return bk, nil
}

// stubNumbers allocates sequence numbers; the rest of the repository
// surface is unused by the quote service.
type stubNumbers struct {
	bookingRepo.BookingRepository
	mu  sync.Mutex
	seq int
}

func (s *stubNumbers) NextNumber(_ context.Context, prefix string, year int) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s-%d-%05d", prefix, year, s.seq), nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.DomainEvent
}

var _ notification.Publisher = (*recordingPublisher)(nil)

func (p *recordingPublisher) Publish(_ context.Context, event models.DomainEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func newTestService() (*DefaultQuoteService, *memRequestRepo, *stubBookingService, *recordingPublisher) {
	repo := newMemRequestRepo()
	bs := &stubBookingService{}
	pub := &recordingPublisher{}
	svc := &DefaultQuoteService{
		Repo:      repo,
		Booking:   bs,
		Numbers:   &stubNumbers{},
		Publisher: pub,
		Logger:    zap.NewNop(),
	}
	return svc, repo, bs, pub
}

func createRequest(t *testing.T, svc *DefaultQuoteService) *models.BookingRequest {
	t.Helper()
	req, err := svc.CreateRequest(context.Background(), "cust-1", models.CreateRequestInput{
		ProviderID:    "prov-1",
		ServiceID:     "svc-1",
		Title:         "Deep clean",
		PreferredDate: time.Now().AddDate(0, 0, 7).Format(utils.DateLayout),
		PreferredTime: models.TimeOfDay(10 * 60),
	})
	require.NoError(t, err)
	return req
}

func TestCreateRequest(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := createRequest(t, svc)

	assert.Regexp(t, `^RQ-\d{4}-\d{5}$`, req.RequestNumber)
	assert.Equal(t, models.RequestStatusPending, req.Status)
	assert.Empty(t, req.BookingID)

	second := createRequest(t, svc)
	assert.NotEqual(t, req.RequestNumber, second.RequestNumber)
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.CreateRequest(context.Background(), "cust-1", models.CreateRequestInput{
		ProviderID: "prov-1", ServiceID: "svc-1", Title: "x",
		PreferredDate: "not-a-date", PreferredTime: models.TimeOfDay(600),
	})
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)

	min, max := 200.0, 100.0
	_, err = svc.CreateRequest(context.Background(), "cust-1", models.CreateRequestInput{
		ProviderID: "prov-1", ServiceID: "svc-1", Title: "x",
		PreferredDate: "2026-12-01", PreferredTime: models.TimeOfDay(600),
		BudgetMin: &min, BudgetMax: &max,
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "budget_min", ve.Field)
}

func TestSubmitQuote(t *testing.T) {
	svc, _, _, pub := newTestService()
	req := createRequest(t, svc)

	validUntil := time.Now().Add(48 * time.Hour)
	quoted, err := svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{
		Price:          150,
		Details:        "includes supplies",
		ValidUntil:     &validUntil,
		EstimatedHours: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusQuoted, quoted.Status)
	require.NotNil(t, quoted.QuotedPrice)
	assert.Equal(t, "150", quoted.QuotedPrice.String())

	require.Len(t, pub.events, 1)
	assert.Equal(t, models.EventQuoteSubmitted, pub.events[0].Type)

	// Re-quoting a quoted request is illegal.
	_, err = svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{Price: 99})
	var se *utils.StateError
	require.ErrorAs(t, err, &se)
}

func TestSubmitQuoteValidation(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := createRequest(t, svc)

	_, err := svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{Price: -5})
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)

	past := time.Now().Add(-time.Hour)
	_, err = svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{Price: 100, ValidUntil: &past})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "valid_until", ve.Field)

	// Another provider cannot see the request at all.
	var nf *utils.NotFoundError
	_, err = svc.SubmitQuote(context.Background(), "prov-2", req.ID, models.SubmitQuoteInput{Price: 100})
	require.ErrorAs(t, err, &nf)
}

func TestAcceptQuote(t *testing.T) {
	svc, repo, bs, pub := newTestService()
	req := createRequest(t, svc)

	validUntil := time.Now().Add(48 * time.Hour)
	_, err := svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{
		Price: 150, ValidUntil: &validUntil, EstimatedHours: 2,
	})
	require.NoError(t, err)

	accepted, err := svc.AcceptQuote(context.Background(), "cust-1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, accepted.Status)
	assert.Equal(t, "bk-"+req.ID, accepted.BookingID)
	require.Len(t, bs.materialized, 1)

	stored, err := repo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, "bk-"+req.ID, stored.BookingID)

	types := make([]string, len(pub.events))
	for i, e := range pub.events {
		types[i] = e.Type
	}
	assert.Contains(t, types, models.EventQuoteAccepted)

	// Terminal: accepting twice fails and materializes nothing more.
	_, err = svc.AcceptQuote(context.Background(), "cust-1", req.ID)
	var se *utils.StateError
	require.ErrorAs(t, err, &se)
	assert.Len(t, bs.materialized, 1)
}

func TestAcceptQuoteRejectsLapsedQuote(t *testing.T) {
	svc, repo, bs, _ := newTestService()
	req := createRequest(t, svc)

	validUntil := time.Now().Add(time.Minute)
	_, err := svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{
		Price: 150, ValidUntil: &validUntil,
	})
	require.NoError(t, err)

	// Lapse the quote behind the service's back; no sweep has run.
	stored, _ := repo.GetByID(context.Background(), req.ID)
	past := time.Now().Add(-time.Minute)
	stored.QuoteValidUntil = &past
	require.NoError(t, repo.Update(context.Background(), stored))

	_, err = svc.AcceptQuote(context.Background(), "cust-1", req.ID)
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Empty(t, bs.materialized)

	// The row is still quoted; only acceptance is barred.
	stored, _ = repo.GetByID(context.Background(), req.ID)
	assert.Equal(t, models.RequestStatusQuoted, stored.Status)
}

func TestAcceptQuoteRequiresQuote(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := createRequest(t, svc)

	_, err := svc.AcceptQuote(context.Background(), "cust-1", req.ID)
	var se *utils.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, string(models.RequestStatusPending), se.Current)
}

func TestRejectAndCancel(t *testing.T) {
	svc, _, _, pub := newTestService()

	// Provider rejects a pending request.
	req := createRequest(t, svc)
	rejected, err := svc.RejectQuote(context.Background(), "prov-1", models.RoleProvider, req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, rejected.Status)

	// Customer cancels a quoted request.
	req = createRequest(t, svc)
	validUntil := time.Now().Add(time.Hour)
	_, err = svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{Price: 80, ValidUntil: &validUntil})
	require.NoError(t, err)
	cancelled, err := svc.CancelRequest(context.Background(), "cust-1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusCancelled, cancelled.Status)

	types := make([]string, len(pub.events))
	for i, e := range pub.events {
		types[i] = e.Type
	}
	assert.Contains(t, types, models.EventQuoteRejected)
	assert.Contains(t, types, models.EventQuoteCancelled)

	// Closed requests stay closed.
	_, err = svc.CancelRequest(context.Background(), "cust-1", req.ID)
	var se *utils.StateError
	require.ErrorAs(t, err, &se)
}

func TestExpireLapsed(t *testing.T) {
	svc, repo, _, pub := newTestService()

	lapse := func() string {
		req := createRequest(t, svc)
		validUntil := time.Now().Add(time.Minute)
		_, err := svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{Price: 80, ValidUntil: &validUntil})
		require.NoError(t, err)
		stored, _ := repo.GetByID(context.Background(), req.ID)
		past := time.Now().Add(-time.Minute)
		stored.QuoteValidUntil = &past
		require.NoError(t, repo.Update(context.Background(), stored))
		return req.ID
	}
	first := lapse()
	second := lapse()
	live := createRequest(t, svc)

	n, err := svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	for _, id := range []string{first, second} {
		stored, _ := repo.GetByID(context.Background(), id)
		assert.Equal(t, models.RequestStatusExpired, stored.Status)
	}
	stored, _ := repo.GetByID(context.Background(), live.ID)
	assert.Equal(t, models.RequestStatusPending, stored.Status)

	expired := 0
	for _, e := range pub.events {
		if e.Type == models.EventQuoteExpired {
			expired++
		}
	}
	assert.Equal(t, 2, expired)

	// Redundant sweeps find nothing.
	n, err = svc.ExpireLapsed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestGetEnforcesOwnership(t *testing.T) {
	svc, _, _, _ := newTestService()
	req := createRequest(t, svc)

	_, err := svc.Get(context.Background(), "cust-1", models.RoleCustomer, req.ID)
	require.NoError(t, err)
	_, err = svc.Get(context.Background(), "prov-1", models.RoleProvider, req.ID)
	require.NoError(t, err)

	var nf *utils.NotFoundError
	_, err = svc.Get(context.Background(), "cust-2", models.RoleCustomer, req.ID)
	require.ErrorAs(t, err, &nf)
	_, err = svc.Get(context.Background(), "admin-1", models.RoleAdmin, req.ID)
	require.NoError(t, err)
}

func TestAcceptQuoteRetryAfterFailedUpdateLinksOneBooking(t *testing.T) {
	svc, repo, bs, _ := newTestService()
	req := createRequest(t, svc)

	validUntil := time.Now().Add(48 * time.Hour)
	_, err := svc.SubmitQuote(context.Background(), "prov-1", req.ID, models.SubmitQuoteInput{
		Price: 150, ValidUntil: &validUntil, EstimatedHours: 2,
	})
	require.NoError(t, err)

	// The request row write fails after the booking is materialized; the
	// accept surfaces the error and the row stays quoted.
	repo.failUpdates = 1
	_, err = svc.AcceptQuote(context.Background(), "cust-1", req.ID)
	require.Error(t, err)

	stored, err := repo.GetByID(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusQuoted, stored.Status)
	assert.Empty(t, stored.BookingID)

	// The retried accept must link the booking already materialized, never
	// mint a second one.
	accepted, err := svc.AcceptQuote(context.Background(), "cust-1", req.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusAccepted, accepted.Status)
	assert.Equal(t, "bk-"+req.ID, accepted.BookingID)
	require.Len(t, bs.materialized, 1)
}
