package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serviqo/models"
	"serviqo/utils"
)

func createTestBooking(t *testing.T, engine *DefaultBookingEngine, sr *fakeSlotRepo) *models.Booking {
	t.Helper()
	slot := seedSlot(sr, 5)
	bk, _, err := engine.CreateInstantBooking(context.Background(), "cust-1", instantInput(slot))
	require.NoError(t, err)
	return bk
}

func TestStartAndComplete(t *testing.T) {
	engine, sr, _, pub := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	started, err := engine.Start(context.Background(), "prov-1", bk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusInProgress, started.Status)
	assert.NotNil(t, started.StartedAt)

	done, err := engine.Complete(context.Background(), "prov-1", bk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	assert.Contains(t, pub.types(), models.EventBookingStarted)
	assert.Contains(t, pub.types(), models.EventBookingCompleted)
}

func TestCompleteRejectsFutureConfirmed(t *testing.T) {
	engine, sr, _, _ := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	// The booking is dated in the future, so a direct complete from
	// confirmed must be refused.
	_, err := engine.Complete(context.Background(), "prov-1", bk.ID)
	var ce *utils.ConflictError
	require.ErrorAs(t, err, &ce)

	stored, err := engine.Get(context.Background(), "prov-1", models.RoleProvider, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
}

func TestIllegalTransitionLeavesStatusUnchanged(t *testing.T) {
	engine, sr, _, _ := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	// Accept targets pending bookings; instant bookings are born confirmed.
	_, err := engine.Accept(context.Background(), "prov-1", bk.ID)
	var se *utils.StateError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, string(models.BookingStatusConfirmed), se.Current)

	stored, err := engine.Get(context.Background(), "prov-1", models.RoleProvider, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, stored.Status)
}

func TestCancelReleasesCapacityAndRecordsMetadata(t *testing.T) {
	engine, sr, _, pub := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	stored, _ := sr.GetByID(context.Background(), "prov-1", bk.SlotID)
	require.Equal(t, 1, stored.CurrentBookings)

	fee := 15.0
	cancelled, err := engine.Cancel(context.Background(), "cust-1", models.RoleCustomer, bk.ID, models.CancelBookingInput{
		Reason: "change of plans",
		Fee:    &fee,
	})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, "cust-1", cancelled.CancelledBy)
	assert.Equal(t, "change of plans", cancelled.CancellationReason)
	require.NotNil(t, cancelled.CancellationFee)
	assert.Equal(t, "15", cancelled.CancellationFee.String())
	assert.NotNil(t, cancelled.CancelledAt)

	stored, _ = sr.GetByID(context.Background(), "prov-1", bk.SlotID)
	assert.Equal(t, 0, stored.CurrentBookings)
	assert.Contains(t, pub.types(), models.EventBookingCancelled)
}

func TestCancelRequiresReason(t *testing.T) {
	engine, sr, _, _ := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	_, err := engine.Cancel(context.Background(), "cust-1", models.RoleCustomer, bk.ID, models.CancelBookingInput{})
	var ve *utils.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "reason", ve.Field)
}

func TestMarkNoShowKeepsCapacity(t *testing.T) {
	engine, sr, _, _ := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	ns, err := engine.MarkNoShow(context.Background(), "prov-1", bk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusNoShow, ns.Status)

	// No-show is not a cancellation: the customer consumed the window.
	stored, _ := sr.GetByID(context.Background(), "prov-1", bk.SlotID)
	assert.Equal(t, 1, stored.CurrentBookings)
}

func TestDispute(t *testing.T) {
	engine, sr, _, pub := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	disputed, err := engine.Dispute(context.Background(), bk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusDisputed, disputed.Status)
	assert.Contains(t, pub.types(), models.EventBookingDisputed)

	// Disputed is terminal, even for the override itself.
	_, err = engine.Dispute(context.Background(), bk.ID)
	var se *utils.StateError
	require.ErrorAs(t, err, &se)
}

func TestCompleteOverdueSweep(t *testing.T) {
	engine, _, br, pub := newTestEngine(t)

	yesterday := time.Now().AddDate(0, 0, -1).Format(utils.DateLayout)
	tomorrow := time.Now().AddDate(0, 0, 1).Format(utils.DateLayout)
	for i, row := range []models.Booking{
		{ID: "b1", BookingNumber: "BK-2026-00001", ProviderID: "prov-1", CustomerID: "cust-1", Date: yesterday, Status: models.BookingStatusConfirmed},
		{ID: "b2", BookingNumber: "BK-2026-00002", ProviderID: "prov-1", CustomerID: "cust-1", Date: yesterday, Status: models.BookingStatusConfirmed},
		{ID: "b3", BookingNumber: "BK-2026-00003", ProviderID: "prov-1", CustomerID: "cust-1", Date: tomorrow, Status: models.BookingStatusConfirmed},
		{ID: "b4", BookingNumber: "BK-2026-00004", ProviderID: "prov-1", CustomerID: "cust-1", Date: yesterday, Status: models.BookingStatusCancelled},
	} {
		row := row
		require.NoError(t, br.Create(context.Background(), &row), "row %d", i)
	}

	n, err := engine.CompleteOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	b1, _ := br.GetByID(context.Background(), "b1")
	assert.Equal(t, models.BookingStatusCompleted, b1.Status)
	assert.NotNil(t, b1.CompletedAt)
	b3, _ := br.GetByID(context.Background(), "b3")
	assert.Equal(t, models.BookingStatusConfirmed, b3.Status)
	b4, _ := br.GetByID(context.Background(), "b4")
	assert.Equal(t, models.BookingStatusCancelled, b4.Status)

	count := 0
	for _, typ := range pub.types() {
		if typ == models.EventBookingCompleted {
			count++
		}
	}
	assert.Equal(t, 2, count)

	// Idempotent: a second sweep finds nothing.
	n, err = engine.CompleteOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestHideIsPerPartyAndIdempotent(t *testing.T) {
	engine, sr, _, _ := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	require.NoError(t, engine.Hide(context.Background(), "cust-1", models.RoleCustomer, bk.ID))
	require.NoError(t, engine.Hide(context.Background(), "cust-1", models.RoleCustomer, bk.ID))

	// Hidden from the customer.
	var nf *utils.NotFoundError
	_, err := engine.Get(context.Background(), "cust-1", models.RoleCustomer, bk.ID)
	require.ErrorAs(t, err, &nf)
	list, err := engine.List(context.Background(), "cust-1", models.RoleCustomer)
	require.NoError(t, err)
	assert.Empty(t, list)

	// The provider's view is untouched.
	got, err := engine.Get(context.Background(), "prov-1", models.RoleProvider, bk.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, got.Status)
	list, err = engine.List(context.Background(), "prov-1", models.RoleProvider)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMarkReviewedPerParty(t *testing.T) {
	engine, sr, br, _ := newTestEngine(t)
	bk := createTestBooking(t, engine, sr)

	require.NoError(t, engine.MarkReviewed(context.Background(), "cust-1", models.RoleCustomer, bk.ID))

	stored, err := br.GetByID(context.Background(), bk.ID)
	require.NoError(t, err)
	assert.True(t, stored.CustomerReviewed)
	assert.False(t, stored.ProviderReviewed)
}
