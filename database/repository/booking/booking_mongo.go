package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"serviqo/database"
	"serviqo/models"
)

var (
	// ErrNotFound is returned when a booking does not exist.
	ErrNotFound = errors.New("booking not found")
	// ErrNoCapacity is returned when a slot has no remaining capacity or is
	// unavailable at booking time.
	ErrNoCapacity = errors.New("slot capacity exhausted")
	// ErrDuplicateRequest is returned when a booking already exists for the
	// quote request; the unique request_id index rejects the insert.
	ErrDuplicateRequest = errors.New("booking already materialized for request")
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	bookingColl *mongo.Collection
	slotColl    *mongo.Collection
	counterColl *mongo.Collection
}

// NewMongoBookingRepo constructs a new instance of MongoBookingRepo.
func NewMongoBookingRepo() BookingRepository {
	db := database.DB()
	return &MongoBookingRepo{
		bookingColl: db.Collection("bookings"),
		slotColl:    db.Collection("availability_slots"),
		counterColl: db.Collection("counters"),
	}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateRequest
		}
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"id": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) GetByRequestID(ctx context.Context, requestID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := repo.bookingColl.FindOne(ctx, bson.M{"request_id": requestID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking for request %s: %w", requestID, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) Update(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	booking.UpdatedAt = time.Now()
	res, err := repo.bookingColl.ReplaceOne(ctx, bson.M{"id": booking.ID}, booking)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", booking.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoBookingRepo) ListForParty(ctx context.Context, partyID string, role models.Role) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var filter bson.M
	switch role {
	case models.RoleProvider:
		filter = bson.M{"provider_id": partyID, "hidden_by_provider": false}
	default:
		filter = bson.M{"customer_id": partyID, "hidden_by_customer": false}
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "start_time", Value: -1}})
	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListActiveForProvider returns the provider's pending and confirmed
// bookings; the slot-deletion guard filters them by weekday and window.
func (repo *MongoBookingRepo) ListActiveForProvider(ctx context.Context, providerID string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"status":      bson.M{"$in": bson.A{models.BookingStatusPending, models.BookingStatusConfirmed}},
	}
	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing active bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// ListOverdueConfirmed returns all confirmed bookings dated strictly before
// the cutoff date.
func (repo *MongoBookingRepo) ListOverdueConfirmed(ctx context.Context, before string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status": models.BookingStatusConfirmed,
		"date":   bson.M{"$lt": before},
	}
	cursor, err := repo.bookingColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing overdue bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings: %w", err)
	}
	return bookings, nil
}

// SetHiddenFlag sets the given party's visibility flag. The write touches
// only that party's flag, so hiding is idempotent and never affects the
// counterpart's view.
func (repo *MongoBookingRepo) SetHiddenFlag(ctx context.Context, bookingID string, role models.Role) error {
	return repo.setPartyFlag(ctx, bookingID, role, "hidden_by_provider", "hidden_by_customer")
}

// SetReviewedFlag marks the given party's review flag on the booking.
func (repo *MongoBookingRepo) SetReviewedFlag(ctx context.Context, bookingID string, role models.Role) error {
	return repo.setPartyFlag(ctx, bookingID, role, "provider_reviewed", "customer_reviewed")
}

func (repo *MongoBookingRepo) setPartyFlag(ctx context.Context, bookingID string, role models.Role, providerField, customerField string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	field := customerField
	if role == models.RoleProvider {
		field = providerField
	}
	update := bson.M{"$set": bson.M{field: true, "updated_at": time.Now()}}
	res, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": bookingID}, update)
	if err != nil {
		return fmt.Errorf("failed to set %s on booking %s: %w", field, bookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
