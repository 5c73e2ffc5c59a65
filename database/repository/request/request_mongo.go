package requestRepo

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

// ErrNotFound is returned when a booking request does not exist.
var ErrNotFound = errors.New("booking request not found")

// RequestRepository persists booking requests (the quote path).
type RequestRepository interface {
	Create(ctx context.Context, req *models.BookingRequest) error
	GetByID(ctx context.Context, requestID string) (*models.BookingRequest, error)
	Update(ctx context.Context, req *models.BookingRequest) error
	ListForParty(ctx context.Context, partyID string, role models.Role) ([]models.BookingRequest, error)
	ListLapsedQuoted(ctx context.Context, now time.Time) ([]models.BookingRequest, error)
	EnsureIndexes() error
}

// MongoRequestRepo implements RequestRepository using MongoDB.
type MongoRequestRepo struct {
	requestColl *mongo.Collection
}

// NewMongoRequestRepo constructs a new instance of MongoRequestRepo.
func NewMongoRequestRepo() RequestRepository {
	return &MongoRequestRepo{
		requestColl: database.DB().Collection("booking_requests"),
	}
}

func (repo *MongoRequestRepo) Create(ctx context.Context, req *models.BookingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.requestColl.InsertOne(ctx, req); err != nil {
		return fmt.Errorf("failed to insert booking request: %w", err)
	}
	return nil
}

func (repo *MongoRequestRepo) GetByID(ctx context.Context, requestID string) (*models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var req models.BookingRequest
	if err := repo.requestColl.FindOne(ctx, bson.M{"id": requestID}).Decode(&req); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching booking request %s: %w", requestID, err)
	}
	return &req, nil
}

func (repo *MongoRequestRepo) Update(ctx context.Context, req *models.BookingRequest) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req.UpdatedAt = time.Now()
	res, err := repo.requestColl.ReplaceOne(ctx, bson.M{"id": req.ID}, req)
	if err != nil {
		return fmt.Errorf("failed to update booking request %s: %w", req.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoRequestRepo) ListForParty(ctx context.Context, partyID string, role models.Role) ([]models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	field := "customer_id"
	if role == models.RoleProvider {
		field = "provider_id"
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.requestColl.Find(ctx, bson.M{field: partyID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing booking requests: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.BookingRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("error decoding booking requests: %w", err)
	}
	return reqs, nil
}

// ListLapsedQuoted returns quoted requests whose validity window has passed,
// for the idempotent expire-lapsed batch.
func (repo *MongoRequestRepo) ListLapsedQuoted(ctx context.Context, now time.Time) ([]models.BookingRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"status":            models.RequestStatusQuoted,
		"quote_valid_until": bson.M{"$lt": now},
	}
	cursor, err := repo.requestColl.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing lapsed quotes: %w", err)
	}
	defer cursor.Close(ctx)

	var reqs []models.BookingRequest
	if err := cursor.All(ctx, &reqs); err != nil {
		return nil, fmt.Errorf("error decoding lapsed quotes: %w", err)
	}
	return reqs, nil
}

// EnsureIndexes creates the necessary indexes on the booking_requests collection.
func (repo *MongoRequestRepo) EnsureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		{
			Keys:    bson.D{{Key: "request_number", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_request_number"),
		},
		{
			Keys:    bson.D{{Key: "customer_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("customer_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("provider_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "quote_valid_until", Value: 1}},
			Options: options.Index().SetName("status_valid_until_idx"),
		},
	}

	if _, err := repo.requestColl.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking request indexes: %w", err)
	}
	return nil
}
