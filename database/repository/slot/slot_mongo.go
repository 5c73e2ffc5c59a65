package slotRepo

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

// ErrNotFound is returned when a slot or exception does not exist or does
// not belong to the given provider.
var ErrNotFound = errors.New("not found")

// MongoSlotRepo implements SlotRepository using MongoDB.
type MongoSlotRepo struct {
	slotColl      *mongo.Collection
	exceptionColl *mongo.Collection
}

// NewMongoSlotRepo constructs a new instance of MongoSlotRepo.
func NewMongoSlotRepo() SlotRepository {
	db := database.DB()
	return &MongoSlotRepo{
		slotColl:      db.Collection("availability_slots"),
		exceptionColl: db.Collection("availability_exceptions"),
	}
}

func (repo *MongoSlotRepo) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.slotColl.InsertOne(ctx, slot); err != nil {
		return fmt.Errorf("failed to insert slot: %w", err)
	}
	return nil
}

func (repo *MongoSlotRepo) GetByID(ctx context.Context, providerID, slotID string) (*models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": slotID, "provider_id": providerID, "deleted": false}
	var slot models.AvailabilitySlot
	if err := repo.slotColl.FindOne(ctx, filter).Decode(&slot); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching slot %s: %w", slotID, err)
	}
	return &slot, nil
}

func (repo *MongoSlotRepo) Update(ctx context.Context, slot *models.AvailabilitySlot) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	slot.UpdatedAt = time.Now()
	filter := bson.M{"id": slot.ID, "provider_id": slot.ProviderID, "deleted": false}
	res, err := repo.slotColl.ReplaceOne(ctx, filter, slot)
	if err != nil {
		return fmt.Errorf("failed to update slot %s: %w", slot.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoSlotRepo) SoftDelete(ctx context.Context, providerID, slotID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"id": slotID, "provider_id": providerID, "deleted": false}
	update := bson.M{"$set": bson.M{"deleted": true, "deleted_at": now, "updated_at": now}}
	res, err := repo.slotColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to soft-delete slot %s: %w", slotID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (repo *MongoSlotRepo) ListByProvider(ctx context.Context, providerID string) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "deleted": false}
	opts := options.Find().SetSort(bson.D{{Key: "day_of_week", Value: 1}, {Key: "start_time", Value: 1}})
	cursor, err := repo.slotColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (repo *MongoSlotRepo) ListByProviderDay(ctx context.Context, providerID string, dayOfWeek int) ([]models.AvailabilitySlot, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"provider_id": providerID, "day_of_week": dayOfWeek, "deleted": false}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cursor, err := repo.slotColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing slots for day %d: %w", dayOfWeek, err)
	}
	defer cursor.Close(ctx)

	var slots []models.AvailabilitySlot
	if err := cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("error decoding slots: %w", err)
	}
	return slots, nil
}

func (repo *MongoSlotRepo) CreateException(ctx context.Context, exc *models.AvailabilityException) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.exceptionColl.InsertOne(ctx, exc); err != nil {
		return fmt.Errorf("failed to insert exception: %w", err)
	}
	return nil
}

func (repo *MongoSlotRepo) ListExceptions(ctx context.Context, providerID string) ([]models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}})
	cursor, err := repo.exceptionColl.Find(ctx, bson.M{"provider_id": providerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing exceptions: %w", err)
	}
	defer cursor.Close(ctx)

	var excs []models.AvailabilityException
	if err := cursor.All(ctx, &excs); err != nil {
		return nil, fmt.Errorf("error decoding exceptions: %w", err)
	}
	return excs, nil
}

func (repo *MongoSlotRepo) DeleteException(ctx context.Context, providerID, exceptionID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := repo.exceptionColl.DeleteOne(ctx, bson.M{"id": exceptionID, "provider_id": providerID})
	if err != nil {
		return fmt.Errorf("failed to delete exception %s: %w", exceptionID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindCoveringException returns the first blackout whose inclusive date
// range covers the given date, or nil when the date is open. ISO date
// strings compare correctly lexicographically.
func (repo *MongoSlotRepo) FindCoveringException(ctx context.Context, providerID, date string) (*models.AvailabilityException, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"provider_id": providerID,
		"start_date":  bson.M{"$lte": date},
		"end_date":    bson.M{"$gte": date},
	}
	var exc models.AvailabilityException
	if err := repo.exceptionColl.FindOne(ctx, filter).Decode(&exc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error checking blackout for %s: %w", date, err)
	}
	return &exc, nil
}
