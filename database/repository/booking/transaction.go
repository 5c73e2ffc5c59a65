package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"serviqo/models"
)

const (
	txnMaxAttempts = 3
	txnBackoffBase = 50 * time.Millisecond
)

// CreateWithCapacity reserves one unit of slot capacity and inserts the
// booking row as a single transaction. The capacity check and increment are
// one conditional update, so two concurrent requests can never both pass a
// stale counter read; the loser simply matches no document and fails with
// ErrNoCapacity.
func (repo *MongoBookingRepo) CreateWithCapacity(ctx context.Context, booking *models.Booking) error {
	return repo.withRetry(ctx, func(sc mongo.SessionContext) error {
		filter := bson.M{
			"id":           booking.SlotID,
			"provider_id":  booking.ProviderID,
			"deleted":      false,
			"is_available": true,
			"$expr":        bson.M{"$lt": bson.A{"$current_bookings", "$max_bookings"}},
		}
		update := bson.M{
			"$inc": bson.M{"current_bookings": 1},
			"$set": bson.M{"updated_at": time.Now()},
		}
		res, err := repo.slotColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("capacity reservation failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNoCapacity
		}

		if _, err := repo.bookingColl.InsertOne(sc, booking); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return ErrDuplicateRequest
			}
			return fmt.Errorf("insert booking failed: %w", err)
		}
		return nil
	})
}

// ReleaseCapacity persists a capacity-freeing transition (cancel, reject)
// and decrements the slot counter in the same transaction. The decrement is
// floored at zero.
func (repo *MongoBookingRepo) ReleaseCapacity(ctx context.Context, booking *models.Booking) error {
	return repo.withRetry(ctx, func(sc mongo.SessionContext) error {
		booking.UpdatedAt = time.Now()
		res, err := repo.bookingColl.ReplaceOne(sc, bson.M{"id": booking.ID}, booking)
		if err != nil {
			return fmt.Errorf("update booking failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}

		if booking.SlotID == "" {
			return nil
		}
		filter := bson.M{
			"id":               booking.SlotID,
			"current_bookings": bson.M{"$gt": 0},
		}
		update := bson.M{
			"$inc": bson.M{"current_bookings": -1},
			"$set": bson.M{"updated_at": time.Now()},
		}
		if _, err := repo.slotColl.UpdateOne(sc, filter, update); err != nil {
			return fmt.Errorf("capacity release failed: %w", err)
		}
		return nil
	})
}

// withRetry runs fn inside a mongo session transaction, retrying transient
// and write-conflict failures with bounded backoff.
func (repo *MongoBookingRepo) withRetry(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	client := repo.bookingColl.Database().Client()

	var lastErr error
	for attempt := 1; attempt <= txnMaxAttempts; attempt++ {
		sess, err := client.StartSession()
		if err != nil {
			return fmt.Errorf("could not start mongo session: %w", err)
		}

		err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
			if err := sc.StartTransaction(); err != nil {
				return err
			}
			if err := fn(sc); err != nil {
				_ = sc.AbortTransaction(sc)
				return err
			}
			return sc.CommitTransaction(sc)
		})
		sess.EndSession(ctx)

		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return err
		}
		select {
		case <-time.After(time.Duration(attempt) * txnBackoffBase):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("booking transaction failed after %d attempts: %w", txnMaxAttempts, lastErr)
}

func isTransient(err error) bool {
	if mongo.IsTimeout(err) || mongo.IsNetworkError(err) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") || cmdErr.HasErrorLabel("UnknownTransactionCommitResult")
	}
	return false
}
