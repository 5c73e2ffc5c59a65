package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NextNumber allocates the next yearly sequence value for the given prefix
// and formats it as "<prefix>-<year>-<5-digit>". The counter lives in its
// own document per (prefix, year) and is advanced with an atomic upsert, so
// concurrent allocations never observe the same value and the sequence
// resets implicitly each calendar year.
func (repo *MongoBookingRepo) NextNumber(ctx context.Context, prefix string, year int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": fmt.Sprintf("%s-%d", prefix, year)}
	update := bson.M{"$inc": bson.M{"seq": 1}}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter struct {
		Seq int `bson:"seq"`
	}
	if err := repo.counterColl.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter); err != nil {
		return "", fmt.Errorf("failed to allocate %s sequence for %d: %w", prefix, year, err)
	}
	return fmt.Sprintf("%s-%d-%05d", prefix, year, counter.Seq), nil
}
