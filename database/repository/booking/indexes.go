package bookingRepo

import (
	"context"
	"fmt"

	"medconnect/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SlotIndexName is the unique partial index that arbitrates concurrent claims on a slot.
const SlotIndexName = "unique_held_slot"

// EnsureIndexes creates the necessary indexes on the bookings collection.
func (r *mongoBookingRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.IndexTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// At most one slot-holding booking per resource, day and start time.
		{
			Keys: bson.D{{Key: "resourceId", Value: 1}, {Key: "date", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName(SlotIndexName).
				SetPartialFilterExpression(bson.M{"holdsSlot": true}),
		},
		{
			Keys:    bson.D{{Key: "consumerId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("consumer_date_idx"),
		},
		{
			Keys:    bson.D{{Key: "hospitalId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index().SetName("hospital_date_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}
	return nil
}
