package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"medconnect/database/repository"
	"medconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "bookings"

type mongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a BookingRepository backed by the bookings collection.
func NewMongoBookingRepo(db *mongo.Database) BookingRepository {
	return &mongoBookingRepo{coll: db.Collection(collectionName)}
}

func (r *mongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.WriteTimeout)
	defer cancel()

	b.HoldsSlot = b.Status.HoldsSlot()
	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", repository.MapError(err))
	}
	return nil
}

func (r *mongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, repository.MapError(err))
	}
	return &b, nil
}

func (r *mongoBookingRepo) FindHeld(ctx context.Context, resourceID, date string) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	filter := bson.M{"resourceId": resourceID, "date": date, "holdsSlot": true}
	opts := options.Find().
		SetProjection(bson.M{"id": 1, "startTime": 1, "status": 1, "holdsSlot": 1}).
		SetSort(bson.D{{Key: "startTime", Value: 1}})

	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepo) FindSlotHolder(ctx context.Context, resourceID, date, startTime string) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	filter := bson.M{"resourceId": resourceID, "date": date, "startTime": startTime, "holdsSlot": true}
	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		return nil, repository.MapError(err)
	}
	return &b, nil
}

func (r *mongoBookingRepo) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Kind != "" {
		filter["kind"] = f.Kind
	}
	if f.ConsumerID != "" {
		filter["consumerId"] = f.ConsumerID
	}
	if f.ResourceID != "" {
		filter["resourceId"] = f.ResourceID
	}
	if f.HospitalID != "" {
		filter["hospitalId"] = f.HospitalID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Date != "" {
		filter["date"] = f.Date
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "startTime", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}
	return r.find(ctx, filter, opts)
}

func (r *mongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *mongoBookingRepo) UpdateStatus(ctx context.Context, id string, from models.BookingStatus, change StatusChange) (*models.Booking, error) {
	set := bson.M{
		"status":    change.To,
		"holdsSlot": change.To.HoldsSlot(),
	}
	if change.RejectionReason != nil {
		set["rejectionReason"] = *change.RejectionReason
	}
	return r.compareAndSet(ctx, id, from, set)
}

func (r *mongoBookingRepo) Reschedule(ctx context.Context, id string, from models.BookingStatus, move SlotMove) (*models.Booking, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	set := bson.M{
		"date":      move.Date,
		"startTime": move.StartTime,
		"endTime":   move.EndTime,
		"status":    move.Status,
		"holdsSlot": move.Status.HoldsSlot(),
		"rescheduledFrom": models.RescheduledFrom{
			Date:      current.Date,
			StartTime: current.StartTime,
		},
	}
	// Guard on the old slot too so a concurrent reschedule is not silently overwritten.
	extra := bson.M{"date": current.Date, "startTime": current.StartTime}
	return r.compareAndSet(ctx, id, from, set, extra)
}

func (r *mongoBookingRepo) UpdatePayment(ctx context.Context, id string, from models.BookingStatus, payment models.PaymentStatus, to models.BookingStatus) (*models.Booking, error) {
	set := bson.M{
		"paymentStatus": payment,
		"status":        to,
		"holdsSlot":     to.HoldsSlot(),
	}
	return r.compareAndSet(ctx, id, from, set)
}

func (r *mongoBookingRepo) SetPaymentIntent(ctx context.Context, id, intentID string) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.WriteTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{
		"paymentIntentId": intentID,
		"updatedAt":       time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("failed to store payment intent for booking %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// compareAndSet applies set only while the booking is still in status from.
func (r *mongoBookingRepo) compareAndSet(ctx context.Context, id string, from models.BookingStatus, set bson.M, extra ...bson.M) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.WriteTimeout)
	defer cancel()

	filter := bson.M{"id": id, "status": from}
	for _, e := range extra {
		for k, v := range e {
			filter[k] = v
		}
	}
	set["updatedAt"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}

	mapped := repository.MapError(err)
	if errors.Is(mapped, repository.ErrNotFound) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, repository.ErrStale
	}
	return nil, fmt.Errorf("failed to update booking %s: %w", id, mapped)
}
