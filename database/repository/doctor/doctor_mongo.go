package doctorRepo

import (
	"context"
	"fmt"
	"time"

	"medconnect/database/repository"
	"medconnect/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDoctorRepo struct {
	coll *mongo.Collection
}

func NewMongoDoctorRepo(db *mongo.Database) DoctorRepository {
	return &mongoDoctorRepo{coll: db.Collection("doctors")}
}

func (r *mongoDoctorRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.IndexTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_user")},
		{Keys: bson.D{{Key: "hospitalId", Value: 1}}, Options: options.Index().SetName("hospital_idx")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create doctor indexes: %w", err)
	}
	return nil
}

func (r *mongoDoctorRepo) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	var d models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to fetch doctor %s: %w", id, repository.MapError(err))
	}
	return &d, nil
}

func (r *mongoDoctorRepo) GetByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	var d models.Doctor
	if err := r.coll.FindOne(ctx, bson.M{"userId": userID}).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to fetch doctor for user %s: %w", userID, repository.MapError(err))
	}
	return &d, nil
}

func (r *mongoDoctorRepo) Create(ctx context.Context, d *models.Doctor) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	d.CreatedAt, d.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, d); err != nil {
		return fmt.Errorf("failed to create doctor: %w", repository.MapError(err))
	}
	return nil
}

func (r *mongoDoctorRepo) ListByHospital(ctx context.Context, hospitalID string) ([]models.Doctor, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	filter := bson.M{}
	if hospitalID != "" {
		filter["hospitalId"] = hospitalID
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	defer cursor.Close(ctx)

	doctors := []models.Doctor{}
	if err := cursor.All(ctx, &doctors); err != nil {
		return nil, fmt.Errorf("failed to decode doctors: %w", err)
	}
	return doctors, nil
}

func (r *mongoDoctorRepo) SetAvailability(ctx context.Context, id string, windows []models.AvailabilityWindow) (*models.Doctor, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.WriteTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{"availability": windows, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var d models.Doctor
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"id": id}, update, opts).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to update availability for doctor %s: %w", id, repository.MapError(err))
	}
	return &d, nil
}
