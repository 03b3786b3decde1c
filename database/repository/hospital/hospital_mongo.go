package hospitalRepo

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

type mongoHospitalRepo struct {
	coll *mongo.Collection
}

func NewMongoHospitalRepo(db *mongo.Database) HospitalRepository {
	return &mongoHospitalRepo{coll: db.Collection("hospitals")}
}

func (r *mongoHospitalRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.IndexTimeout)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	})
	if err != nil {
		return fmt.Errorf("failed to create hospital indexes: %w", err)
	}
	return nil
}

func (r *mongoHospitalRepo) GetByID(ctx context.Context, id string) (*models.Hospital, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	var h models.Hospital
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&h); err != nil {
		return nil, fmt.Errorf("failed to fetch hospital %s: %w", id, repository.MapError(err))
	}
	return &h, nil
}

func (r *mongoHospitalRepo) Create(ctx context.Context, h *models.Hospital) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	h.CreatedAt, h.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, h); err != nil {
		return fmt.Errorf("failed to create hospital: %w", repository.MapError(err))
	}
	return nil
}

func (r *mongoHospitalRepo) List(ctx context.Context) ([]models.Hospital, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}
	defer cursor.Close(ctx)

	hospitals := []models.Hospital{}
	if err := cursor.All(ctx, &hospitals); err != nil {
		return nil, fmt.Errorf("failed to decode hospitals: %w", err)
	}
	return hospitals, nil
}
