package medicalTestRepo

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

type mongoMedicalTestRepo struct {
	coll *mongo.Collection
}

func NewMongoMedicalTestRepo(db *mongo.Database) MedicalTestRepository {
	return &mongoMedicalTestRepo{coll: db.Collection("medical_tests")}
}

func (r *mongoMedicalTestRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.IndexTimeout)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		{Keys: bson.D{{Key: "hospitalId", Value: 1}, {Key: "name", Value: 1}}, Options: options.Index().SetName("hospital_name_idx")},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create medical test indexes: %w", err)
	}
	return nil
}

func (r *mongoMedicalTestRepo) GetByID(ctx context.Context, id string) (*models.MedicalTest, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	var t models.MedicalTest
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&t); err != nil {
		return nil, fmt.Errorf("failed to fetch medical test %s: %w", id, repository.MapError(err))
	}
	return &t, nil
}

func (r *mongoMedicalTestRepo) Create(ctx context.Context, t *models.MedicalTest) error {
	ctx, cancel := repository.WithTimeout(ctx, repository.WriteTimeout)
	defer cancel()

	now := time.Now().UTC()
	t.CreatedAt, t.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, t); err != nil {
		return fmt.Errorf("failed to create medical test: %w", repository.MapError(err))
	}
	return nil
}

func (r *mongoMedicalTestRepo) ListByHospital(ctx context.Context, hospitalID string) ([]models.MedicalTest, error) {
	ctx, cancel := repository.WithTimeout(ctx, repository.ReadTimeout)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"hospitalId": hospitalID}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list medical tests: %w", err)
	}
	defer cursor.Close(ctx)

	tests := []models.MedicalTest{}
	if err := cursor.All(ctx, &tests); err != nil {
		return nil, fmt.Errorf("failed to decode medical tests: %w", err)
	}
	return tests, nil
}
