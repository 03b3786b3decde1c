package medicalTestRepo

import (
	"context"

	"medconnect/models"
)

type MedicalTestRepository interface {
	GetByID(ctx context.Context, id string) (*models.MedicalTest, error)
	Create(ctx context.Context, t *models.MedicalTest) error
	ListByHospital(ctx context.Context, hospitalID string) ([]models.MedicalTest, error)
	EnsureIndexes(ctx context.Context) error
}
