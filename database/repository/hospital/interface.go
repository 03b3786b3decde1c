package hospitalRepo

import (
	"context"

	"medconnect/models"
)

type HospitalRepository interface {
	GetByID(ctx context.Context, id string) (*models.Hospital, error)
	Create(ctx context.Context, h *models.Hospital) error
	List(ctx context.Context) ([]models.Hospital, error)
	EnsureIndexes(ctx context.Context) error
}
