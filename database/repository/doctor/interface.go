package doctorRepo

import (
	"context"

	"medconnect/models"
)

type DoctorRepository interface {
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	// GetByUserID resolves the doctor profile of a login.
	GetByUserID(ctx context.Context, userID string) (*models.Doctor, error)
	Create(ctx context.Context, d *models.Doctor) error
	// ListByHospital returns every doctor when hospitalID is empty.
	ListByHospital(ctx context.Context, hospitalID string) ([]models.Doctor, error)
	SetAvailability(ctx context.Context, id string, windows []models.AvailabilityWindow) (*models.Doctor, error)
	EnsureIndexes(ctx context.Context) error
}
