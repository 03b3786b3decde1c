// Package directory manages the reference records bookings point at: users, hospitals,
// doctors and medical tests.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"medconnect/database/repository"
	doctorRepo "medconnect/database/repository/doctor"
	hospitalRepo "medconnect/database/repository/hospital"
	medicalTestRepo "medconnect/database/repository/medicaltest"
	userRepo "medconnect/database/repository/user"
	"medconnect/models"
	"medconnect/services/booking"
	"medconnect/services/slots"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DirectoryService interface {
	booking.EntityLookup

	CreateUser(ctx context.Context, u models.User) (*models.User, error)
	RegisterDeviceToken(ctx context.Context, userID, token string) error
	CreateHospital(ctx context.Context, h models.Hospital) (*models.Hospital, error)
	ListHospitals(ctx context.Context) ([]models.Hospital, error)
	CreateDoctor(ctx context.Context, d models.Doctor) (*models.Doctor, error)
	ListDoctors(ctx context.Context, hospitalID string) ([]models.Doctor, error)
	SetDoctorAvailability(ctx context.Context, doctorID string, windows []models.AvailabilityWindow) (*models.Doctor, error)
	CreateMedicalTest(ctx context.Context, t models.MedicalTest) (*models.MedicalTest, error)
	ListMedicalTests(ctx context.Context, hospitalID string) ([]models.MedicalTest, error)
}

// DefaultDirectoryService implements DirectoryService on top of the repositories.
type DefaultDirectoryService struct {
	Users     userRepo.UserRepository
	Doctors   doctorRepo.DoctorRepository
	Hospitals hospitalRepo.HospitalRepository
	Tests     medicalTestRepo.MedicalTestRepository
	Logger    *zap.Logger
}

var _ DirectoryService = (*DefaultDirectoryService)(nil)

func notFound(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &booking.NotFoundError{Entity: entity, ID: id}
	}
	return fmt.Errorf("load %s %s: %w", entity, id, err)
}

func (s *DefaultDirectoryService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

func (s *DefaultDirectoryService) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	d, err := s.Doctors.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "doctor", id)
	}
	return d, nil
}

func (s *DefaultDirectoryService) GetDoctorByUserID(ctx context.Context, userID string) (*models.Doctor, error) {
	d, err := s.Doctors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "doctor", userID)
	}
	return d, nil
}

func (s *DefaultDirectoryService) GetHospital(ctx context.Context, id string) (*models.Hospital, error) {
	h, err := s.Hospitals.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "hospital", id)
	}
	return h, nil
}

func (s *DefaultDirectoryService) GetMedicalTest(ctx context.Context, id string) (*models.MedicalTest, error) {
	t, err := s.Tests.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "medical test", id)
	}
	return t, nil
}

func (s *DefaultDirectoryService) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Name == "" || u.Email == "" {
		return nil, &booking.ValidationError{Message: "name and email are required"}
	}
	if !u.Role.Valid() {
		return nil, &booking.ValidationError{Field: "role", Message: fmt.Sprintf("%q is not one of patient, doctor, admin", u.Role)}
	}
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if err := s.Users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &booking.ValidationError{Field: "email", Message: "is already registered"}
		}
		return nil, err
	}
	s.Logger.Info("User created", zap.String("userId", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

func (s *DefaultDirectoryService) RegisterDeviceToken(ctx context.Context, userID, token string) error {
	if strings.TrimSpace(token) == "" {
		return &booking.ValidationError{Field: "fcmToken", Message: "is required"}
	}
	if err := s.Users.UpdateFCMToken(ctx, userID, token); err != nil {
		return notFound(err, "user", userID)
	}
	return nil
}

func (s *DefaultDirectoryService) CreateHospital(ctx context.Context, h models.Hospital) (*models.Hospital, error) {
	h.Name = strings.TrimSpace(h.Name)
	if h.Name == "" {
		return nil, &booking.ValidationError{Field: "name", Message: "is required"}
	}
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	if err := s.Hospitals.Create(ctx, &h); err != nil {
		return nil, err
	}
	s.Logger.Info("Hospital created", zap.String("hospitalId", h.ID))
	return &h, nil
}

func (s *DefaultDirectoryService) ListHospitals(ctx context.Context) ([]models.Hospital, error) {
	return s.Hospitals.List(ctx)
}

func (s *DefaultDirectoryService) CreateDoctor(ctx context.Context, d models.Doctor) (*models.Doctor, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, &booking.ValidationError{Field: "name", Message: "is required"}
	}
	if d.Fee < 0 {
		return nil, &booking.ValidationError{Field: "fee", Message: "cannot be negative"}
	}
	user, err := s.GetUser(ctx, d.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleDoctor {
		return nil, &booking.ValidationError{Field: "userId", Message: "user does not have the doctor role"}
	}
	if _, err := s.GetHospital(ctx, d.HospitalID); err != nil {
		return nil, err
	}
	windows, err := normalizeWindows(d.Availability)
	if err != nil {
		return nil, err
	}
	d.Availability = windows
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if err := s.Doctors.Create(ctx, &d); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &booking.ValidationError{Field: "userId", Message: "user already has a doctor profile"}
		}
		return nil, err
	}
	s.Logger.Info("Doctor created", zap.String("doctorId", d.ID), zap.String("hospitalId", d.HospitalID))
	return &d, nil
}

func (s *DefaultDirectoryService) ListDoctors(ctx context.Context, hospitalID string) ([]models.Doctor, error) {
	return s.Doctors.ListByHospital(ctx, hospitalID)
}

func (s *DefaultDirectoryService) SetDoctorAvailability(ctx context.Context, doctorID string, windows []models.AvailabilityWindow) (*models.Doctor, error) {
	normalized, err := normalizeWindows(windows)
	if err != nil {
		return nil, err
	}
	d, err := s.Doctors.SetAvailability(ctx, doctorID, normalized)
	if err != nil {
		return nil, notFound(err, "doctor", doctorID)
	}
	return d, nil
}

func (s *DefaultDirectoryService) CreateMedicalTest(ctx context.Context, t models.MedicalTest) (*models.MedicalTest, error) {
	if strings.TrimSpace(t.Name) == "" {
		return nil, &booking.ValidationError{Field: "name", Message: "is required"}
	}
	if t.Price < 0 {
		return nil, &booking.ValidationError{Field: "price", Message: "cannot be negative"}
	}
	if _, err := s.GetHospital(ctx, t.HospitalID); err != nil {
		return nil, err
	}
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if err := s.Tests.Create(ctx, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *DefaultDirectoryService) ListMedicalTests(ctx context.Context, hospitalID string) ([]models.MedicalTest, error) {
	if _, err := s.GetHospital(ctx, hospitalID); err != nil {
		return nil, err
	}
	return s.Tests.ListByHospital(ctx, hospitalID)
}

// normalizeWindows validates weekday and times and rewrites times in canonical form.
func normalizeWindows(in []models.AvailabilityWindow) ([]models.AvailabilityWindow, error) {
	out := make([]models.AvailabilityWindow, 0, len(in))
	for i, w := range in {
		field := fmt.Sprintf("availability[%d]", i)
		if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
			return nil, &booking.ValidationError{Field: field, Message: "dayOfWeek must be between 0 and 6"}
		}
		start, err := slots.Parse(w.StartTime)
		if err != nil {
			return nil, &booking.ValidationError{Field: field, Message: err.Error()}
		}
		end, err := slots.Parse(w.EndTime)
		if err != nil {
			return nil, &booking.ValidationError{Field: field, Message: err.Error()}
		}
		if end <= start {
			return nil, &booking.ValidationError{Field: field, Message: "endTime must be after startTime"}
		}
		out = append(out, models.AvailabilityWindow{
			DayOfWeek: w.DayOfWeek,
			StartTime: slots.Format(start),
			EndTime:   slots.Format(end),
		})
	}
	return out, nil
}
