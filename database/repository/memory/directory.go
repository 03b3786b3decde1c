package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"medconnect/database/repository"
	doctorRepo "medconnect/database/repository/doctor"
	hospitalRepo "medconnect/database/repository/hospital"
	medicalTestRepo "medconnect/database/repository/medicaltest"
	userRepo "medconnect/database/repository/user"
	"medconnect/models"
)

type UserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

var _ userRepo.UserRepository = (*UserRepo)(nil)

func NewUserRepo() *UserRepo { return &UserRepo{users: make(map[string]models.User)} }

func (r *UserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepo) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.ID == u.ID || existing.Email == u.Email {
			return fmt.Errorf("failed to create user: %w", repository.ErrDuplicate)
		}
	}
	now := time.Now().UTC()
	u.CreatedAt, u.UpdatedAt = now, now
	r.users[u.ID] = *u
	return nil
}

func (r *UserRepo) UpdateFCMToken(_ context.Context, id, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.FCMToken = token
	r.users[id] = u
	return nil
}

func (r *UserRepo) EnsureIndexes(context.Context) error { return nil }

type DoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]models.Doctor
}

var _ doctorRepo.DoctorRepository = (*DoctorRepo)(nil)

func NewDoctorRepo() *DoctorRepo { return &DoctorRepo{doctors: make(map[string]models.Doctor)} }

func (r *DoctorRepo) GetByID(_ context.Context, id string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &d, nil
}

func (r *DoctorRepo) GetByUserID(_ context.Context, userID string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.UserID == userID {
			return &d, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *DoctorRepo) Create(_ context.Context, d *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.doctors {
		if existing.ID == d.ID || existing.UserID == d.UserID {
			return repository.ErrDuplicate
		}
	}
	r.doctors[d.ID] = *d
	return nil
}

func (r *DoctorRepo) ListByHospital(_ context.Context, hospitalID string) ([]models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Doctor{}
	for _, d := range r.doctors {
		if hospitalID == "" || d.HospitalID == hospitalID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *DoctorRepo) SetAvailability(_ context.Context, id string, windows []models.AvailabilityWindow) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	d.Availability = windows
	r.doctors[id] = d
	return &d, nil
}

func (r *DoctorRepo) EnsureIndexes(context.Context) error { return nil }

type HospitalRepo struct {
	mu        sync.Mutex
	hospitals map[string]models.Hospital
}

var _ hospitalRepo.HospitalRepository = (*HospitalRepo)(nil)

func NewHospitalRepo() *HospitalRepo { return &HospitalRepo{hospitals: make(map[string]models.Hospital)} }

func (r *HospitalRepo) GetByID(_ context.Context, id string) (*models.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hospitals[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &h, nil
}

func (r *HospitalRepo) Create(_ context.Context, h *models.Hospital) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hospitals[h.ID]; ok {
		return repository.ErrDuplicate
	}
	r.hospitals[h.ID] = *h
	return nil
}

func (r *HospitalRepo) List(context.Context) ([]models.Hospital, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Hospital, 0, len(r.hospitals))
	for _, h := range r.hospitals {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *HospitalRepo) EnsureIndexes(context.Context) error { return nil }

type MedicalTestRepo struct {
	mu    sync.Mutex
	tests map[string]models.MedicalTest
}

var _ medicalTestRepo.MedicalTestRepository = (*MedicalTestRepo)(nil)

func NewMedicalTestRepo() *MedicalTestRepo {
	return &MedicalTestRepo{tests: make(map[string]models.MedicalTest)}
}

func (r *MedicalTestRepo) GetByID(_ context.Context, id string) (*models.MedicalTest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *MedicalTestRepo) Create(_ context.Context, t *models.MedicalTest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tests[t.ID]; ok {
		return repository.ErrDuplicate
	}
	r.tests[t.ID] = *t
	return nil
}

func (r *MedicalTestRepo) ListByHospital(_ context.Context, hospitalID string) ([]models.MedicalTest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.MedicalTest{}
	for _, t := range r.tests {
		if t.HospitalID == hospitalID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MedicalTestRepo) EnsureIndexes(context.Context) error { return nil }
