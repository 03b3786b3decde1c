package booking

import (
	"context"
	"testing"
	"time"

	"medconnect/database/repository/memory"
	"medconnect/models"
	"medconnect/services/slots"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Monday 2030-01-07, 08:00 UTC.
var testNow = time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC)

const (
	today    = "2030-01-07"
	tomorrow = "2030-01-08"
)

type fakeLookup struct {
	users     map[string]*models.User
	doctors   map[string]*models.Doctor
	hospitals map[string]*models.Hospital
	tests     map[string]*models.MedicalTest
}

func (f *fakeLookup) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, &NotFoundError{Entity: "user", ID: id}
}

func (f *fakeLookup) GetDoctor(_ context.Context, id string) (*models.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, &NotFoundError{Entity: "doctor", ID: id}
}

func (f *fakeLookup) GetDoctorByUserID(_ context.Context, userID string) (*models.Doctor, error) {
	for _, d := range f.doctors {
		if d.UserID == userID {
			return d, nil
		}
	}
	return nil, &NotFoundError{Entity: "doctor", ID: userID}
}

func (f *fakeLookup) GetHospital(_ context.Context, id string) (*models.Hospital, error) {
	if h, ok := f.hospitals[id]; ok {
		return h, nil
	}
	return nil, &NotFoundError{Entity: "hospital", ID: id}
}

func (f *fakeLookup) GetMedicalTest(_ context.Context, id string) (*models.MedicalTest, error) {
	if t, ok := f.tests[id]; ok {
		return t, nil
	}
	return nil, &NotFoundError{Entity: "medical test", ID: id}
}

type recordingSink struct {
	events chan models.LifecycleEvent
}

func (r *recordingSink) Publish(_ context.Context, ev models.LifecycleEvent) {
	r.events <- ev
}

func (r *recordingSink) next(t *testing.T) models.LifecycleEvent {
	t.Helper()
	select {
	case ev := <-r.events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for lifecycle event")
	}
	return models.LifecycleEvent{}
}

type mockPayments struct{ mock.Mock }

func (m *mockPayments) CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	args := m.Called(ctx, req)
	inv, _ := args.Get(0).(*models.Invoice)
	return inv, args.Error(1)
}

type mockReminders struct{ mock.Mock }

func (m *mockReminders) ScheduleReminder(ctx context.Context, b models.Booking) error {
	return m.Called(ctx, b).Error(0)
}

type fixture struct {
	svc    *DefaultBookingService
	repo   *memory.BookingRepo
	lookup *fakeLookup
	sink   *recordingSink
}

var (
	patient      = models.Actor{UserID: "user-patient", Role: models.RolePatient}
	otherPatient = models.Actor{UserID: "user-other", Role: models.RolePatient}
	doctorActor  = models.Actor{UserID: "user-doc", Role: models.RoleDoctor}
	otherDoctor  = models.Actor{UserID: "user-doc-2", Role: models.RoleDoctor}
	admin        = models.Actor{UserID: "user-admin", Role: models.RoleAdmin}
)

func newFixture(t *testing.T) *fixture {
	t.Helper()

	breaks, err := slots.ParseBreaks("11:00/10,13:00/60,15:30/10")
	require.NoError(t, err)
	cfg := slots.Configs{
		Appointment: models.SlotConfig{OpenTime: "9:00", CloseTime: "17:00", SlotMinutes: 20, Breaks: breaks},
		Test:        models.SlotConfig{OpenTime: "7:00", CloseTime: "9:00", SlotMinutes: 30},
	}

	lookup := &fakeLookup{
		users: map[string]*models.User{
			"user-patient": {ID: "user-patient", Name: "Pat", Email: "pat@example.com", Role: models.RolePatient},
			"user-other":   {ID: "user-other", Name: "Olu", Email: "olu@example.com", Role: models.RolePatient},
			"user-doc":     {ID: "user-doc", Name: "Dr Ada", Email: "ada@example.com", Role: models.RoleDoctor},
			"user-doc-2":   {ID: "user-doc-2", Name: "Dr Bo", Email: "bo@example.com", Role: models.RoleDoctor},
		},
		doctors: map[string]*models.Doctor{
			"doc-1": {ID: "doc-1", UserID: "user-doc", Name: "Dr Ada", HospitalID: "hosp-1", Fee: 50},
			"doc-2": {ID: "doc-2", UserID: "user-doc-2", Name: "Dr Bo", HospitalID: "hosp-1", Fee: 40},
		},
		hospitals: map[string]*models.Hospital{
			"hosp-1": {ID: "hosp-1", Name: "General"},
			"hosp-2": {ID: "hosp-2", Name: "Annex"},
		},
		tests: map[string]*models.MedicalTest{
			"test-1": {ID: "test-1", HospitalID: "hosp-1", Name: "Blood panel", Price: 25.5},
		},
	}

	repo := memory.NewBookingRepo()
	sink := &recordingSink{events: make(chan models.LifecycleEvent, 128)}
	svc := NewDefaultBookingService(repo, lookup, sink, cfg, zap.NewNop())
	svc.Now = func() time.Time { return testNow }

	return &fixture{svc: svc, repo: repo, lookup: lookup, sink: sink}
}

func appointmentAt(date, start string) models.AppointmentRequest {
	return models.AppointmentRequest{
		ConsumerID:    "user-patient",
		DoctorID:      "doc-1",
		HospitalID:    "hosp-1",
		Date:          date,
		StartTime:     start,
		Reason:        "Checkup",
		PaymentMethod: "cash",
	}
}

func (f *fixture) book(t *testing.T, date, start string) *models.Booking {
	t.Helper()
	res, err := f.svc.CreateAppointment(context.Background(), appointmentAt(date, start))
	require.NoError(t, err)
	f.sink.next(t)
	return res.Booking
}
