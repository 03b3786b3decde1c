package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"medconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateAppointment(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateAppointment(context.Background(), appointmentAt(tomorrow, "09:00"))
	require.NoError(t, err)

	b := res.Booking
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, models.KindAppointment, b.Kind)
	assert.Equal(t, "9:00", b.StartTime)
	assert.Equal(t, "9:20", b.EndTime)
	assert.Equal(t, tomorrow, b.Date)
	assert.Equal(t, models.StatusPending, b.Status)
	assert.True(t, b.HoldsSlot)
	assert.Equal(t, models.PaymentPending, b.PaymentStatus)
	assert.False(t, res.PaymentRequired)

	ev := f.sink.next(t)
	assert.Equal(t, models.EventBookingCreated, ev.Type)
	assert.Equal(t, b.ID, ev.Booking.ID)
}

func TestCreateAppointmentTodayIsAllowed(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateAppointment(context.Background(), appointmentAt(today, "16:40"))
	require.NoError(t, err)
}

func TestCreateAppointmentRejectsSlotAlreadyStarted(t *testing.T) {
	f := newFixture(t)
	f.svc.Now = func() time.Time { return time.Date(2030, 1, 7, 15, 0, 0, 0, time.UTC) }

	for _, start := range []string{"9:00", "15:00"} {
		_, err := f.svc.CreateAppointment(context.Background(), appointmentAt(today, start))
		var ve *ValidationError
		require.ErrorAs(t, err, &ve, start)
		assert.Equal(t, "startTime", ve.Field)
	}

	_, err := f.svc.CreateAppointment(context.Background(), appointmentAt(today, "15:40"))
	require.NoError(t, err)

	held, err := f.repo.FindHeld(context.Background(), "doc-1", today)
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestCreateAppointmentUsesClinicCalendarDay(t *testing.T) {
	f := newFixture(t)
	// 22:00 UTC on the 7th is already the 8th in the clinic.
	f.svc.Location = time.FixedZone("EAT", 3*60*60)
	f.svc.Now = func() time.Time { return time.Date(2030, 1, 7, 22, 0, 0, 0, time.UTC) }

	_, err := f.svc.CreateAppointment(context.Background(), appointmentAt(today, "16:40"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "date", ve.Field)

	_, err = f.svc.CreateAppointment(context.Background(), appointmentAt(tomorrow, "9:00"))
	require.NoError(t, err)
}

func TestConcurrentCreatesForOneSlot(t *testing.T) {
	f := newFixture(t)
	const n = 20

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.CreateAppointment(context.Background(), appointmentAt(tomorrow, "11:10"))
			mu.Lock()
			defer mu.Unlock()
			var sc *SlotConflictError
			switch {
			case err == nil:
				successes++
			case assert.ErrorAs(t, err, &sc):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)

	held, err := f.repo.FindHeld(context.Background(), "doc-1", tomorrow)
	require.NoError(t, err)
	assert.Len(t, held, 1)
}

func TestCreateRejectsOffGridSlots(t *testing.T) {
	f := newFixture(t)

	for _, start := range []string{"9:05", "11:00", "13:00", "17:00", "8:40", "noon"} {
		_, err := f.svc.CreateAppointment(context.Background(), appointmentAt(tomorrow, start))
		var ise *InvalidSlotError
		assert.ErrorAs(t, err, &ise, start)
	}
}

func TestCreateRejectsSlotOutsideDoctorWindow(t *testing.T) {
	f := newFixture(t)
	f.lookup.doctors["doc-1"].Availability = []models.AvailabilityWindow{{DayOfWeek: 2, StartTime: "9:00", EndTime: "12:00"}}

	_, err := f.svc.CreateAppointment(context.Background(), appointmentAt(tomorrow, "14:00"))
	var ise *InvalidSlotError
	assert.ErrorAs(t, err, &ise)

	_, err = f.svc.CreateAppointment(context.Background(), appointmentAt(tomorrow, "11:30"))
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]func(r *models.AppointmentRequest){
		"past date":      func(r *models.AppointmentRequest) { r.Date = "2030-01-06" },
		"bad date":       func(r *models.AppointmentRequest) { r.Date = "06/01/2030" },
		"missing reason": func(r *models.AppointmentRequest) { r.Reason = "  " },
		"missing doctor": func(r *models.AppointmentRequest) { r.DoctorID = "" },
		"bad payment":    func(r *models.AppointmentRequest) { r.PaymentMethod = "cheque" },
		"wrong hospital": func(r *models.AppointmentRequest) { r.HospitalID = "hosp-2" },
	}
	for name, mutate := range cases {
		req := appointmentAt(tomorrow, "9:00")
		mutate(&req)
		_, err := f.svc.CreateAppointment(ctx, req)
		var ve *ValidationError
		assert.ErrorAs(t, err, &ve, name)
	}
}

func TestCreateValidationPrecedesSlotCheck(t *testing.T) {
	f := newFixture(t)
	req := appointmentAt("2020-01-01", "9:05")

	_, err := f.svc.CreateAppointment(context.Background(), req)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestCreateMissingEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := map[string]func(r *models.AppointmentRequest){
		"user":     func(r *models.AppointmentRequest) { r.ConsumerID = "ghost" },
		"doctor":   func(r *models.AppointmentRequest) { r.DoctorID = "doc-404" },
		"hospital": func(r *models.AppointmentRequest) { r.HospitalID = "hosp-404" },
	}
	for entity, mutate := range cases {
		req := appointmentAt(tomorrow, "9:00")
		mutate(&req)
		_, err := f.svc.CreateAppointment(ctx, req)
		var nf *NotFoundError
		if assert.ErrorAs(t, err, &nf, entity) {
			assert.Equal(t, entity, nf.Entity)
		}
	}
}

func TestCreateTestBookingCash(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateTestBooking(context.Background(), models.TestBookingRequest{
		ConsumerID: "user-patient", TestID: "test-1", HospitalID: "hosp-1",
		Date: tomorrow, StartTime: "7:30", PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, models.KindTest, res.Booking.Kind)
	assert.Equal(t, models.StatusBooked, res.Booking.Status)
	assert.Equal(t, "8:00", res.Booking.EndTime)
	assert.Empty(t, res.Booking.Reason)
}

func TestCreateTestBookingOnlineCreatesIntent(t *testing.T) {
	f := newFixture(t)
	payments := &mockPayments{}
	f.svc.Payments = payments

	payments.On("CreateIntent", mock.Anything, mock.MatchedBy(func(req models.PaymentRequest) bool {
		return req.Amount == 25.5 && req.UserID == "user-patient" && req.Currency == "usd"
	})).Return(&models.Invoice{PaymentID: "pi_123", ClientSecret: "pi_123_secret"}, nil).Once()

	res, err := f.svc.CreateTestBooking(context.Background(), models.TestBookingRequest{
		ConsumerID: "user-patient", TestID: "test-1", HospitalID: "hosp-1",
		Date: tomorrow, StartTime: "8:00", PaymentMethod: "online",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, res.Booking.Status)
	assert.True(t, res.PaymentRequired)
	assert.Equal(t, "pi_123_secret", res.ClientSecret)

	stored, err := f.repo.GetByID(context.Background(), res.Booking.ID)
	require.NoError(t, err)
	assert.Equal(t, "pi_123", stored.PaymentIntentID)
	payments.AssertExpectations(t)
}

func TestPaymentIntentFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	payments := &mockPayments{}
	f.svc.Payments = payments
	payments.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, assert.AnError)

	req := appointmentAt(tomorrow, "9:40")
	req.PaymentMethod = "online"
	res, err := f.svc.CreateAppointment(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.PaymentRequired)
	assert.Empty(t, res.ClientSecret)
	assert.Equal(t, models.PaymentPending, res.Booking.PaymentStatus)
}
