package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medconnect/database/repository/memory"
	"medconnect/handlers"
	"medconnect/models"
	"medconnect/routes"
	"medconnect/services/booking"
	"medconnect/services/directory"
	"medconnect/services/notification"
	"medconnect/services/slots"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const tomorrow = "2030-01-08"

type api struct {
	t      *testing.T
	router *gin.Engine
	tokens map[string]string
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	dir := &directory.DefaultDirectoryService{
		Users:     memory.NewUserRepo(),
		Doctors:   memory.NewDoctorRepo(),
		Hospitals: memory.NewHospitalRepo(),
		Tests:     memory.NewMedicalTestRepo(),
		Logger:    zap.NewNop(),
	}
	for _, u := range []models.User{
		{ID: "pat-1", Name: "Pat", Email: "pat@example.com", Role: models.RolePatient},
		{ID: "pat-2", Name: "Olu", Email: "olu@example.com", Role: models.RolePatient},
		{ID: "doc-u", Name: "Dr Ada", Email: "ada@example.com", Role: models.RoleDoctor},
		{ID: "adm-1", Name: "Root", Email: "root@example.com", Role: models.RoleAdmin},
	} {
		u := u
		require.NoError(t, dir.Users.Create(ctx, &u))
	}
	require.NoError(t, dir.Hospitals.Create(ctx, &models.Hospital{ID: "hosp-1", Name: "General"}))
	require.NoError(t, dir.Doctors.Create(ctx, &models.Doctor{ID: "doc-1", UserID: "doc-u", Name: "Dr Ada", HospitalID: "hosp-1"}))

	breaks, err := slots.ParseBreaks("11:00/10,13:00/60,15:30/10")
	require.NoError(t, err)
	cfg := slots.Configs{
		Appointment: models.SlotConfig{OpenTime: "9:00", CloseTime: "17:00", SlotMinutes: 20, Breaks: breaks},
		Test:        models.SlotConfig{OpenTime: "7:00", CloseTime: "15:00", SlotMinutes: 30},
	}
	svc := booking.NewDefaultBookingService(memory.NewBookingRepo(), dir, nil, cfg, zap.NewNop())
	svc.Now = func() time.Time { return time.Date(2030, 1, 7, 8, 0, 0, 0, time.UTC) }

	hb := &handlers.HandlerBundle{
		Booking:       handlers.NewBookingHandler(svc),
		Admin:         handlers.NewAdminHandler(dir),
		Device:        handlers.NewDeviceHandler(dir),
		Notifications: handlers.NewNotificationHandler(notification.NewRepoInbox(memory.NewNotificationRepo())),
	}
	r := gin.New()
	r.Use(utils.ErrorHandler())
	routes.RegisterRoutes(r, hb, 10000)

	tokens := map[string]string{}
	for id, role := range map[string]models.Role{"pat-1": models.RolePatient, "pat-2": models.RolePatient, "doc-u": models.RoleDoctor, "adm-1": models.RoleAdmin} {
		tok, err := utils.GenerateToken(id, string(role), time.Hour)
		require.NoError(t, err)
		tokens[id] = tok
	}
	return &api{t: t, router: r, tokens: tokens}
}

func (a *api) do(method, path, as string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if as != "" {
		req.Header.Set("Authorization", "Bearer "+a.tokens[as])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func appointment(start string) map[string]any {
	return map[string]any{
		"doctorId":      "doc-1",
		"hospitalId":    "hosp-1",
		"date":          tomorrow,
		"startTime":     start,
		"reason":        "Checkup",
		"paymentMethod": "cash",
	}
}

func TestRequiresAuthentication(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/api/slots/doctors/doc-1?date="+tomorrow, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBookAppointmentFlow(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/slots/doctors/doc-1?date="+tomorrow, "pat-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	before := decode(t, w)["slots"].([]any)
	assert.Len(t, before, 19)
	assert.Equal(t, "9:00", before[0])

	w = a.do(http.MethodPost, "/api/appointments", "pat-1", appointment("9:00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, "pending", created["status"])
	assert.Equal(t, "9:20", created["endTime"])
	assert.Equal(t, false, created["paymentRequired"])
	bookingID := created["bookingId"].(string)

	w = a.do(http.MethodPost, "/api/appointments", "pat-2", appointment("9:00"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, booking.CodeSlotConflict, decode(t, w)["code"])

	w = a.do(http.MethodGet, "/api/slots/doctors/doc-1?date="+tomorrow, "pat-2", nil)
	after := decode(t, w)["slots"].([]any)
	assert.Len(t, after, 18)
	assert.NotContains(t, after, "9:00")

	w = a.do(http.MethodGet, "/api/bookings/"+bookingID, "pat-2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPatch, "/api/bookings/"+bookingID+"/status", "doc-u", map[string]any{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "confirmed", decode(t, w)["status"])

	w = a.do(http.MethodPatch, "/api/bookings/"+bookingID+"/status", "adm-1", map[string]any{"status": "pending"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, booking.CodeInvalidTransition, decode(t, w)["code"])

	w = a.do(http.MethodPut, "/api/bookings/"+bookingID+"/reschedule", "pat-1", map[string]any{"newDate": tomorrow, "newStartTime": "9:40"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	moved := decode(t, w)
	assert.Equal(t, "rescheduled", moved["status"])
	assert.Equal(t, "9:40", moved["startTime"])

	w = a.do(http.MethodPatch, "/api/bookings/"+bookingID+"/payment", "pat-1", map[string]any{"paymentStatus": "paid"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodGet, "/api/bookings", "pat-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["bookings"], 1)

	w = a.do(http.MethodGet, "/api/bookings", "pat-2", nil)
	assert.Len(t, decode(t, w)["bookings"], 0)
}

func TestBookingErrors(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodPost, "/api/appointments", "pat-1", map[string]any{"doctorId": "doc-1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, booking.CodeValidation, decode(t, w)["code"])

	body := appointment("9:00")
	body["consumerId"] = "pat-2"
	w = a.do(http.MethodPost, "/api/appointments", "pat-1", body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = a.do(http.MethodPost, "/api/appointments", "adm-1", body)
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodPost, "/api/appointments", "pat-1", appointment("9:05"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, booking.CodeInvalidSlot, decode(t, w)["code"])

	w = a.do(http.MethodGet, "/api/bookings/missing", "adm-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, booking.CodeNotFound, decode(t, w)["code"])

	w = a.do(http.MethodGet, "/api/bookings?limit=-1", "pat-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminDirectoryRoutes(t *testing.T) {
	a := newAPI(t)

	hospital := map[string]any{"name": "Annex", "address": "1 Main St"}
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/api/admin/hospitals", "pat-1", hospital).Code)

	w := a.do(http.MethodPost, "/api/admin/hospitals", "adm-1", hospital)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(http.MethodGet, "/api/hospitals", "pat-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["hospitals"], 2)

	w = a.do(http.MethodGet, "/api/doctors?hospitalId=hosp-1", "pat-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["doctors"], 1)
}

func TestNotificationRoutes(t *testing.T) {
	a := newAPI(t)

	w := a.do(http.MethodGet, "/api/notifications", "pat-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["notifications"], 0)

	w = a.do(http.MethodPatch, "/api/notifications/nope/read", "pat-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(http.MethodPut, "/api/users/me/fcm-token", "pat-1", map[string]any{"fcmToken": "tok-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthWithoutSnapshotIsDegraded(t *testing.T) {
	a := newAPI(t)
	w := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "degraded", decode(t, w)["status"])
}
