package handlers

import (
	"net/http"
	"strconv"

	"medconnect/models"
	"medconnect/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// consumerFor fills in the consumer from the caller. Only admins may book on behalf of someone else.
func consumerFor(a models.Actor, requested string) (string, error) {
	if requested == "" || requested == a.UserID {
		return a.UserID, nil
	}
	if !a.IsAdmin() {
		return "", &booking.ForbiddenError{Action: "book for another user"}
	}
	return requested, nil
}

func createdResponse(c *gin.Context, res *models.BookingResult) {
	c.JSON(http.StatusCreated, gin.H{
		"bookingId":       res.Booking.ID,
		"status":          res.Booking.Status,
		"endTime":         res.Booking.EndTime,
		"paymentRequired": res.PaymentRequired,
		"clientSecret":    res.ClientSecret,
	})
}

func (h *BookingHandler) CreateAppointmentHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	consumerID, err := consumerFor(a, req.ConsumerID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	req.ConsumerID = consumerID

	res, err := h.Service.CreateAppointment(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	getLogger(c).Info("Appointment booked",
		zap.String("bookingId", res.Booking.ID),
		zap.String("doctorId", req.DoctorID),
	)
	createdResponse(c, res)
}

func (h *BookingHandler) CreateTestBookingHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var req models.TestBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	consumerID, err := consumerFor(a, req.ConsumerID)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	req.ConsumerID = consumerID

	res, err := h.Service.CreateTestBooking(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	getLogger(c).Info("Test booked",
		zap.String("bookingId", res.Booking.ID),
		zap.String("testId", req.TestID),
	)
	createdResponse(c, res)
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), a, c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) ListBookingsHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	filter := models.BookingFilter{
		Kind:       models.BookingKind(c.Query("kind")),
		Status:     models.BookingStatus(c.Query("status")),
		Date:       c.Query("date"),
		ResourceID: c.Query("resourceId"),
		HospitalID: c.Query("hospitalId"),
		ConsumerID: c.Query("consumerId"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			writeBookingError(c, &booking.ValidationError{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
		filter.Limit = limit
	}

	items, err := h.Service.ListBookings(c.Request.Context(), a, filter)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if items == nil {
		items = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": items})
}

func (h *BookingHandler) UpdateStatusHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var body struct {
		Status          string `json:"status" binding:"required"`
		RejectionReason string `json:"rejectionReason"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.Service.UpdateStatus(c.Request.Context(), a, c.Param("id"), models.BookingStatus(body.Status), body.RejectionReason)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) RescheduleHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var body struct {
		NewDate      string `json:"newDate" binding:"required"`
		NewStartTime string `json:"newStartTime" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.Service.Reschedule(c.Request.Context(), a, c.Param("id"), body.NewDate, body.NewStartTime)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) UpdatePaymentHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	var body struct {
		PaymentStatus string `json:"paymentStatus" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	b, err := h.Service.UpdatePaymentStatus(c.Request.Context(), a, c.Param("id"), models.PaymentStatus(body.PaymentStatus))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DoctorSlotsHandler lists free appointment slots for a doctor on ?date=.
func (h *BookingHandler) DoctorSlotsHandler(c *gin.Context) {
	h.slots(c, models.KindAppointment, c.Param("doctorId"))
}

// TestSlotsHandler lists free slots for a medical test on ?date=.
func (h *BookingHandler) TestSlotsHandler(c *gin.Context) {
	h.slots(c, models.KindTest, c.Param("testId"))
}

func (h *BookingHandler) slots(c *gin.Context, kind models.BookingKind, resourceID string) {
	date := c.Query("date")
	free, err := h.Service.AvailableSlots(c.Request.Context(), kind, resourceID, date)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	if free == nil {
		free = []string{}
	}
	c.JSON(http.StatusOK, models.SlotsResponse{Date: date, Slots: free})
}
