package models

import "time"

// BookingKind distinguishes doctor appointments from hospital test bookings.
type BookingKind string

const (
	KindAppointment BookingKind = "appointment"
	KindTest        BookingKind = "test"
)

// Valid reports whether k is a known kind.
func (k BookingKind) Valid() bool {
	return k == KindAppointment || k == KindTest
}

// Booking is the single persisted record for appointments and test bookings.
type Booking struct {
	ID              string           `bson:"id" json:"id"`
	Kind            BookingKind      `bson:"kind" json:"kind"`
	ResourceID      string           `bson:"resourceId" json:"resourceId"` // doctor id or medical test id
	ConsumerID      string           `bson:"consumerId" json:"consumerId"` // patient user id
	HospitalID      string           `bson:"hospitalId" json:"hospitalId"`
	Date            string           `bson:"date" json:"date"`           // "YYYY-MM-DD", UTC calendar day
	StartTime       string           `bson:"startTime" json:"startTime"` // "H:MM"
	EndTime         string           `bson:"endTime" json:"endTime"`
	Status          BookingStatus    `bson:"status" json:"status"`
	HoldsSlot       bool             `bson:"holdsSlot" json:"holdsSlot"`
	Reason          string           `bson:"reason,omitempty" json:"reason,omitempty"`
	PaymentMethod   PaymentMethod    `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   PaymentStatus    `bson:"paymentStatus" json:"paymentStatus"`
	PaymentIntentID string           `bson:"paymentIntentId,omitempty" json:"paymentIntentId,omitempty"`
	RejectionReason *string          `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	RescheduledFrom *RescheduledFrom `bson:"rescheduledFrom,omitempty" json:"rescheduledFrom,omitempty"`
	CreatedAt       time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time        `bson:"updatedAt" json:"updatedAt"`
}

// RescheduledFrom records the slot a booking held before its last reschedule.
type RescheduledFrom struct {
	Date      string `bson:"date" json:"date"`
	StartTime string `bson:"startTime" json:"startTime"`
}

// BookingFilter narrows ListBookings. Empty fields are ignored.
type BookingFilter struct {
	Kind       BookingKind
	ConsumerID string
	ResourceID string
	HospitalID string
	Status     BookingStatus
	Date       string
	Limit      int64
}

// AppointmentRequest is the input to CreateAppointment.
type AppointmentRequest struct {
	ConsumerID    string `json:"consumerId"`
	DoctorID      string `json:"doctorId" binding:"required"`
	HospitalID    string `json:"hospitalId" binding:"required"`
	Date          string `json:"date" binding:"required"`
	StartTime     string `json:"startTime" binding:"required"`
	Reason        string `json:"reason" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// TestBookingRequest is the input to CreateTestBooking.
type TestBookingRequest struct {
	ConsumerID    string `json:"consumerId"`
	TestID        string `json:"testId" binding:"required"`
	HospitalID    string `json:"hospitalId" binding:"required"`
	Date          string `json:"date" binding:"required"`
	StartTime     string `json:"startTime" binding:"required"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

// BookingResult is returned by the create operations.
type BookingResult struct {
	Booking         *Booking `json:"booking"`
	PaymentRequired bool     `json:"paymentRequired"`
	ClientSecret    string   `json:"clientSecret,omitempty"`
}
