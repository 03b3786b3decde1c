package models

import "time"

// EventType names a lifecycle event. Values double as broker routing keys.
type EventType string

const (
	EventBookingCreated     EventType = "booking.created"
	EventBookingStatus      EventType = "booking.status_changed"
	EventBookingRescheduled EventType = "booking.rescheduled"
	EventBookingPayment     EventType = "booking.payment_updated"
)

// LifecycleEvent is handed to the fan-out after a successful write.
type LifecycleEvent struct {
	Type           EventType     `json:"type"`
	Booking        Booking       `json:"booking"`
	PreviousStatus BookingStatus `json:"previousStatus,omitempty"`
	Actor          string        `json:"actor,omitempty"`
	OccurredAt     time.Time     `json:"occurredAt"`
}
