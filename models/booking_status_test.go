package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentTransitions(t *testing.T) {
	cases := []struct {
		from, to BookingStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCanceled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusConfirmed, StatusPending, false},
		{StatusRescheduled, StatusConfirmed, true},
		{StatusRescheduled, StatusCompleted, true},
		{StatusRescheduled, StatusCanceled, true},
		{StatusCompleted, StatusCanceled, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusPending, StatusCancelled, false},
		{StatusPending, StatusBooked, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(KindAppointment, tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTestBookingTransitions(t *testing.T) {
	assert.True(t, CanTransition(KindTest, StatusPending, StatusBooked))
	assert.True(t, CanTransition(KindTest, StatusPending, StatusCancelled))
	assert.True(t, CanTransition(KindTest, StatusBooked, StatusCompleted))
	assert.True(t, CanTransition(KindTest, StatusBooked, StatusCancelled))
	assert.False(t, CanTransition(KindTest, StatusBooked, StatusCanceled))
	assert.False(t, CanTransition(KindTest, StatusPending, StatusConfirmed))
	assert.False(t, CanTransition(KindTest, StatusCompleted, StatusCancelled))
}

func TestAllowedTransitions(t *testing.T) {
	assert.Equal(t, []BookingStatus{StatusCompleted, StatusCancelled}, AllowedTransitions(KindTest, StatusBooked))
	assert.Empty(t, AllowedTransitions(KindAppointment, StatusCompleted))
	assert.Empty(t, AllowedTransitions(KindTest, StatusRescheduled))

	got := AllowedTransitions(KindAppointment, StatusPending)
	got[0] = StatusCompleted
	assert.True(t, CanTransition(KindAppointment, StatusPending, StatusConfirmed), "callers get a copy")
}

func TestStatusKindMembership(t *testing.T) {
	assert.True(t, StatusRescheduled.ValidFor(KindAppointment))
	assert.False(t, StatusRescheduled.ValidFor(KindTest))
	assert.True(t, StatusBooked.ValidFor(KindTest))
	assert.False(t, StatusBooked.ValidFor(KindAppointment))
	assert.False(t, BookingStatus("archived").ValidFor(KindAppointment))
}

func TestSlotHolding(t *testing.T) {
	assert.True(t, StatusPending.HoldsSlot())
	assert.True(t, StatusCompleted.HoldsSlot())
	assert.False(t, StatusCanceled.HoldsSlot())
	assert.False(t, StatusCancelled.HoldsSlot())

	assert.True(t, StatusRescheduled.IsClaiming())
	assert.True(t, StatusBooked.IsClaiming())
	assert.False(t, StatusCompleted.IsClaiming())
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, StatusPending, InitialStatus(KindAppointment, PaymentCash))
	assert.Equal(t, StatusPending, InitialStatus(KindAppointment, PaymentOnline))
	assert.Equal(t, StatusBooked, InitialStatus(KindTest, PaymentCash))
	assert.Equal(t, StatusPending, InitialStatus(KindTest, PaymentOnline))
}
