package models

// BookingStatus is a lifecycle state. The set of valid values depends on the BookingKind.
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusRescheduled BookingStatus = "rescheduled"
	StatusCompleted   BookingStatus = "completed"
	StatusCanceled    BookingStatus = "canceled" // appointments
	StatusBooked      BookingStatus = "booked"
	StatusCancelled   BookingStatus = "cancelled" // test bookings
)

var transitions = map[BookingKind]map[BookingStatus][]BookingStatus{
	KindAppointment: {
		StatusPending:     {StatusConfirmed, StatusCanceled},
		StatusConfirmed:   {StatusCompleted, StatusCanceled},
		StatusRescheduled: {StatusConfirmed, StatusCompleted, StatusCanceled},
		StatusCompleted:   nil,
		StatusCanceled:    nil,
	},
	KindTest: {
		StatusPending:   {StatusBooked, StatusCancelled},
		StatusBooked:    {StatusCompleted, StatusCancelled},
		StatusCompleted: nil,
		StatusCancelled: nil,
	},
}

// ValidFor reports whether s is a status of the given kind.
func (s BookingStatus) ValidFor(kind BookingKind) bool {
	table, ok := transitions[kind]
	if !ok {
		return false
	}
	_, ok = table[s]
	return ok
}

// CanTransition reports whether from -> to is allowed for kind.
func CanTransition(kind BookingKind, from, to BookingStatus) bool {
	for _, next := range transitions[kind][from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions lists the targets reachable from the given status.
func AllowedTransitions(kind BookingKind, from BookingStatus) []BookingStatus {
	out := make([]BookingStatus, len(transitions[kind][from]))
	copy(out, transitions[kind][from])
	return out
}

// IsCancel reports whether s is the canceled state of either kind.
func (s BookingStatus) IsCancel() bool {
	return s == StatusCanceled || s == StatusCancelled
}

// HoldsSlot is true for every status except the canceled ones.
func (s BookingStatus) HoldsSlot() bool {
	return s != "" && !s.IsCancel()
}

// IsClaiming reports whether s reserves a future slot (not finalized, not canceled).
func (s BookingStatus) IsClaiming() bool {
	return s.HoldsSlot() && s != StatusCompleted
}

// InitialStatus is the status a freshly created booking starts in.
func InitialStatus(kind BookingKind, method PaymentMethod) BookingStatus {
	if kind == KindTest && method == PaymentCash {
		return StatusBooked
	}
	return StatusPending
}
