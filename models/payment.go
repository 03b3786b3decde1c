package models

import "time"

// PaymentMethod is how the consumer intends to pay.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentOnline
}

// PaymentStatus tracks settlement of a booking.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// PaymentRequest asks the payment gateway for an intent.
type PaymentRequest struct {
	BookingID   string
	UserID      string
	Amount      float64
	Currency    string
	Idempotency string
	Metadata    map[string]string
	Description string
}

// Invoice is what the gateway hands back for a created intent.
type Invoice struct {
	InvoiceID    string    `bson:"invoiceId" json:"invoiceId"`
	BookingID    string    `bson:"bookingId" json:"bookingId"`
	Amount       float64   `bson:"amount" json:"amount"`
	Currency     string    `bson:"currency" json:"currency"`
	Status       string    `bson:"status" json:"status"`
	PaymentID    string    `bson:"paymentId" json:"paymentId"`
	ClientSecret string    `bson:"-" json:"clientSecret,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
