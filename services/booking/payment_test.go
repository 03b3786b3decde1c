package booking

import (
	"context"
	"testing"

	"medconnect/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

func TestStripeCreateIntent(t *testing.T) {
	var captured *stripe.PaymentIntentParams
	h := &StripePaymentHandler{
		logger: zap.NewNop(),
		newIntent: func(p *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			captured = p
			return &stripe.PaymentIntent{ID: "pi_1", ClientSecret: "pi_1_secret", Status: stripe.PaymentIntentStatusRequiresPaymentMethod}, nil
		},
	}

	inv, err := h.CreateIntent(context.Background(), models.PaymentRequest{
		BookingID: "b-1", UserID: "u-1", Amount: 25.5, Currency: "USD",
		Idempotency: "booking-b-1", Metadata: map[string]string{"bookingId": "b-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_1", inv.PaymentID)
	assert.Equal(t, "pi_1_secret", inv.ClientSecret)
	assert.Equal(t, "requires_payment_method", inv.Status)

	require.NotNil(t, captured)
	assert.Equal(t, int64(2550), *captured.Amount)
	assert.Equal(t, "usd", *captured.Currency)
	assert.Equal(t, "booking-b-1", *captured.IdempotencyKey)
	assert.Equal(t, "b-1", captured.Metadata["bookingId"])
}

func TestStripeCreateIntentValidates(t *testing.T) {
	h := &StripePaymentHandler{
		logger: zap.NewNop(),
		newIntent: func(*stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
			t.Fatal("gateway must not be called")
			return nil, nil
		},
	}

	bad := []models.PaymentRequest{
		{BookingID: "b", UserID: "u", Amount: 0, Currency: "usd"},
		{BookingID: "b", UserID: "", Amount: 10, Currency: "usd"},
		{BookingID: "", UserID: "u", Amount: 10, Currency: "usd"},
		{BookingID: "b", UserID: "u", Amount: 10, Currency: "dollars"},
	}
	for _, req := range bad {
		_, err := h.CreateIntent(context.Background(), req)
		assert.Error(t, err)
	}
}

func TestCodedErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&ValidationError{Field: "date"}, 400, CodeValidation},
		{&NotFoundError{Entity: "doctor"}, 404, CodeNotFound},
		{&InvalidSlotError{StartTime: "9:05"}, 422, CodeInvalidSlot},
		{&SlotConflictError{}, 409, CodeSlotConflict},
		{&InvalidTransitionError{}, 409, CodeInvalidTransition},
		{&InvalidStateError{}, 422, CodeInvalidState},
		{&ForbiddenError{}, 403, CodeForbidden},
	}
	for _, tc := range cases {
		coded, ok := AsCoded(tc.err)
		require.True(t, ok)
		assert.Equal(t, tc.status, coded.HTTPStatus())
		assert.Equal(t, tc.code, coded.Code())
	}

	_, ok := AsCoded(assert.AnError)
	assert.False(t, ok)
}
