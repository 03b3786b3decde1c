package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"medconnect/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.uber.org/zap"
)

// StripePaymentHandler creates Stripe PaymentIntents for online bookings.
type StripePaymentHandler struct {
	logger    *zap.Logger
	newIntent func(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// NewStripePaymentHandler builds a handler bound to the given secret key.
func NewStripePaymentHandler(secretKey string, logger *zap.Logger) *StripePaymentHandler {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripePaymentHandler{
		logger:    logger,
		newIntent: sc.PaymentIntents.New,
	}
}

// CreateIntent validates the request and creates a PaymentIntent with automatic payment methods.
func (h *StripePaymentHandler) CreateIntent(ctx context.Context, req models.PaymentRequest) (*models.Invoice, error) {
	if err := validateRequest(req); err != nil {
		return nil, fmt.Errorf("invalid payment request: %w", err)
	}

	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(toMinorUnits(req.Amount)),
		Currency:    stripe.String(strings.ToLower(req.Currency)),
		Description: stripe.String(req.Description),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	if req.Idempotency != "" {
		params.SetIdempotencyKey(req.Idempotency)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := h.newIntent(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent: %w", err)
	}

	inv := &models.Invoice{
		InvoiceID:    uuid.New().String(),
		BookingID:    req.BookingID,
		Amount:       req.Amount,
		Currency:     req.Currency,
		Status:       string(pi.Status),
		PaymentID:    pi.ID,
		ClientSecret: pi.ClientSecret,
		CreatedAt:    time.Now().UTC(),
	}
	h.logger.Info("Payment intent created",
		zap.String("bookingId", req.BookingID),
		zap.String("paymentIntent", pi.ID),
	)
	return inv, nil
}

// toMinorUnits converts an amount to the currency's smallest unit.
func toMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func validateRequest(req models.PaymentRequest) error {
	if req.Amount <= 0 {
		return errors.New("invalid payment amount")
	}
	if req.UserID == "" {
		return errors.New("missing user ID")
	}
	if req.BookingID == "" {
		return errors.New("missing booking ID")
	}
	if len(req.Currency) != 3 {
		return errors.New("currency must be an ISO 4217 code")
	}
	return nil
}
