package booking

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"medconnect/models"
)

// Error codes carried by the typed booking errors.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeInvalidSlot       = "invalid_slot"
	CodeSlotConflict      = "slot_conflict"
	CodeInvalidTransition = "invalid_transition"
	CodeInvalidState      = "invalid_state"
	CodeForbidden         = "forbidden"
)

// CodedError is implemented by every error the booking service returns on purpose.
type CodedError interface {
	error
	Code() string
	HTTPStatus() int
}

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
func (e *ValidationError) Code() string    { return CodeValidation }
func (e *ValidationError) HTTPStatus() int { return http.StatusBadRequest }

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.ID)
}
func (e *NotFoundError) Code() string    { return CodeNotFound }
func (e *NotFoundError) HTTPStatus() int { return http.StatusNotFound }

type InvalidSlotError struct {
	StartTime string
	Reason    string
}

func (e *InvalidSlotError) Error() string {
	return fmt.Sprintf("slot %q is not bookable: %s", e.StartTime, e.Reason)
}
func (e *InvalidSlotError) Code() string    { return CodeInvalidSlot }
func (e *InvalidSlotError) HTTPStatus() int { return http.StatusUnprocessableEntity }

type SlotConflictError struct {
	ResourceID string
	Date       string
	StartTime  string
}

func (e *SlotConflictError) Error() string {
	return fmt.Sprintf("slot %s on %s is already booked", e.StartTime, e.Date)
}
func (e *SlotConflictError) Code() string    { return CodeSlotConflict }
func (e *SlotConflictError) HTTPStatus() int { return http.StatusConflict }

type InvalidTransitionError struct {
	From    string
	To      string
	Allowed []models.BookingStatus
}

func transitionError(kind models.BookingKind, from, to models.BookingStatus) *InvalidTransitionError {
	return &InvalidTransitionError{From: string(from), To: string(to), Allowed: models.AllowedTransitions(kind, from)}
}

func (e *InvalidTransitionError) Error() string {
	msg := fmt.Sprintf("cannot move booking from %q to %q", e.From, e.To)
	if len(e.Allowed) == 0 {
		return msg + "; no further changes allowed"
	}
	next := make([]string, len(e.Allowed))
	for i, st := range e.Allowed {
		next[i] = string(st)
	}
	return msg + "; allowed: " + strings.Join(next, ", ")
}
func (e *InvalidTransitionError) Code() string    { return CodeInvalidTransition }
func (e *InvalidTransitionError) HTTPStatus() int { return http.StatusConflict }

type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string   { return e.Message }
func (e *InvalidStateError) Code() string    { return CodeInvalidState }
func (e *InvalidStateError) HTTPStatus() int { return http.StatusUnprocessableEntity }

type ForbiddenError struct {
	Action string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("not allowed to %s", e.Action)
}
func (e *ForbiddenError) Code() string    { return CodeForbidden }
func (e *ForbiddenError) HTTPStatus() int { return http.StatusForbidden }

// AsCoded extracts the typed error from err, if any.
func AsCoded(err error) (CodedError, bool) {
	var coded CodedError
	if errors.As(err, &coded) {
		return coded, true
	}
	return nil, false
}
