package notification

import (
	"fmt"
	"html"
	"strings"

	"medconnect/models"
)

// Notification types stored in the inbox and sent as push data.
const (
	TypeBookingCreated     = "booking_created"
	TypeBookingStatus      = "booking_status"
	TypeBookingRescheduled = "booking_rescheduled"
	TypeBookingPayment     = "booking_payment"
	TypeBookingReminder    = "booking_reminder"
)

// Content is one rendered message for one recipient.
type Content struct {
	Type    string
	Title   string
	Message string
}

func subjectOf(b models.Booking, resourceName string) string {
	if resourceName == "" {
		if b.Kind == models.KindTest {
			return "your test"
		}
		return "your appointment"
	}
	if b.Kind == models.KindTest {
		return fmt.Sprintf("your %s test", resourceName)
	}
	return fmt.Sprintf("your appointment with %s", resourceName)
}

func when(b models.Booking) string {
	return fmt.Sprintf("%s at %s", b.Date, b.StartTime)
}

// consumerContent renders the message the patient receives for an event.
func consumerContent(ev models.LifecycleEvent, resourceName string) Content {
	b := ev.Booking
	what := subjectOf(b, resourceName)
	switch ev.Type {
	case models.EventBookingCreated:
		return Content{
			Type:    TypeBookingCreated,
			Title:   "Booking received",
			Message: fmt.Sprintf("We received %s on %s. Current status: %s.", what, when(b), b.Status),
		}
	case models.EventBookingRescheduled:
		return Content{
			Type:    TypeBookingRescheduled,
			Title:   "Booking rescheduled",
			Message: fmt.Sprintf("%s has moved to %s.", capitalize(what), when(b)),
		}
	case models.EventBookingPayment:
		return Content{
			Type:    TypeBookingPayment,
			Title:   "Payment update",
			Message: fmt.Sprintf("Payment for %s on %s is now %s.", what, when(b), b.PaymentStatus),
		}
	}
	return statusContent(b, what)
}

func statusContent(b models.Booking, what string) Content {
	c := Content{Type: TypeBookingStatus}
	switch b.Status {
	case models.StatusConfirmed:
		c.Title = "Appointment confirmed"
		c.Message = fmt.Sprintf("%s on %s is confirmed.", capitalize(what), when(b))
	case models.StatusBooked:
		c.Title = "Test booked"
		c.Message = fmt.Sprintf("%s on %s is booked.", capitalize(what), when(b))
	case models.StatusCompleted:
		c.Title = "Visit completed"
		c.Message = fmt.Sprintf("%s on %s is marked completed. Thank you.", capitalize(what), when(b))
	case models.StatusCanceled, models.StatusCancelled:
		c.Title = "Booking canceled"
		c.Message = fmt.Sprintf("%s on %s was canceled.", capitalize(what), when(b))
		if b.RejectionReason != nil && *b.RejectionReason != "" {
			c.Message += " Reason: " + *b.RejectionReason
		}
	default:
		c.Title = "Booking updated"
		c.Message = fmt.Sprintf("%s on %s is now %s.", capitalize(what), when(b), b.Status)
	}
	return c
}

// doctorContent renders the message for the doctor owning an appointment. ok is false
// when the event is not worth telling the doctor about.
func doctorContent(ev models.LifecycleEvent, patientName string) (Content, bool) {
	b := ev.Booking
	if patientName == "" {
		patientName = "A patient"
	}
	switch ev.Type {
	case models.EventBookingCreated:
		return Content{
			Type:    TypeBookingCreated,
			Title:   "New appointment request",
			Message: fmt.Sprintf("%s requested an appointment on %s.", patientName, when(b)),
		}, true
	case models.EventBookingRescheduled:
		return Content{
			Type:    TypeBookingRescheduled,
			Title:   "Appointment rescheduled",
			Message: fmt.Sprintf("An appointment with %s moved to %s.", patientName, when(b)),
		}, true
	case models.EventBookingStatus:
		if b.Status.IsCancel() && ev.Actor == b.ConsumerID {
			return Content{
				Type:    TypeBookingStatus,
				Title:   "Appointment canceled",
				Message: fmt.Sprintf("%s canceled the appointment on %s.", patientName, when(b)),
			}, true
		}
	}
	return Content{}, false
}

// ReminderContent renders the pre-appointment reminder.
func ReminderContent(b models.Booking, resourceName string) Content {
	return Content{
		Type:    TypeBookingReminder,
		Title:   "Upcoming visit",
		Message: fmt.Sprintf("Reminder: %s is on %s.", subjectOf(b, resourceName), when(b)),
	}
}

// renderEmail wraps a message in a minimal HTML body.
func renderEmail(name string, c Content) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	if name != "" {
		fmt.Fprintf(&sb, "<p>Hello %s,</p>", html.EscapeString(name))
	}
	fmt.Fprintf(&sb, "<h2>%s</h2><p>%s</p>", html.EscapeString(c.Title), html.EscapeString(c.Message))
	sb.WriteString("<p>MedConnect</p></body></html>")
	return sb.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
