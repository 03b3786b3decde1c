package notification

import (
	"context"

	"medconnect/models"
)

// Inbox stores in-app notifications.
type Inbox interface {
	Notify(ctx context.Context, recipientID, notifType, title, message, relatedID string) error
	List(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID string) error
}

// EmailSender delivers a rendered HTML email.
type EmailSender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// PushSender delivers a device push notification.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}

// Recipients resolves the people an event concerns.
type Recipients interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	GetMedicalTest(ctx context.Context, id string) (*models.MedicalTest, error)
}

// Presence reports whether a user currently holds a live realtime connection.
type Presence interface {
	Online(ctx context.Context, userID string) bool
}
