package notificationRepo

import (
	"context"

	"medconnect/models"
)

type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error)
	// MarkRead flags a notification as read. Only the recipient may do so; other callers see repository.ErrNotFound.
	MarkRead(ctx context.Context, id, recipientID string) error
	EnsureIndexes(ctx context.Context) error
}
