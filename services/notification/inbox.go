package notification

import (
	"context"
	"errors"
	"time"

	"medconnect/database/repository"
	notificationRepo "medconnect/database/repository/notification"
	"medconnect/models"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned by MarkRead for unknown or foreign notifications.
var ErrNotificationNotFound = errors.New("notification not found")

// RepoInbox is the Inbox backed by the notifications collection.
type RepoInbox struct {
	Repo notificationRepo.NotificationRepository
	Now  func() time.Time
}

func NewRepoInbox(repo notificationRepo.NotificationRepository) *RepoInbox {
	return &RepoInbox{Repo: repo, Now: time.Now}
}

func (i *RepoInbox) Notify(ctx context.Context, recipientID, notifType, title, message, relatedID string) error {
	return i.Repo.Create(ctx, &models.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		RelatedID:   relatedID,
		CreatedAt:   i.Now().UTC(),
	})
}

func (i *RepoInbox) List(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	return i.Repo.ListByRecipient(ctx, recipientID, unreadOnly)
}

func (i *RepoInbox) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	err := i.Repo.MarkRead(ctx, notificationID, recipientID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}
