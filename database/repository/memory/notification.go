package memory

import (
	"context"
	"sort"
	"sync"

	"medconnect/database/repository"
	notificationRepo "medconnect/database/repository/notification"
	"medconnect/models"
)

type NotificationRepo struct {
	mu    sync.Mutex
	items map[string]models.Notification
}

var _ notificationRepo.NotificationRepository = (*NotificationRepo)(nil)

func NewNotificationRepo() *NotificationRepo {
	return &NotificationRepo{items: make(map[string]models.Notification)}
}

func (r *NotificationRepo) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[n.ID]; ok {
		return repository.ErrDuplicate
	}
	r.items[n.ID] = *n
	return nil
}

func (r *NotificationRepo) ListByRecipient(_ context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Notification{}
	for _, n := range r.items {
		if n.RecipientID != recipientID || unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id, recipientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok || n.RecipientID != recipientID {
		return repository.ErrNotFound
	}
	n.Read = true
	r.items[id] = n
	return nil
}

func (r *NotificationRepo) EnsureIndexes(context.Context) error { return nil }
