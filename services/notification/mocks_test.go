package notification

import (
	"context"
	"errors"

	"medconnect/models"

	"github.com/stretchr/testify/mock"
)

type mockRecipients struct {
	users   map[string]*models.User
	doctors map[string]*models.Doctor
	tests   map[string]*models.MedicalTest
}

var errMissing = errors.New("missing")

func (m *mockRecipients) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errMissing
}

func (m *mockRecipients) GetDoctor(_ context.Context, id string) (*models.Doctor, error) {
	if d, ok := m.doctors[id]; ok {
		return d, nil
	}
	return nil, errMissing
}

func (m *mockRecipients) GetMedicalTest(_ context.Context, id string) (*models.MedicalTest, error) {
	if t, ok := m.tests[id]; ok {
		return t, nil
	}
	return nil, errMissing
}

type mockInbox struct{ mock.Mock }

func (m *mockInbox) Notify(ctx context.Context, recipientID, notifType, title, message, relatedID string) error {
	return m.Called(recipientID, notifType, title, message, relatedID).Error(0)
}

func (m *mockInbox) List(ctx context.Context, recipientID string, unreadOnly bool) ([]models.Notification, error) {
	args := m.Called(recipientID, unreadOnly)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockInbox) MarkRead(ctx context.Context, recipientID, notificationID string) error {
	return m.Called(recipientID, notificationID).Error(0)
}

type mockEmail struct{ mock.Mock }

func (m *mockEmail) Send(ctx context.Context, to, subject, html string) error {
	return m.Called(to, subject, html).Error(0)
}

type mockPush struct{ mock.Mock }

func (m *mockPush) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	return m.Called(token, title, body, data).Error(0)
}

type mockEmitter struct{ mock.Mock }

func (m *mockEmitter) Emit(ctx context.Context, room, event string, payload any) error {
	return m.Called(room, event, payload).Error(0)
}

type mockBroker struct{ mock.Mock }

func (m *mockBroker) Publish(ctx context.Context, routingKey string, payload any) error {
	return m.Called(routingKey, payload).Error(0)
}

func (m *mockBroker) Close() error { return nil }

type stubPresence map[string]bool

func (p stubPresence) Online(_ context.Context, userID string) bool { return p[userID] }
