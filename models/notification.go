package models

import "time"

// Notification is an in-app inbox record.
type Notification struct {
	ID          string    `bson:"id" json:"id"`
	RecipientID string    `bson:"recipientId" json:"recipientId"`
	Type        string    `bson:"type" json:"type"`
	Title       string    `bson:"title" json:"title"`
	Message     string    `bson:"message" json:"message"`
	RelatedID   string    `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
	Read        bool      `bson:"read" json:"read"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}
