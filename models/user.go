// models/user.go
package models

import "time"

// Role gates what an authenticated caller may do.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	return r == RolePatient || r == RoleDoctor || r == RoleAdmin
}

// User represents a platform user.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	Email     string    `bson:"email" json:"email" binding:"required,email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Role      Role      `bson:"role" json:"role" binding:"required"`
	FCMToken  string    `bson:"fcmToken,omitempty" json:"fcmToken,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
