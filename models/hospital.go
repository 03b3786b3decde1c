package models

import "time"

type Hospital struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name" binding:"required"`
	Address   string    `bson:"address" json:"address"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// MedicalTest is a bookable diagnostic offered by a hospital.
type MedicalTest struct {
	ID          string    `bson:"id" json:"id"`
	HospitalID  string    `bson:"hospitalId" json:"hospitalId" binding:"required"`
	Name        string    `bson:"name" json:"name" binding:"required"`
	Price       float64   `bson:"price" json:"price"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}
