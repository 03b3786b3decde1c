package models

import "time"

// AvailabilityWindow is a recurring weekly window in which a doctor sees patients.
type AvailabilityWindow struct {
	DayOfWeek int    `bson:"dayOfWeek" json:"dayOfWeek"` // 0 = Sunday
	StartTime string `bson:"startTime" json:"startTime" binding:"required"`
	EndTime   string `bson:"endTime" json:"endTime" binding:"required"`
}

// Doctor is a bookable practitioner attached to a hospital.
type Doctor struct {
	ID             string               `bson:"id" json:"id"`
	UserID         string               `bson:"userId" json:"userId" binding:"required"`
	Name           string               `bson:"name" json:"name" binding:"required"`
	Specialization string               `bson:"specialization" json:"specialization"`
	HospitalID     string               `bson:"hospitalId" json:"hospitalId" binding:"required"`
	Fee            float64              `bson:"fee" json:"fee"`
	Availability   []AvailabilityWindow `bson:"availability,omitempty" json:"availability,omitempty"`
	CreatedAt      time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// WindowsFor returns the windows that apply to the given weekday.
func (d *Doctor) WindowsFor(weekday time.Weekday) []AvailabilityWindow {
	var out []AvailabilityWindow
	for _, w := range d.Availability {
		if w.DayOfWeek == int(weekday) {
			out = append(out, w)
		}
	}
	return out
}
