package models

// Break is an unbookable window inside business hours.
type Break struct {
	Start   string `json:"start"` // "H:MM"
	Minutes int    `json:"minutes"`
}

// SlotConfig describes a business day.
type SlotConfig struct {
	OpenTime    string  `json:"openTime"`
	CloseTime   string  `json:"closeTime"`
	SlotMinutes int     `json:"slotMinutes"`
	Breaks      []Break `json:"breaks"`
}

// SlotsResponse is returned by the slot lookup endpoints.
type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}
