// Package slots turns a business day into its canonical sequence of bookable start times.
package slots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"medconnect/models"
)

var (
	ErrInvalidTime   = errors.New("invalid time of day")
	ErrInvalidConfig = errors.New("invalid slot configuration")
	ErrUnknownSlot   = errors.New("start time is not a canonical slot")
)

const minutesPerDay = 24 * 60

// Parse converts "H:MM" or "HH:MM" to minutes from midnight.
func Parse(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return hour*60 + minute, nil
}

// Format renders minutes from midnight as "H:MM" with no leading zero on the hour.
func Format(minutes int) string {
	return fmt.Sprintf("%d:%02d", minutes/60, minutes%60)
}

// Normalize re-renders a time string in canonical form, so "09:00" becomes "9:00".
func Normalize(s string) (string, error) {
	m, err := Parse(s)
	if err != nil {
		return "", err
	}
	return Format(m), nil
}

type window struct{ start, end int }

func (c window) overlaps(start, end int) bool {
	return start < c.end && c.start < end
}

// Generate produces the ordered slot start times for cfg.
// A slot that would overlap a break is not emitted; the cursor jumps to the break's end,
// which shifts every following slot.
func Generate(cfg models.SlotConfig) ([]string, error) {
	open, err := Parse(cfg.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: open time: %v", ErrInvalidConfig, err)
	}
	closing, err := Parse(cfg.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: close time: %v", ErrInvalidConfig, err)
	}
	if closing <= open {
		return nil, fmt.Errorf("%w: close time %s is not after open time %s", ErrInvalidConfig, cfg.CloseTime, cfg.OpenTime)
	}
	if cfg.SlotMinutes <= 0 {
		return nil, fmt.Errorf("%w: slot duration must be positive", ErrInvalidConfig)
	}

	breaks := make([]window, 0, len(cfg.Breaks))
	for _, b := range cfg.Breaks {
		start, err := Parse(b.Start)
		if err != nil {
			return nil, fmt.Errorf("%w: break: %v", ErrInvalidConfig, err)
		}
		if b.Minutes <= 0 {
			return nil, fmt.Errorf("%w: break at %s has no duration", ErrInvalidConfig, b.Start)
		}
		breaks = append(breaks, window{start: start, end: start + b.Minutes})
	}

	var out []string
	t := open
	for t+cfg.SlotMinutes <= closing {
		if b, hit := firstOverlap(breaks, t, t+cfg.SlotMinutes); hit {
			t = b.end
			continue
		}
		out = append(out, Format(t))
		t += cfg.SlotMinutes
	}
	return out, nil
}

// firstOverlap returns the overlapping break that ends latest so back-to-back breaks are skipped in one step.
func firstOverlap(breaks []window, start, end int) (window, bool) {
	var found window
	hit := false
	for _, b := range breaks {
		if b.overlaps(start, end) && (!hit || b.end > found.end) {
			found = b
			hit = true
		}
	}
	return found, hit
}

// Contains reports whether s is one of the slots in seq.
func Contains(seq []string, s string) bool {
	for _, v := range seq {
		if v == s {
			return true
		}
	}
	return false
}

// EndTime returns the end of the slot starting at start. The slot must be in seq.
func EndTime(seq []string, start string, slotMinutes int) (string, error) {
	if !Contains(seq, start) {
		return "", fmt.Errorf("%w: %s", ErrUnknownSlot, start)
	}
	m, err := Parse(start)
	if err != nil {
		return "", err
	}
	end := m + slotMinutes
	if end > minutesPerDay {
		end = minutesPerDay
	}
	return Format(end), nil
}

// Within reports whether the slot [start, start+slotMinutes) fits inside [windowStart, windowEnd].
func Within(start, windowStart, windowEnd string, slotMinutes int) bool {
	s, err := Parse(start)
	if err != nil {
		return false
	}
	ws, err := Parse(windowStart)
	if err != nil {
		return false
	}
	we, err := Parse(windowEnd)
	if err != nil {
		return false
	}
	return s >= ws && s+slotMinutes <= we
}

// Filter keeps the slots of seq for which keep returns true, preserving order.
func Filter(seq []string, keep func(string) bool) []string {
	out := make([]string, 0, len(seq))
	for _, s := range seq {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

// ParseBreaks reads a "H:MM/minutes,H:MM/minutes" list as used in configuration.
func ParseBreaks(raw string) ([]models.Break, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var out []models.Break
	for _, part := range strings.Split(raw, ",") {
		start, mins, ok := strings.Cut(strings.TrimSpace(part), "/")
		if !ok {
			return nil, fmt.Errorf("%w: break %q must look like H:MM/minutes", ErrInvalidConfig, part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(mins))
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%w: break %q has a bad duration", ErrInvalidConfig, part)
		}
		norm, err := Normalize(start)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		out = append(out, models.Break{Start: norm, Minutes: n})
	}
	return out, nil
}
