package slots

import (
	"fmt"

	"medconnect/config"
	"medconnect/models"
)

// Configs holds the day layout for each booking kind.
type Configs struct {
	Appointment models.SlotConfig
	Test        models.SlotConfig
}

// For returns the layout used for kind.
func (c Configs) For(kind models.BookingKind) models.SlotConfig {
	if kind == models.KindTest {
		return c.Test
	}
	return c.Appointment
}

// FromAppConfig builds and validates the slot layouts from loaded configuration.
func FromAppConfig(cfg config.Config) (Configs, error) {
	apptBreaks, err := ParseBreaks(cfg.SlotsBreaks)
	if err != nil {
		return Configs{}, fmt.Errorf("appointment slots: %w", err)
	}
	testBreaks, err := ParseBreaks(cfg.TestSlotsBreaks)
	if err != nil {
		return Configs{}, fmt.Errorf("test slots: %w", err)
	}

	out := Configs{
		Appointment: models.SlotConfig{
			OpenTime:    cfg.SlotsOpenTime,
			CloseTime:   cfg.SlotsCloseTime,
			SlotMinutes: cfg.SlotsMinutes,
			Breaks:      apptBreaks,
		},
		Test: models.SlotConfig{
			OpenTime:    cfg.TestSlotsOpen,
			CloseTime:   cfg.TestSlotsClose,
			SlotMinutes: cfg.TestSlotsMinute,
			Breaks:      testBreaks,
		},
	}
	if _, err := Generate(out.Appointment); err != nil {
		return Configs{}, fmt.Errorf("appointment slots: %w", err)
	}
	if _, err := Generate(out.Test); err != nil {
		return Configs{}, fmt.Errorf("test slots: %w", err)
	}
	return out, nil
}
