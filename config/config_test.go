package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "medconnect", cfg.DatabaseName)
	assert.Equal(t, "9:00", cfg.SlotsOpenTime)
	assert.Equal(t, "17:00", cfg.SlotsCloseTime)
	assert.Equal(t, 20, cfg.SlotsMinutes)
	assert.Equal(t, "11:00/10,13:00/60,15:30/10", cfg.SlotsBreaks)
	assert.Equal(t, 24*time.Hour, cfg.ReminderLeadTime)
}

func TestLocationFallsBackToUTC(t *testing.T) {
	prev := AppConfig
	defer func() { AppConfig = prev }()

	AppConfig.Timezone = "Not/AZone"
	assert.Equal(t, time.UTC, Location())

	AppConfig.Timezone = ""
	assert.Equal(t, time.UTC, Location())
}
