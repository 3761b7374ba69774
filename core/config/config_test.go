package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "America/Detroit", cfg.Rules.Timezone)
	assert.Equal(t, "16:00", cfg.Rules.CheckIn)
	assert.Equal(t, 2, cfg.Rules.PostActivityBufferHours)
	assert.Equal(t, "1-hr buffer", cfg.Rules.BufferLocation)
	assert.Equal(t, "Block on Airbnb", cfg.Calendar.Blocks)
	assert.Equal(t, 90, cfg.Calendar.SweepWindowDays)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "calendar-feeds", cfg.Storage.Bucket)
	assert.False(t, cfg.Feed.Enabled)
	assert.Equal(t, "blocks.ics", cfg.Feed.Object)
}

func TestLoadConfig_EnvFile(t *testing.T) {
	dir := t.TempDir()
	for _, k := range []string{"CALENDAR_DRIVER", "RULES_TIMEZONE", "FEED_ENABLED", "SERVER_API_KEY"} {
		t.Setenv(k, "")
	}
	env := "CALENDAR_DRIVER=memory\nRULES_TIMEZONE=America/New_York\nFEED_ENABLED=true\nSERVER_API_KEY=secret\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Calendar.Driver)
	assert.Equal(t, "America/New_York", cfg.Rules.Timezone)
	assert.True(t, cfg.Feed.Enabled)
	assert.Equal(t, "secret", cfg.Server.ApiKey)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"UnknownDriver", "CALENDAR_DRIVER", "outlook"},
		{"BadTimezone", "RULES_TIMEZONE", "Mars/Olympus"},
		{"BadCheckIn", "RULES_CHECK_IN", "4pm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := LoadConfig(t.TempDir())
			assert.Error(t, err)
		})
	}
}
