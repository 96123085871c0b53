package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SCHEDULER_DRIVER", "SCHEDULER_DSN", "SCHEDULER_ADDR", "SCHEDULER_TIMEZONE", "LOG_LEVEL",
	"GOOGLE_CLIENT_ID", "GOOGLE_CLIENT_SECRET",
	"CALDAV_ENDPOINT", "CALDAV_USERNAME", "CALDAV_PASSWORD", "CALDAV_CALENDAR_NAME",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestConfigDefaults(t *testing.T) {
	clearEnv(t)

	c := &Config{}
	c.FromEnv()
	require.NoError(t, c.Validate())

	assert.Equal(t, DriverJSON, c.Driver)
	assert.Equal(t, "db.json", c.DSN)
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, "Local", c.Timezone)
	assert.Equal(t, "info", c.LogLevel)
	assert.False(t, c.HasCalDAV())
}

func TestConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCHEDULER_DRIVER", "SQLite")
	t.Setenv("SCHEDULER_TIMEZONE", "Europe/Stockholm")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CALDAV_ENDPOINT", "https://caldav.example.com/")
	t.Setenv("CALDAV_USERNAME", "me")
	t.Setenv("CALDAV_CALENDAR_NAME", "Work")

	c := &Config{}
	c.FromEnv()
	require.NoError(t, c.Validate())

	assert.Equal(t, DriverSQLite, c.Driver)
	assert.Equal(t, "scheduler.db", c.DSN)
	assert.Equal(t, "debug", c.LogLevel)
	assert.True(t, c.HasCalDAV())

	loc, err := c.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Stockholm", loc.String())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"postgres without dsn", Config{Driver: DriverPostgres, Timezone: "UTC"}, true},
		{"postgres with dsn", Config{Driver: DriverPostgres, DSN: "postgres://localhost/scheduler", Timezone: "UTC"}, false},
		{"unknown driver", Config{Driver: "tinydb", Timezone: "UTC"}, true},
		{"bad timezone", Config{Driver: DriverJSON, Timezone: "Mars/Olympus"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.config
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	// godotenv does not override variables already present in the environment.
	os.Unsetenv("SCHEDULER_DSN")
	os.Unsetenv("SCHEDULER_ADDR")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SCHEDULER_DSN=/tmp/entries.json\nSCHEDULER_ADDR=:9090\n"), 0644))
	t.Cleanup(func() {
		os.Unsetenv("SCHEDULER_DSN")
		os.Unsetenv("SCHEDULER_ADDR")
	})

	c := Load(path)
	assert.Equal(t, "/tmp/entries.json", c.DSN)
	assert.Equal(t, ":9090", c.Addr)
}
