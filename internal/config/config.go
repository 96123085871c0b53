// Package config holds the runtime configuration of the scheduler.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	// Embedded zone database so SCHEDULER_TIMEZONE resolves on hosts without one.
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

const (
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is read from the environment, optionally seeded from a .env file.
type Config struct {
	// Driver selects the record store: json, sqlite or postgres
	Driver string
	// DSN is the store location: a file path for json and sqlite, a connection string for postgres
	DSN string
	// Addr is the listen address of the HTTP API
	Addr string
	// Timezone is the wall clock used to convert zoned calendar data to naive times
	Timezone string
	// LogLevel is one of debug, info, warn, error
	LogLevel string

	GoogleClientID     string // GOOGLE_CLIENT_ID
	GoogleClientSecret string // GOOGLE_CLIENT_SECRET

	CalDAVEndpoint     string // CALDAV_ENDPOINT
	CalDAVUsername     string // CALDAV_USERNAME
	CalDAVPassword     string // CALDAV_PASSWORD
	CalDAVCalendarName string // CALDAV_CALENDAR_NAME
}

// Load reads .env files when present and then the environment.
func Load(filenames ...string) *Config {
	// A missing .env file is not an error.
	_ = godotenv.Load(filenames...)

	c := &Config{}
	c.FromEnv()
	return c
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv fills the config from environment variables.
func (c *Config) FromEnv() {
	c.Driver = strings.ToLower(getEnvOrDefault("SCHEDULER_DRIVER", DriverJSON))
	c.DSN = os.Getenv("SCHEDULER_DSN")
	c.Addr = getEnvOrDefault("SCHEDULER_ADDR", ":8080")
	c.Timezone = getEnvOrDefault("SCHEDULER_TIMEZONE", "Local")
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")

	c.GoogleClientID = os.Getenv("GOOGLE_CLIENT_ID")
	c.GoogleClientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")

	c.CalDAVEndpoint = os.Getenv("CALDAV_ENDPOINT")
	c.CalDAVUsername = os.Getenv("CALDAV_USERNAME")
	c.CalDAVPassword = os.Getenv("CALDAV_PASSWORD")
	c.CalDAVCalendarName = os.Getenv("CALDAV_CALENDAR_NAME")
}

// Validate checks the driver and fills in its default DSN.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverJSON:
		if c.DSN == "" {
			c.DSN = "db.json"
		}
	case DriverSQLite:
		if c.DSN == "" {
			c.DSN = "scheduler.db"
		}
	case DriverPostgres:
		if c.DSN == "" {
			return fmt.Errorf("SCHEDULER_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown driver %q: use json, sqlite or postgres", c.Driver)
	}

	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", c.Timezone, err)
	}
	return loc, nil
}

// HasCalDAV reports whether a CalDAV calendar is configured.
func (c *Config) HasCalDAV() bool {
	return c.CalDAVEndpoint != "" && c.CalDAVUsername != "" && c.CalDAVCalendarName != ""
}
