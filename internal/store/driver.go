// Package store defines the persistence contract for users and busy entries.
package store

import (
	"context"

	"scheduler/internal/models"
)

// Driver is implemented by every record store.
// Inserts append; the same record inserted twice is stored twice.
type Driver interface {
	InsertUsers(ctx context.Context, users []models.User) error
	InsertBusyEntries(ctx context.Context, entries []models.BusyEntry) error

	ListUsers(ctx context.Context, find *FindUser) ([]models.User, error)
	ListBusyEntries(ctx context.Context, find *FindBusyEntry) ([]models.BusyEntry, error)

	// Purge removes every record from both tables.
	Purge(ctx context.Context) error
	Count(ctx context.Context) (*Stats, error)

	Close() error
}

// FindUser filters users. A nil field matches everything.
type FindUser struct {
	ID *int
}

// FindBusyEntry filters busy entries by the user they belong to.
type FindBusyEntry struct {
	ID *int
}

// Stats holds table sizes.
type Stats struct {
	Users       int `json:"users"`
	BusyEntries int `json:"busy_entries"`
}
