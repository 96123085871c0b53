package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduler/internal/models"
	"scheduler/internal/store"
)

// newTestDB connects to SCHEDULER_TEST_POSTGRES_DSN and skips the test when it is unset.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("SCHEDULER_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SCHEDULER_TEST_POSTGRES_DSN not set")
	}

	db, err := NewDB(context.Background(), dsn)
	require.NoError(t, err)
	require.NoError(t, db.Purge(context.Background()))
	t.Cleanup(func() {
		_ = db.Purge(context.Background())
		db.Close()
	})
	return db
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", placeholder(1))
	assert.Equal(t, "$12", placeholder(12))
}

func TestDB_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, db.InsertUsers(ctx, []models.User{{ID: 1, Name: "alice"}, {ID: 2, Name: "bob"}}))
	require.NoError(t, db.InsertBusyEntries(ctx, []models.BusyEntry{
		{ID: 1, StartTime: "2015-03-13 08:00", EndTime: "2015-03-13 09:00"},
		{ID: 2, StartTime: "2015-03-13 10:00", EndTime: "2015-03-13 11:00"},
	}))

	id := 1
	users, err := db.ListUsers(ctx, &store.FindUser{ID: &id})
	require.NoError(t, err)
	assert.Equal(t, []models.User{{ID: 1, Name: "alice"}}, users)

	busy, err := db.ListBusyEntries(ctx, &store.FindBusyEntry{ID: &id})
	require.NoError(t, err)
	assert.Equal(t, []models.BusyEntry{{ID: 1, StartTime: "2015-03-13 08:00", EndTime: "2015-03-13 09:00"}}, busy)

	stats, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, &store.Stats{Users: 2, BusyEntries: 2}, stats)

	require.NoError(t, db.Purge(ctx))
	stats, err = db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, &store.Stats{}, stats)
}
