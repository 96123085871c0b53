// Package sqlite is the embedded SQL record store, backed by the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"scheduler/internal/models"
	"scheduler/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	row_id INTEGER PRIMARY KEY AUTOINCREMENT,
	id     INTEGER NOT NULL,
	name   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_id ON users (id);
CREATE TABLE IF NOT EXISTS busy (
	row_id     INTEGER PRIMARY KEY AUTOINCREMENT,
	id         INTEGER NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_busy_id ON busy (id);
`

type DB struct {
	db *sql.DB
}

var _ store.Driver = (*DB)(nil)

// NewDB opens the database file at dsn and creates the tables if needed.
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}
	if !strings.Contains(dsn, "?") {
		dsn += "?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)"
	}

	sqliteDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", dsn)
	}
	// A single connection serializes writers; SQLite allows only one at a time anyway.
	sqliteDB.SetMaxOpenConns(1)

	if _, err := sqliteDB.ExecContext(ctx, schema); err != nil {
		sqliteDB.Close()
		return nil, errors.Wrap(err, "failed to migrate schema")
	}

	return &DB{db: sqliteDB}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) InsertUsers(ctx context.Context, users []models.User) error {
	return d.insertMany(ctx, `INSERT INTO users (id, name) VALUES (?, ?)`, len(users), func(i int) []any {
		return []any{users[i].ID, users[i].Name}
	})
}

func (d *DB) InsertBusyEntries(ctx context.Context, entries []models.BusyEntry) error {
	return d.insertMany(ctx, `INSERT INTO busy (id, start_time, end_time) VALUES (?, ?, ?)`, len(entries), func(i int) []any {
		return []any{entries[i].ID, entries[i].StartTime, entries[i].EndTime}
	})
}

func (d *DB) insertMany(ctx context.Context, stmt string, n int, args func(i int) []any) error {
	if n == 0 {
		return nil
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	prepared, err := tx.PrepareContext(ctx, stmt)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer prepared.Close()

	for i := 0; i < n; i++ {
		if _, err := prepared.ExecContext(ctx, args(i)...); err != nil {
			return errors.Wrapf(err, "failed to insert row %d", i)
		}
	}
	return errors.Wrap(tx.Commit(), "failed to commit")
}

func (d *DB) ListUsers(ctx context.Context, find *store.FindUser) ([]models.User, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find != nil && find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}

	rows, err := d.db.QueryContext(ctx, `SELECT id, name FROM users WHERE `+strings.Join(where, " AND ")+` ORDER BY row_id`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query users")
	}
	defer rows.Close()

	list := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan user")
		}
		list = append(list, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate users")
	}
	return list, nil
}

func (d *DB) ListBusyEntries(ctx context.Context, find *store.FindBusyEntry) ([]models.BusyEntry, error) {
	where, args := []string{"1 = 1"}, []any{}
	if find != nil && find.ID != nil {
		where, args = append(where, "id = ?"), append(args, *find.ID)
	}

	rows, err := d.db.QueryContext(ctx, `SELECT id, start_time, end_time FROM busy WHERE `+strings.Join(where, " AND ")+` ORDER BY row_id`, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query busy entries")
	}
	defer rows.Close()

	list := make([]models.BusyEntry, 0)
	for rows.Next() {
		var b models.BusyEntry
		if err := rows.Scan(&b.ID, &b.StartTime, &b.EndTime); err != nil {
			return nil, errors.Wrap(err, "failed to scan busy entry")
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate busy entries")
	}
	return list, nil
}

func (d *DB) Purge(ctx context.Context) error {
	for _, table := range []string{"users", "busy"} {
		if _, err := d.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return errors.Wrapf(err, "failed to purge %s", table)
		}
	}
	return nil
}

func (d *DB) Count(ctx context.Context) (*store.Stats, error) {
	stats := &store.Stats{}
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&stats.Users); err != nil {
		return nil, errors.Wrap(err, "failed to count users")
	}
	if err := d.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM busy`).Scan(&stats.BusyEntries); err != nil {
		return nil, errors.Wrap(err, "failed to count busy entries")
	}
	return stats, nil
}
