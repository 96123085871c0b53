// Package postgres is the PostgreSQL record store.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	// Import the PostgreSQL driver.
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"scheduler/internal/models"
	"scheduler/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	row_id BIGSERIAL PRIMARY KEY,
	id     INTEGER NOT NULL,
	name   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_users_id ON users (id);
CREATE TABLE IF NOT EXISTS busy (
	row_id     BIGSERIAL PRIMARY KEY,
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

// NewDB connects to dsn, verifies the connection and creates the tables if needed.
func NewDB(ctx context.Context, dsn string) (*DB, error) {
	if dsn == "" {
		return nil, errors.New("dsn required")
	}

	pgDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database")
	}

	pgDB.SetMaxOpenConns(5)
	pgDB.SetMaxIdleConns(2)
	pgDB.SetConnMaxLifetime(2 * time.Hour)

	if err := pgDB.PingContext(ctx); err != nil {
		pgDB.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	if _, err := pgDB.ExecContext(ctx, schema); err != nil {
		pgDB.Close()
		return nil, errors.Wrap(err, "failed to migrate schema")
	}

	return &DB{db: pgDB}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// placeholder returns the n-th positional parameter.
func placeholder(n int) string {
	return "$" + fmt.Sprint(n)
}

func (d *DB) InsertUsers(ctx context.Context, users []models.User) error {
	return d.insertMany(ctx, `INSERT INTO users (id, name) VALUES ($1, $2)`, len(users), func(i int) []any {
		return []any{users[i].ID, users[i].Name}
	})
}

func (d *DB) InsertBusyEntries(ctx context.Context, entries []models.BusyEntry) error {
	return d.insertMany(ctx, `INSERT INTO busy (id, start_time, end_time) VALUES ($1, $2, $3)`, len(entries), func(i int) []any {
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
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
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
		where, args = append(where, "id = "+placeholder(len(args)+1)), append(args, *find.ID)
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
	if _, err := d.db.ExecContext(ctx, `TRUNCATE users, busy`); err != nil {
		return errors.Wrap(err, "failed to purge tables")
	}
	return nil
}

func (d *DB) Count(ctx context.Context) (*store.Stats, error) {
	stats := &store.Stats{}
	row := d.db.QueryRowContext(ctx, `SELECT (SELECT COUNT(*) FROM users), (SELECT COUNT(*) FROM busy)`)
	if err := row.Scan(&stats.Users, &stats.BusyEntries); err != nil {
		return nil, errors.Wrap(err, "failed to count records")
	}
	return stats, nil
}
