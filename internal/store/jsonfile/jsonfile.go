// Package jsonfile stores records in a single JSON document laid out as
// {"users": {"1": {...}}, "busy": {"1": {...}}}, one object per table keyed by document id.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"sync"

	"scheduler/internal/models"
	"scheduler/internal/store"
)

const (
	tableUsers = "users"
	tableBusy  = "busy"
)

// DB is a file-backed document store. Every mutation rewrites the file.
type DB struct {
	mu    sync.RWMutex
	path  string
	users []models.User
	busy  []models.BusyEntry
}

var _ store.Driver = (*DB)(nil)

// NewDB opens the document at path. A missing file is an empty store.
func NewDB(path string) (*DB, error) {
	d := &DB{path: path}
	if err := d.load(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *DB) InsertUsers(_ context.Context, users []models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := slices.Concat(d.users, users)
	if err := d.save(next, d.busy); err != nil {
		return err
	}
	d.users = next
	return nil
}

func (d *DB) InsertBusyEntries(_ context.Context, entries []models.BusyEntry) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := slices.Concat(d.busy, entries)
	if err := d.save(d.users, next); err != nil {
		return err
	}
	d.busy = next
	return nil
}

func (d *DB) ListUsers(_ context.Context, find *store.FindUser) ([]models.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]models.User, 0)
	for _, u := range d.users {
		if find != nil && find.ID != nil && u.ID != *find.ID {
			continue
		}
		list = append(list, u)
	}
	return list, nil
}

func (d *DB) ListBusyEntries(_ context.Context, find *store.FindBusyEntry) ([]models.BusyEntry, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	list := make([]models.BusyEntry, 0)
	for _, b := range d.busy {
		if find != nil && find.ID != nil && b.ID != *find.ID {
			continue
		}
		list = append(list, b)
	}
	return list, nil
}

func (d *DB) Purge(_ context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.save(nil, nil); err != nil {
		return err
	}
	d.users = nil
	d.busy = nil
	return nil
}

func (d *DB) Count(_ context.Context) (*store.Stats, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return &store.Stats{Users: len(d.users), BusyEntries: len(d.busy)}, nil
}

func (d *DB) Close() error {
	return nil
}

// load reads the document from disk.
func (d *DB) load() error {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", d.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	var doc map[string]map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", d.path, err)
	}

	if d.users, err = decodeTable[models.User](doc[tableUsers]); err != nil {
		return fmt.Errorf("failed to decode %s table: %w", tableUsers, err)
	}
	if d.busy, err = decodeTable[models.BusyEntry](doc[tableBusy]); err != nil {
		return fmt.Errorf("failed to decode %s table: %w", tableBusy, err)
	}
	return nil
}

// save writes users and busy to a temporary file and renames it over the old one.
// The in-memory tables are left to the caller.
func (d *DB) save(users []models.User, busy []models.BusyEntry) error {
	doc := map[string]map[string]any{
		tableUsers: encodeTable(users),
		tableBusy:  encodeTable(busy),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(d.path), filepath.Base(d.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}

// decodeTable returns the documents of a table ordered by document id.
func decodeTable[T any](table map[string]json.RawMessage) ([]T, error) {
	type doc struct {
		id    int
		value T
	}

	docs := make([]doc, 0, len(table))
	for key, raw := range table {
		id, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("invalid document id %q", key)
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("document %d: %w", id, err)
		}
		docs = append(docs, doc{id: id, value: v})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].id < docs[j].id })

	list := make([]T, 0, len(docs))
	for _, d := range docs {
		list = append(list, d.value)
	}
	return list, nil
}

func encodeTable[T any](rows []T) map[string]any {
	table := make(map[string]any, len(rows))
	for i, row := range rows {
		table[strconv.Itoa(i+1)] = row
	}
	return table
}
