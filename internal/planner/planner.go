// Package planner wires the scheduler core to a record store.
package planner

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"scheduler/internal/models"
	"scheduler/internal/scheduler"
	"scheduler/internal/store"
)

// Planner persists ingested entries and answers meeting queries against the store.
type Planner struct {
	logger    *slog.Logger
	store     store.Driver
	scheduler *scheduler.Scheduler
}

// AddResult reports how many records an ingest produced.
type AddResult struct {
	Users       int `json:"users_added"`
	BusyEntries int `json:"busy_entries_added"`
}

// Meeting is the outcome of a meeting search.
type Meeting struct {
	Participants []string
	Slots        []models.TimeInterval
}

// NewPlanner creates a new Planner.
func NewPlanner(logger *slog.Logger, st store.Driver) *Planner {
	return &Planner{
		logger:    logger,
		store:     st,
		scheduler: scheduler.New(logger),
	}
}

// AddEntries parses r and stores the users and busy entries found in it.
func (p *Planner) AddEntries(ctx context.Context, r io.Reader) (*AddResult, error) {
	users, busy, err := p.scheduler.IngestReader(r)
	if err != nil {
		return nil, err
	}

	if err := p.store.InsertUsers(ctx, users); err != nil {
		return nil, fmt.Errorf("failed to store users: %w", err)
	}
	if err := p.store.InsertBusyEntries(ctx, busy); err != nil {
		return nil, fmt.Errorf("failed to store busy entries: %w", err)
	}

	p.logger.Info("Added entries.", "users", len(users), "busyEntries", len(busy))
	return &AddResult{Users: len(users), BusyEntries: len(busy)}, nil
}

// ImportBusy stores busy entries fetched from an external calendar.
func (p *Planner) ImportBusy(ctx context.Context, source string, entries []models.BusyEntry) (int, error) {
	if err := p.store.InsertBusyEntries(ctx, entries); err != nil {
		return 0, fmt.Errorf("failed to store busy entries from %s: %w", source, err)
	}
	p.logger.Info("Imported busy entries.", "source", source, "count", len(entries))
	return len(entries), nil
}

// Meeting finds the slots of req during which every participant is free.
func (p *Planner) Meeting(ctx context.Context, req *scheduler.MeetingRequest) (*Meeting, error) {
	names, err := p.participantNames(ctx, req.IDs)
	if err != nil {
		return nil, err
	}

	busy, err := p.busyEntries(ctx, req.IDs)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Loaded busy entries.", "ids", req.IDs, "count", len(busy))

	slots, err := p.scheduler.Query(busy, req.Window)
	if err != nil {
		return nil, err
	}

	p.logger.Debug("Meeting search finished.", "slots", len(slots))
	return &Meeting{Participants: names, Slots: slots}, nil
}

// Purge empties the store.
func (p *Planner) Purge(ctx context.Context) error {
	if err := p.store.Purge(ctx); err != nil {
		return fmt.Errorf("failed to purge store: %w", err)
	}
	p.logger.Info("Store purged.")
	return nil
}

// Count returns the number of stored users and busy entries.
func (p *Planner) Count(ctx context.Context) (*store.Stats, error) {
	stats, err := p.store.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count entries: %w", err)
	}
	return stats, nil
}

// participantNames returns the names stored for ids, in id order.
// Unknown ids contribute nothing.
func (p *Planner) participantNames(ctx context.Context, ids []int) ([]string, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		users, err := p.store.ListUsers(ctx, &store.FindUser{ID: &id})
		if err != nil {
			return nil, fmt.Errorf("failed to look up user %d: %w", id, err)
		}
		for _, u := range users {
			names = append(names, u.Name)
		}
	}
	return names, nil
}

func (p *Planner) busyEntries(ctx context.Context, ids []int) ([]models.BusyEntry, error) {
	var all []models.BusyEntry
	for _, id := range ids {
		entries, err := p.store.ListBusyEntries(ctx, &store.FindBusyEntry{ID: &id})
		if err != nil {
			return nil, fmt.Errorf("failed to load busy entries for user %d: %w", id, err)
		}
		all = append(all, entries...)
	}
	return all, nil
}
