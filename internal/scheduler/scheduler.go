// Package scheduler parses schedule entries and searches for free meeting slots.
package scheduler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"scheduler/internal/models"
)

// Scheduler turns raw entries into records and answers availability queries.
// It keeps no state between calls.
type Scheduler struct {
	logger *slog.Logger
}

// New creates a new Scheduler.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{logger: logger}
}

// Ingest classifies every line as a user, a busy entry, or neither.
// Duplicates collapse to their first occurrence.
func (s *Scheduler) Ingest(lines []string) ([]models.User, []models.BusyEntry) {
	users := make([]models.User, 0)
	busy := make([]models.BusyEntry, 0)
	seenUsers := make(map[models.User]struct{})
	seenBusy := make(map[models.BusyEntry]struct{})
	skipped := 0

	for _, line := range lines {
		matched := false

		if user, ok := ParseUser(line); ok {
			matched = true
			if _, dup := seenUsers[user]; !dup {
				seenUsers[user] = struct{}{}
				users = append(users, user)
			}
		}

		if entry, ok := ParseBusyEntry(line); ok {
			matched = true
			if _, dup := seenBusy[entry]; !dup {
				seenBusy[entry] = struct{}{}
				busy = append(busy, entry)
			}
		}

		if !matched {
			skipped++
			s.logger.Debug("Skipping malformed entry.", "line", line)
		}
	}

	s.logger.Debug("Parsed entries.", "users", len(users), "busyEntries", len(busy), "skipped", skipped)
	return users, busy
}

// IngestReader reads r line by line and ingests the result. Lines have no length limit.
func (s *Scheduler) IngestReader(r io.Reader) ([]models.User, []models.BusyEntry, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, strings.TrimRight(line, "\r\n"))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read entries: %w", err)
		}
	}

	users, busy := s.Ingest(lines)
	return users, busy, nil
}

// Query returns the slots of w during which none of the busy entries is active.
func (s *Scheduler) Query(busy []models.BusyEntry, w Window) ([]models.TimeInterval, error) {
	return FindAvailable(busy, w)
}

// FindAvailable generates the slots of w and drops those overlapping any busy entry.
// The result keeps the generator order.
func FindAvailable(busy []models.BusyEntry, w Window) ([]models.TimeInterval, error) {
	slots, err := GenerateSlots(w)
	if err != nil {
		return nil, err
	}

	intervals := make([]models.TimeInterval, 0, len(busy))
	for _, entry := range busy {
		interval, err := entry.Interval()
		if err != nil {
			return nil, fmt.Errorf("corrupt busy entry for user %d: %w", entry.ID, err)
		}
		intervals = append(intervals, interval)
	}

	available := make([]models.TimeInterval, 0)
	for slot := range slots {
		if !overlapsAny(slot, intervals) {
			available = append(available, slot)
		}
	}
	return available, nil
}

func overlapsAny(slot models.TimeInterval, busy []models.TimeInterval) bool {
	for _, b := range busy {
		if Overlaps(slot, b) {
			return true
		}
	}
	return false
}
