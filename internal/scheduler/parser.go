package scheduler

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"scheduler/internal/models"
)

// entryTimeLayout is the timestamp format used in raw busy lines, e.g. "3/13/2015 8:00:00 AM".
const entryTimeLayout = "1/2/2006 3:04:05 PM"

var errEntryTime = errors.New("malformed entry time")

const (
	userFields = 2
	busyFields = 4
)

// ParseUser parses a "id;name" line.
func ParseUser(line string) (models.User, bool) {
	parts := strings.Split(strings.TrimSpace(line), ";")
	if len(parts) != userFields {
		return models.User{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.User{}, false
	}

	return models.User{ID: id, Name: parts[1]}, true
}

// ParseBusyEntry parses a "id;start;end;checksum" line.
// The checksum is not verified.
func ParseBusyEntry(line string) (models.BusyEntry, bool) {
	parts := strings.Split(strings.TrimSpace(line), ";")
	if len(parts) != busyFields {
		return models.BusyEntry{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return models.BusyEntry{}, false
	}

	start, err := parseEntryTime(parts[1])
	if err != nil {
		return models.BusyEntry{}, false
	}
	end, err := parseEntryTime(parts[2])
	if err != nil {
		return models.BusyEntry{}, false
	}

	return models.NewBusyEntry(id, start, end), true
}

// parseEntryTime reads a 12-hour timestamp. Hour must be 1..12; minutes and
// seconds may have one or two digits.
func parseEntryTime(value string) (time.Time, error) {
	fields := strings.Fields(strings.ToUpper(value))
	if len(fields) != 3 {
		return time.Time{}, errEntryTime
	}

	clock := strings.Split(fields[1], ":")
	if len(clock) != 3 {
		return time.Time{}, errEntryTime
	}
	for i, part := range clock {
		if len(part) < 1 || len(part) > 2 || strings.Trim(part, "0123456789") != "" {
			return time.Time{}, errEntryTime
		}
		n, _ := strconv.Atoi(part)
		if i == 0 && (n < 1 || n > 12) {
			return time.Time{}, errEntryTime
		}
		if i > 0 && len(part) == 1 {
			clock[i] = "0" + part
		}
	}

	normalized := fields[0] + " " + strings.Join(clock, ":") + " " + fields[2]
	return time.Parse(entryTimeLayout, normalized)
}
