package models

import (
	"fmt"
	"time"
)

// TimeLayout is the canonical serialized form of a naive timestamp.
const TimeLayout = "2006-01-02 15:04"

// DateLayout is the format of a calendar date in queries.
const DateLayout = "2006-01-02"

// User represents a meeting participant.
type User struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func (u User) String() string {
	return fmt.Sprintf("User(name=%s, id=%d)", u.Name, u.ID)
}

// BusyEntry is a window during which the referenced user is unavailable.
// StartTime and EndTime are in TimeLayout. Windows ending before they start are kept as-is.
type BusyEntry struct {
	ID        int    `json:"id"`         // ID of the user this entry belongs to
	StartTime string `json:"start_time"` // Start of the busy window
	EndTime   string `json:"end_time"`   // End of the busy window
}

func (b BusyEntry) String() string {
	return fmt.Sprintf("BusyEntry(id=%d, start_time=%s, end_time=%s)", b.ID, b.StartTime, b.EndTime)
}

// Interval parses the stored times back into a TimeInterval.
func (b BusyEntry) Interval() (TimeInterval, error) {
	start, err := time.Parse(TimeLayout, b.StartTime)
	if err != nil {
		return TimeInterval{}, fmt.Errorf("invalid start_time %q: %w", b.StartTime, err)
	}
	end, err := time.Parse(TimeLayout, b.EndTime)
	if err != nil {
		return TimeInterval{}, fmt.Errorf("invalid end_time %q: %w", b.EndTime, err)
	}
	return TimeInterval{Start: start, End: end}, nil
}

// NewBusyEntry builds a BusyEntry from wall-clock times, dropping seconds and zone.
func NewBusyEntry(userID int, start, end time.Time) BusyEntry {
	return BusyEntry{
		ID:        userID,
		StartTime: start.Format(TimeLayout),
		EndTime:   end.Format(TimeLayout),
	}
}

// TimeInterval is a span of naive wall-clock time, used for both busy windows and meeting slots.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Overlaps reports whether the two intervals share any instant.
// Intervals that only touch at an endpoint do not overlap.
func (t TimeInterval) Overlaps(other TimeInterval) bool {
	return t.Start.Before(other.End) && t.End.After(other.Start)
}

func (t TimeInterval) String() string {
	return t.Start.Format(TimeLayout) + " - " + t.End.Format(TimeLayout)
}
