// Package icsfile converts between meeting data and iCalendar files.
package icsfile

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"scheduler/internal/models"
)

const (
	productID      = "-//scheduler//EN"
	floatingLayout = "20060102T150405"
)

// ExportOptions controls how slots are written.
type ExportOptions struct {
	Summary      string         // Event title, defaults to "Available"
	Participants []string       // Listed in the event description
	Location     *time.Location // Zone the naive slot times are anchored in
}

// ErrNoSlots is returned by Export for an empty slot list; a calendar needs at least one component.
var ErrNoSlots = errors.New("no slots to export")

// Export writes one VEVENT per slot.
func Export(w io.Writer, slots []models.TimeInterval, opts ExportOptions) error {
	if len(slots) == 0 {
		return ErrNoSlots
	}
	if opts.Summary == "" {
		opts.Summary = "Available"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	now := time.Now().UTC()
	for _, slot := range slots {
		cal.Children = append(cal.Children, toICal(slot, opts, now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("failed to encode slots to iCal format: %w", err)
	}
	return nil
}

func toICal(slot models.TimeInterval, opts ExportOptions, stamp time.Time) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, GenerateUID())
	ve.Props.SetText(ical.PropSummary, opts.Summary)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
	setWallClock(ve.Props, ical.PropDateTimeStart, slot.Start, opts.Location)
	setWallClock(ve.Props, ical.PropDateTimeEnd, slot.End, opts.Location)

	if len(opts.Participants) > 0 {
		desc := "Participants:"
		for _, p := range opts.Participants {
			desc += "\n" + p
		}
		ve.Props.SetText(ical.PropDescription, desc)
	}
	return ve
}

// setWallClock writes the naive time t as a date-time in loc.
// time.Local has no portable TZID and is written as a floating time.
func setWallClock(props ical.Props, name string, t time.Time, loc *time.Location) {
	if loc == time.Local {
		prop := ical.NewProp(name)
		prop.SetValueType(ical.ValueDateTime)
		prop.Value = t.Format(floatingLayout)
		props.Set(prop)
		return
	}
	props.SetDateTime(name, time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc))
}

// Import reads every VEVENT in r as a busy entry for userID.
// Times are converted to wall-clock time in loc; floating times are read in loc.
// Events lacking a start, or both an end and a duration, are skipped.
func Import(r io.Reader, userID int, loc *time.Location) ([]models.BusyEntry, error) {
	if loc == nil {
		loc = time.UTC
	}

	var entries []models.BusyEntry
	dec := ical.NewDecoder(r)
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode calendar: %w", err)
		}
		entries = append(entries, EventsToBusyEntries(cal.Events(), userID, loc)...)
	}
	return entries, nil
}

// EventsToBusyEntries converts calendar events to busy entries for userID.
func EventsToBusyEntries(events []ical.Event, userID int, loc *time.Location) []models.BusyEntry {
	entries := make([]models.BusyEntry, 0, len(events))
	for _, ev := range events {
		if ev.Props.Get(ical.PropDateTimeEnd) == nil && ev.Props.Get(ical.PropDuration) == nil {
			continue
		}
		start, err := ev.DateTimeStart(loc)
		if err != nil || start.IsZero() {
			continue
		}
		end, err := ev.DateTimeEnd(loc)
		if err != nil || end.IsZero() {
			continue
		}
		entries = append(entries, models.NewBusyEntry(userID, start.In(loc), end.In(loc)))
	}
	return entries
}

// GenerateUID creates a new unique identifier for an event.
func GenerateUID() string {
	return uuid.New().String()
}
