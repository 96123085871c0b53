package scheduler

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scheduler/internal/models"
)

func newTestScheduler() *Scheduler {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestScheduler_Ingest(t *testing.T) {
	s := newTestScheduler()

	users, busy := s.Ingest([]string{
		"1;name",
		"1;3/13/2015 8:00:00 AM;3/13/2015 1:00:00 PM;1234",
	})

	assert.Equal(t, []models.User{{ID: 1, Name: "name"}}, users)
	assert.Equal(t, []models.BusyEntry{{ID: 1, StartTime: "2015-03-13 08:00", EndTime: "2015-03-13 13:00"}}, busy)
}

func TestScheduler_Ingest_Deduplicates(t *testing.T) {
	s := newTestScheduler()

	users, busy := s.Ingest([]string{
		"2;bob",
		"1;alice",
		"2;bob",
		"2;robert",
		"garbage",
		"1;3/13/2015 8:00:00 AM;3/13/2015 1:00:00 PM;1234",
		"1;3/13/2015 8:00:00 AM;3/13/2015 1:00:00 PM;9999",
		"1;3/13/2015 8:00:59 AM;3/13/2015 1:00:00 PM;1234",
		"",
	})

	assert.Equal(t, []models.User{
		{ID: 2, Name: "bob"},
		{ID: 1, Name: "alice"},
		{ID: 2, Name: "robert"},
	}, users)
	// Checksums and seconds are dropped, so all three lines collapse into one entry.
	assert.Equal(t, []models.BusyEntry{
		{ID: 1, StartTime: "2015-03-13 08:00", EndTime: "2015-03-13 13:00"},
	}, busy)
}

func TestScheduler_Ingest_Empty(t *testing.T) {
	users, busy := newTestScheduler().Ingest(nil)
	assert.Empty(t, users)
	assert.Empty(t, busy)
}

func TestScheduler_IngestReader(t *testing.T) {
	input := "1;alice\r\n2;bob\n2;3/13/2015 9:00:00 AM;3/13/2015 10:30:00 AM;ff00\n;;\n"

	users, busy, err := newTestScheduler().IngestReader(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, []models.BusyEntry{{ID: 2, StartTime: "2015-03-13 09:00", EndTime: "2015-03-13 10:30"}}, busy)
}

func TestScheduler_IngestReader_LongLine(t *testing.T) {
	input := "1;alice\n2;" + strings.Repeat("x", 70000) + "\n3;carol"

	users, busy, err := newTestScheduler().IngestReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].Name)
	assert.Len(t, users[1].Name, 70000)
	assert.Equal(t, models.User{ID: 3, Name: "carol"}, users[2])
	assert.Empty(t, busy)
}

func TestFindAvailable(t *testing.T) {
	busy := []models.BusyEntry{{ID: 1, StartTime: "2015-03-13 08:30", EndTime: "2015-03-13 09:30"}}

	res, err := FindAvailable(busy, Window{
		StartDate: date(2015, 3, 13),
		EndDate:   date(2015, 3, 13),
		StartHour: 8,
		EndHour:   10,
		Duration:  30,
	})
	require.NoError(t, err)

	assert.Equal(t, []models.TimeInterval{
		{Start: at(2015, 3, 13, 8, 0), End: at(2015, 3, 13, 8, 30)},
		{Start: at(2015, 3, 13, 9, 30), End: at(2015, 3, 13, 10, 0)},
	}, res)
}

func TestFindAvailable_MultipleParticipants(t *testing.T) {
	busy := []models.BusyEntry{
		{ID: 1, StartTime: "2015-03-13 08:00", EndTime: "2015-03-13 09:00"},
		{ID: 2, StartTime: "2015-03-13 10:00", EndTime: "2015-03-13 11:00"},
		{ID: 2, StartTime: "2015-03-14 00:00", EndTime: "2015-03-15 00:00"},
	}

	res, err := FindAvailable(busy, Window{
		StartDate: date(2015, 3, 13),
		EndDate:   date(2015, 3, 14),
		StartHour: 8,
		EndHour:   12,
		Duration:  60,
	})
	require.NoError(t, err)

	assert.Equal(t, []models.TimeInterval{
		{Start: at(2015, 3, 13, 9, 0), End: at(2015, 3, 13, 10, 0)},
		{Start: at(2015, 3, 13, 11, 0), End: at(2015, 3, 13, 12, 0)},
	}, res)
}

func TestFindAvailable_NoBusyEntries(t *testing.T) {
	w := Window{
		StartDate: date(2015, 3, 13),
		EndDate:   date(2015, 3, 13),
		StartHour: 8,
		EndHour:   10,
		Duration:  30,
	}

	res, err := newTestScheduler().Query(nil, w)
	require.NoError(t, err)
	assert.Equal(t, collect(t, w), res)
}

func TestFindAvailable_FullyBooked(t *testing.T) {
	busy := []models.BusyEntry{{ID: 1, StartTime: "2015-03-13 00:00", EndTime: "2015-03-14 00:00"}}

	res, err := FindAvailable(busy, Window{
		StartDate: date(2015, 3, 13),
		EndDate:   date(2015, 3, 13),
		StartHour: 8,
		EndHour:   17,
		Duration:  30,
	})
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestFindAvailable_InvalidRange(t *testing.T) {
	_, err := newTestScheduler().Query(nil, Window{
		StartDate: date(2015, 3, 13),
		EndDate:   date(2015, 3, 13),
		StartHour: 10,
		EndHour:   8,
		Duration:  30,
	})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestFindAvailable_CorruptEntry(t *testing.T) {
	busy := []models.BusyEntry{{ID: 3, StartTime: "13/03/2015", EndTime: "2015-03-13 09:30"}}

	_, err := FindAvailable(busy, Window{
		StartDate: date(2015, 3, 13),
		EndDate:   date(2015, 3, 13),
		StartHour: 8,
		EndHour:   10,
		Duration:  30,
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRange)
	assert.Contains(t, err.Error(), "user 3")
}
