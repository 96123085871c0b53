package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"scheduler/internal/models"
	"scheduler/internal/planner"
	"scheduler/internal/scheduler"
)

func TestPrintMeeting(t *testing.T) {
	day := time.Date(2015, 3, 13, 0, 0, 0, 0, time.UTC)
	slot := func(h int) models.TimeInterval {
		start := day.Add(time.Duration(h) * time.Hour)
		return models.TimeInterval{Start: start, End: start.Add(time.Hour)}
	}

	tests := []struct {
		name    string
		meeting *planner.Meeting
		want    string
	}{
		{
			name:    "no slots",
			meeting: &planner.Meeting{Participants: []string{"alice"}},
			want:    "No possible times found.\n",
		},
		{
			name: "slots",
			meeting: &planner.Meeting{
				Participants: []string{"alice", "bob"},
				Slots:        []models.TimeInterval{slot(8), slot(14)},
			},
			want: "Participants:\nalice\nbob\nTimes:\n" +
				"2015-03-13 08:00 - 2015-03-13 09:00\n" +
				"2015-03-13 14:00 - 2015-03-13 15:00\n",
		},
		{
			name:    "unknown participants",
			meeting: &planner.Meeting{Slots: []models.TimeInterval{slot(8)}},
			want:    "Participants:\nTimes:\n2015-03-13 08:00 - 2015-03-13 09:00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			printMeeting(&buf, tt.meeting)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("start-date", "", "")
	set.String("end-date", "", "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestImportRange(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	start, end, err := importRange(newContext(t, "-start-date", "2015-03-13", "-end-date", "2015-03-14"), loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2015, 3, 13, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2015, 3, 15, 0, 0, 0, 0, loc), end)

	_, _, err = importRange(newContext(t, "-start-date", "2015-03-15", "-end-date", "2015-03-14"), loc)
	assert.ErrorIs(t, err, scheduler.ErrInvalidRange)

	_, _, err = importRange(newContext(t, "-start-date", "13/03/2015", "-end-date", "2015-03-14"), loc)
	var reqErr *scheduler.RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "start_date", reqErr.Field)
}

func TestUserError(t *testing.T) {
	other := errors.New("boom")
	assert.Same(t, other, userError(other))

	tests := []struct {
		name string
		err  error
	}{
		{"request error", &scheduler.RequestError{Field: "ids", Message: "Ids have to be numeric."}},
		{"invalid range", fmt.Errorf("%w: start date must be before end date", scheduler.ErrInvalidRange)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := userError(tt.err)
			var exitErr cli.ExitCoder
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 1, exitErr.ExitCode())
		})
	}
}
