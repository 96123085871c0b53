package scheduler

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMeetingRequest(t *testing.T) {
	req, err := ParseMeetingRequest("1, 2,3", "2015-03-13", "2015-03-14", "8", "17", "45")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, req.IDs)
	assert.Equal(t, date(2015, 3, 13), req.Window.StartDate)
	assert.Equal(t, date(2015, 3, 14), req.Window.EndDate)
	assert.Equal(t, 8, req.Window.StartHour)
	assert.Equal(t, 17, req.Window.EndHour)
	assert.Equal(t, 45, req.Window.Duration)
}

func TestParseMeetingRequest_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      [6]string
		wantField string
		wantMsg   string
	}{
		{"non numeric id", [6]string{"1,x", "2015-03-13", "2015-03-13", "8", "9", "30"}, "ids", "Ids have to be numeric."},
		{"empty ids", [6]string{"", "2015-03-13", "2015-03-13", "8", "9", "30"}, "ids", "Ids have to be numeric."},
		{"bad start date", [6]string{"1", "13/03/2015", "2015-03-13", "8", "9", "30"}, "start_date", "Dates must be on format YYYY-MM-DD"},
		{"bad end date", [6]string{"1", "2015-03-13", "tomorrow", "8", "9", "30"}, "end_date", "Dates must be on format YYYY-MM-DD"},
		{"hour not a number", [6]string{"1", "2015-03-13", "2015-03-13", "eight", "9", "30"}, "start_hour", "Hours must be integers between 0 and 24."},
		{"hour out of range", [6]string{"1", "2015-03-13", "2015-03-13", "8", "25", "30"}, "end_hour", "Hours must be integers between 0 and 24."},
		{"duration not a number", [6]string{"1", "2015-03-13", "2015-03-13", "8", "9", "half an hour"}, "duration", "Duration must be an integer."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := tt.args
			_, err := ParseMeetingRequest(a[0], a[1], a[2], a[3], a[4], a[5])
			require.Error(t, err)

			var reqErr *RequestError
			require.True(t, errors.As(err, &reqErr))
			assert.Equal(t, tt.wantField, reqErr.Field)
			assert.Equal(t, tt.wantMsg, reqErr.Error())
		})
	}
}

func TestParseMeetingRequest_LeavesRangeChecksToGenerator(t *testing.T) {
	req, err := ParseMeetingRequest("1", "2015-03-14", "2015-03-13", "9", "8", "0")
	require.NoError(t, err)

	_, err = GenerateSlots(req.Window)
	assert.ErrorIs(t, err, ErrInvalidRange)
}
