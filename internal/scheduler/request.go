package scheduler

import (
	"strconv"
	"strings"
	"time"

	"scheduler/internal/models"
)

// MeetingRequest is a validated meeting search coming from the CLI or the HTTP API.
type MeetingRequest struct {
	IDs    []int
	Window Window
}

// ParseMeetingRequest validates the primitive formats of a meeting search.
// Range checks between the values are left to GenerateSlots.
func ParseMeetingRequest(ids, startDate, endDate, startHour, endHour, duration string) (*MeetingRequest, error) {
	userIDs, err := ParseIDs(ids)
	if err != nil {
		return nil, err
	}

	start, err := time.Parse(models.DateLayout, startDate)
	if err != nil {
		return nil, &RequestError{Field: "start_date", Message: "Dates must be on format YYYY-MM-DD", Err: err}
	}
	end, err := time.Parse(models.DateLayout, endDate)
	if err != nil {
		return nil, &RequestError{Field: "end_date", Message: "Dates must be on format YYYY-MM-DD", Err: err}
	}

	sh, err := parseHour("start_hour", startHour)
	if err != nil {
		return nil, err
	}
	eh, err := parseHour("end_hour", endHour)
	if err != nil {
		return nil, err
	}

	d, err := strconv.Atoi(strings.TrimSpace(duration))
	if err != nil {
		return nil, &RequestError{Field: "duration", Message: "Duration must be an integer.", Err: err}
	}

	return &MeetingRequest{
		IDs: userIDs,
		Window: Window{
			StartDate: start,
			EndDate:   end,
			StartHour: sh,
			EndHour:   eh,
			Duration:  d,
		},
	}, nil
}

// ParseIDs parses a comma-separated list of user ids.
func ParseIDs(value string) ([]int, error) {
	parts := strings.Split(value, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, &RequestError{Field: "ids", Message: "Ids have to be numeric.", Err: err}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseHour(field, value string) (int, error) {
	h, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || h < 0 || h > 24 {
		return 0, &RequestError{Field: field, Message: "Hours must be integers between 0 and 24.", Err: err}
	}
	return h, nil
}
