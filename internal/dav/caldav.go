// Package dav imports busy time from a CalDAV calendar.
package dav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"scheduler/internal/icsfile"
	"scheduler/internal/models"
)

// basicAuthTransport adds Basic Auth and a User-Agent to each request.
type basicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "scheduler/1.0")
	return t.Transport.RoundTrip(req)
}

// Client reads events from one calendar on a CalDAV server.
type Client struct {
	caldavClient *caldav.Client
	logger       *slog.Logger
	calendarPath string
	location     *time.Location
}

// NewClient connects to endpoint and resolves the calendar called calendarName.
// Event times are converted to wall-clock time in loc.
func NewClient(ctx context.Context, logger *slog.Logger, endpoint, username, password, calendarName string, loc *time.Location) (*Client, error) {
	transport := &basicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: http.DefaultTransport,
	}
	httpClient := &http.Client{Transport: transport, Timeout: 30 * time.Second}

	caldavClient, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	c := &Client{
		caldavClient: caldavClient,
		logger:       logger,
		location:     loc,
	}

	logger.Info("Finding CalDAV calendar", "calendarName", calendarName)
	calendarPath, err := c.findCalendar(ctx, calendarName)
	if err != nil {
		return nil, fmt.Errorf("could not find calendar '%s': %w", calendarName, err)
	}
	c.calendarPath = calendarPath
	logger.Info("Successfully found CalDAV calendar", "path", calendarPath)

	return c, nil
}

// BusyEntries returns the events overlapping [start, end) as busy entries for userID.
func (c *Client) BusyEntries(ctx context.Context, userID int, start, end time.Time) ([]models.BusyEntry, error) {
	c.logger.Debug("Querying CalDAV events", "path", c.calendarPath, "start", start, "end", end)

	objects, err := c.caldavClient.QueryCalendar(ctx, c.calendarPath, eventQuery(start, end))
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	entries := ObjectsToBusyEntries(objects, userID, c.location)
	c.logger.Info("Fetched busy entries from CalDAV", "objects", len(objects), "entries", len(entries))
	return entries, nil
}

// eventQuery asks for every VEVENT overlapping the time range.
func eventQuery(start, end time.Time) *caldav.CalendarQuery {
	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     ical.CompCalendar,
			AllProps: true,
			Comps: []caldav.CalendarCompRequest{{
				Name:     ical.CompEvent,
				AllProps: true,
			}},
		},
		CompFilter: caldav.CompFilter{
			Name: ical.CompCalendar,
			Comps: []caldav.CompFilter{{
				Name:  ical.CompEvent,
				Start: start.UTC(),
				End:   end.UTC(),
			}},
		},
	}
}

// ObjectsToBusyEntries converts the events of CalDAV calendar objects to busy entries.
func ObjectsToBusyEntries(objects []caldav.CalendarObject, userID int, loc *time.Location) []models.BusyEntry {
	var entries []models.BusyEntry
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		entries = append(entries, icsfile.EventsToBusyEntries(obj.Data.Events(), userID, loc)...)
	}
	return entries
}

// findCalendar discovers the user's calendars and returns the path of the one with the matching name.
func (c *Client) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
