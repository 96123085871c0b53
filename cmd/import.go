package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"scheduler/internal/dav"
	"scheduler/internal/google"
	"scheduler/internal/icsfile"
	"scheduler/internal/models"
	"scheduler/internal/scheduler"
)

var rangeFlags = []cli.Flag{
	&cli.StringFlag{Name: "start-date", Aliases: []string{"sd"}, Required: true, Usage: "First day to import (YYYY-MM-DD)."},
	&cli.StringFlag{Name: "end-date", Aliases: []string{"ed"}, Required: true, Usage: "Last day to import (YYYY-MM-DD)."},
}

// importRange returns [start, end) covering the requested days in loc.
func importRange(c *cli.Context, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(models.DateLayout, c.String("start-date"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, &scheduler.RequestError{Field: "start_date", Message: "Dates must be on format YYYY-MM-DD", Err: err}
	}
	end, err := time.ParseInLocation(models.DateLayout, c.String("end-date"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, &scheduler.RequestError{Field: "end_date", Message: "Dates must be on format YYYY-MM-DD", Err: err}
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start date must be before end date", scheduler.ErrInvalidRange)
	}
	return start, end.AddDate(0, 0, 1), nil
}

func importICSCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-ics",
		Usage: "Import busy entries for a user from an .ics file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "The .ics file to read events from."},
			&cli.IntFlag{Name: "id", Required: true, Usage: "User id the events belong to."},
		},
		Action: func(c *cli.Context) error {
			s, err := newSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Open(c.String("file"))
			if err != nil {
				return fmt.Errorf("failed to open ics file: %w", err)
			}
			defer f.Close()

			entries, err := icsfile.Import(f, c.Int("id"), s.loc)
			if err != nil {
				return err
			}

			n, err := s.planner.ImportBusy(c.Context, "ics", entries)
			if err != nil {
				return err
			}
			fmt.Printf("%d busy entries added.\n", n)
			return nil
		},
	}
}

func importCalDAVCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-caldav",
		Usage: "Import busy entries for a user from a CalDAV calendar.",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "id", Required: true, Usage: "User id the events belong to."},
		}, rangeFlags...),
		Action: func(c *cli.Context) error {
			s, err := newSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			if !s.cfg.HasCalDAV() {
				return fmt.Errorf("CALDAV_ENDPOINT, CALDAV_USERNAME and CALDAV_CALENDAR_NAME must be set")
			}

			start, end, err := importRange(c, s.loc)
			if err != nil {
				return userError(err)
			}

			client, err := dav.NewClient(c.Context, s.logger, s.cfg.CalDAVEndpoint, s.cfg.CalDAVUsername,
				s.cfg.CalDAVPassword, s.cfg.CalDAVCalendarName, s.loc)
			if err != nil {
				return fmt.Errorf("failed to create caldav client: %w", err)
			}

			entries, err := client.BusyEntries(c.Context, c.Int("id"), start, end)
			if err != nil {
				return err
			}

			n, err := s.planner.ImportBusy(c.Context, "caldav", entries)
			if err != nil {
				return err
			}
			fmt.Printf("%d busy entries added.\n", n)
			return nil
		},
	}
}

func importGoogleCommand() *cli.Command {
	return &cli.Command{
		Name:  "import-google",
		Usage: "Import busy entries for a user from Google Calendar free/busy.",
		Flags: append([]cli.Flag{
			&cli.IntFlag{Name: "id", Required: true, Usage: "User id the calendar belongs to."},
			&cli.StringFlag{Name: "calendar", Value: "primary", Usage: "Google calendar id."},
			&cli.StringFlag{Name: "account", Usage: "Account name used with the auth command. Defaults to the first saved token."},
		}, rangeFlags...),
		Action: func(c *cli.Context) error {
			s, err := newSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			start, end, err := importRange(c, s.loc)
			if err != nil {
				return userError(err)
			}

			account := c.String("account")
			if account == "" {
				accounts, err := google.GetTokenAccounts(".")
				if err != nil {
					return fmt.Errorf("could not find any google accounts, did you run auth command? %w", err)
				}
				if len(accounts) == 0 {
					return fmt.Errorf("no google accounts found. Run the 'auth' command first")
				}
				account = accounts[0]
			}

			client, err := google.NewClient(c.Context, s.logger, s.cfg.GoogleClientID, s.cfg.GoogleClientSecret, account, s.loc)
			if err != nil {
				return fmt.Errorf("failed to create google client for account %s: %w", account, err)
			}

			entries, err := client.BusyEntries(c.Context, c.String("calendar"), c.Int("id"), start, end)
			if err != nil {
				return err
			}

			n, err := s.planner.ImportBusy(c.Context, "google", entries)
			if err != nil {
				return err
			}
			fmt.Printf("%d busy entries added.\n", n)
			return nil
		},
	}
}
