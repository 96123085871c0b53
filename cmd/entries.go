package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"scheduler/internal/icsfile"
	"scheduler/internal/planner"
	"scheduler/internal/scheduler"
)

func addEntriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "add-entries",
		Usage: "Add users and busy entries from a file.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "The file to add entries from."},
		},
		Action: func(c *cli.Context) error {
			s, err := newSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := os.Open(c.String("file"))
			if err != nil {
				return fmt.Errorf("failed to open entries file: %w", err)
			}
			defer f.Close()

			res, err := s.planner.AddEntries(c.Context, f)
			if err != nil {
				return err
			}

			fmt.Printf("%d users added.\n", res.Users)
			fmt.Printf("%d busy entries added.\n", res.BusyEntries)
			return nil
		},
	}
}

func meetingCommand() *cli.Command {
	return &cli.Command{
		Name:  "meeting",
		Usage: "Find possible meeting times.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "ids", Aliases: []string{"i"}, Required: true, Usage: "Comma-separated user ids to schedule the meeting for."},
			&cli.StringFlag{Name: "start-date", Aliases: []string{"sd"}, Required: true, Usage: "Earliest wanted meeting date (YYYY-MM-DD)."},
			&cli.StringFlag{Name: "end-date", Aliases: []string{"ed"}, Required: true, Usage: "Latest wanted meeting date (YYYY-MM-DD)."},
			&cli.StringFlag{Name: "start-hour", Aliases: []string{"sh"}, Required: true, Usage: "Earliest wanted meeting hour."},
			&cli.StringFlag{Name: "end-hour", Aliases: []string{"eh"}, Required: true, Usage: "Latest wanted meeting hour."},
			&cli.StringFlag{Name: "duration", Aliases: []string{"d"}, Required: true, Usage: "Meeting duration in minutes."},
			&cli.StringFlag{Name: "ics", Usage: "Also write the found times to this .ics file."},
		},
		Action: func(c *cli.Context) error {
			req, err := scheduler.ParseMeetingRequest(
				c.String("ids"),
				c.String("start-date"),
				c.String("end-date"),
				c.String("start-hour"),
				c.String("end-hour"),
				c.String("duration"),
			)
			if err != nil {
				return userError(err)
			}

			s, err := newSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			meeting, err := s.planner.Meeting(c.Context, req)
			if err != nil {
				return userError(err)
			}

			printMeeting(os.Stdout, meeting)

			if path := c.String("ics"); path != "" && len(meeting.Slots) > 0 {
				if err := writeICS(path, meeting, s); err != nil {
					return err
				}
				s.logger.Info("Wrote meeting times.", "file", path, "count", len(meeting.Slots))
			}
			return nil
		},
	}
}

// printMeeting writes the participants and slots the way the meeting command shows them.
func printMeeting(w io.Writer, m *planner.Meeting) {
	if len(m.Slots) == 0 {
		fmt.Fprintln(w, "No possible times found.")
		return
	}

	fmt.Fprintln(w, "Participants:")
	if len(m.Participants) > 0 {
		fmt.Fprintln(w, strings.Join(m.Participants, "\n"))
	}
	fmt.Fprintln(w, "Times:")
	for _, slot := range m.Slots {
		fmt.Fprintln(w, slot.String())
	}
}

func writeICS(path string, m *planner.Meeting, s *session) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ics file: %w", err)
	}
	defer f.Close()

	err = icsfile.Export(f, m.Slots, icsfile.ExportOptions{
		Participants: m.Participants,
		Location:     s.loc,
	})
	if err != nil {
		return err
	}
	return f.Close()
}

func purgeCommand() *cli.Command {
	return &cli.Command{
		Name:  "purge-db",
		Usage: "Purge the database.",
		Action: func(c *cli.Context) error {
			s, err := newSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.planner.Purge(c.Context); err != nil {
				return err
			}
			fmt.Println("Database was purged.")
			return nil
		},
	}
}

func countCommand() *cli.Command {
	return &cli.Command{
		Name:  "count-entries",
		Usage: "Count stored users and busy entries.",
		Action: func(c *cli.Context) error {
			s, err := newSession(c)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.planner.Count(c.Context)
			if err != nil {
				return err
			}
			fmt.Printf("# Users: %d\n", stats.Users)
			fmt.Printf("# Busy entries: %d\n", stats.BusyEntries)
			return nil
		},
	}
}
