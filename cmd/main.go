package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/oauth2"

	"scheduler/internal/config"
	"scheduler/internal/google"
	"scheduler/internal/planner"
	"scheduler/internal/scheduler"
	"scheduler/internal/store"
	"scheduler/internal/store/db"
)

func main() {
	app := &cli.App{
		Name:  "scheduler",
		Usage: "Find meeting times when every participant is free.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Usage: "Store location, overrides SCHEDULER_DSN."},
			&cli.StringFlag{Name: "driver", Usage: "Store driver (json, sqlite, postgres), overrides SCHEDULER_DRIVER."},
		},
		Commands: []*cli.Command{
			addEntriesCommand(),
			meetingCommand(),
			purgeCommand(),
			countCommand(),
			importICSCommand(),
			importCalDAVCommand(),
			importGoogleCommand(),
			authCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

// session bundles what every store-backed command needs.
type session struct {
	cfg     *config.Config
	logger  *slog.Logger
	loc     *time.Location
	store   store.Driver
	planner *planner.Planner
}

func (r *session) Close() {
	if err := r.store.Close(); err != nil {
		r.logger.Error("Failed to close store", "error", err)
	}
}

// loadConfig reads .env and the environment, then applies the global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg := config.Load()
	if c.IsSet("driver") {
		cfg.Driver = strings.ToLower(c.String("driver"))
	}
	if c.IsSet("db") {
		cfg.DSN = c.String("db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func newSession(c *cli.Context) (*session, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	st, err := db.NewDriver(c.Context, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Debug("Opened store.", "driver", cfg.Driver, "dsn", cfg.DSN)

	return &session{
		cfg:     cfg,
		logger:  logger,
		loc:     loc,
		store:   st,
		planner: planner.NewPlanner(logger, st),
	}, nil
}

// userError prints request and range errors for the user and exits with status 1.
// Other errors are returned unchanged.
func userError(err error) error {
	var reqErr *scheduler.RequestError
	switch {
	case errors.As(err, &reqErr):
		fmt.Println(reqErr.Message)
	case errors.Is(err, scheduler.ErrInvalidRange):
		fmt.Println(err.Error())
	default:
		return err
	}
	return cli.Exit("", 1)
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authenticate with a Google account to get an API token.",
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			logger := setupLogger(cfg.LogLevel)
			logger.Info("Starting Google authentication flow.")

			oauthConfig, err := google.GetOAuthConfigForAuthFlow(cfg.GoogleClientID, cfg.GoogleClientSecret)
			if err != nil {
				return fmt.Errorf("failed to get google oauth config: %w", err)
			}

			authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
			fmt.Printf("Go to the following link in your browser then type the "+
				"authorization code: \n%v\n", authURL)

			fmt.Print("Enter Authorization Code: ")
			reader := bufio.NewReader(os.Stdin)
			authCode, _ := reader.ReadString('\n')
			authCode = strings.TrimSpace(authCode)

			token, err := google.TokenFromWeb(c.Context, oauthConfig, authCode)
			if err != nil {
				return fmt.Errorf("unable to retrieve token from web: %w", err)
			}

			fmt.Print("Enter a name for this account (e.g., 'personal', 'work'): ")
			accountName, _ := reader.ReadString('\n')
			accountName = strings.TrimSpace(accountName)
			tokenFile := google.TokenFile(accountName)

			if err := google.SaveToken(tokenFile, token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			logger.Info("Successfully authenticated and saved token.", "file", tokenFile)
			return nil
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
