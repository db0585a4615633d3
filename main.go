package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/commands"
	"github.com/INF-Lucas/Timeboxing/internal/core/config"
	"github.com/INF-Lucas/Timeboxing/internal/data/db"
	"github.com/INF-Lucas/Timeboxing/internal/data/stores"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
	"github.com/INF-Lucas/Timeboxing/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		boxApp    = &timeboxing.App{}
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "timebox",
		Usage:     "Plan your day in time boxes",
		UsageText: "timebox [global options] command [command options]",
		Description: `Timebox schedules your day as a column of fixed time boxes: plan them,
start one at a time, and let overruns split or shift into the next
free slot.

Run 'timebox' with no arguments to open the interactive day view.
Run 'timebox add' to schedule a box from the command line.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("TIMEBOX_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/timebox.log)",
				Sources:     cli.EnvVars("TIMEBOX_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("TIMEBOX_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("TIMEBOX_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; use explicit path or default to <datadir>/timebox.log
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "timebox.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			settings, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Settings = settings

			// Open database connection
			dbOpts := db.OpenOptions{
				MaxOpenConns: settings.Database.MaxOpenConns,
				MaxIdleConns: settings.Database.MaxIdleConns,
				BusyTimeout:  settings.Database.BusyTimeout,
			}
			database, err = db.Open(settings.DataDir, dbOpts)
			if err != nil {
				return ctx, fmt.Errorf("open database: %w", err)
			}

			engine := timeboxing.NewService(
				stores.NewBoxStore(database),
				stores.NewBacklogStore(database),
				stores.NewLogStore(database),
				settings,
				log.Logger,
			)

			// Populate the pre-allocated App struct (commands already hold a pointer to it)
			*boxApp = *timeboxing.NewApp(engine, settings, database)

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, boxApp)

	app = commands.NewDayCmd(flags, boxApp).Register(app)
	app = commands.NewAddCmd(flags, boxApp).Register(app)
	app = commands.NewStartCmd(flags, boxApp).Register(app)
	app = commands.NewDoneCmd(flags, boxApp).Register(app)
	app = commands.NewExtendCmd(flags, boxApp).Register(app)
	app = commands.NewShiftCmd(flags, boxApp).Register(app)
	app = commands.NewSplitCmd(flags, boxApp).Register(app)
	app = commands.NewMissedCmd(flags, boxApp).Register(app)
	app = commands.NewPlanCmd(flags, boxApp).Register(app)
	app = commands.NewRmCmd(flags, boxApp).Register(app)
	app = commands.NewBacklogCmd(flags, boxApp).Register(app)
	app = commands.NewExportCmd(flags, boxApp).Register(app)
	app = commands.NewLogCmd(flags, boxApp).Register(app)

	// Register TUI flags on root command
	app.Flags = append(app.Flags, tuiCmd.Flags()...)

	// Open the day view when no subcommand is provided
	app.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'timebox --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
