// Command docgen generates CLI reference documentation from the timebox
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/commands"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

func main() {
	flags := &commands.Flags{}
	app := &timeboxing.App{}

	root := &cli.Command{
		Name:      "timebox",
		Usage:     "Plan your day in time boxes",
		UsageText: "timebox [global options] command [command options]",
		Description: `Timebox schedules your day as a column of fixed time boxes: plan them,
start one at a time, and let overruns split or shift into the next
free slot.

Run 'timebox' with no arguments to open the interactive day view.
Run 'timebox add' to schedule a box from the command line.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("TIMEBOX_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/timebox.log)",
				Sources: cli.EnvVars("TIMEBOX_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("TIMEBOX_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("TIMEBOX_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, app)
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root = commands.NewDayCmd(flags, app).Register(root)
	root = commands.NewAddCmd(flags, app).Register(root)
	root = commands.NewStartCmd(flags, app).Register(root)
	root = commands.NewDoneCmd(flags, app).Register(root)
	root = commands.NewExtendCmd(flags, app).Register(root)
	root = commands.NewShiftCmd(flags, app).Register(root)
	root = commands.NewSplitCmd(flags, app).Register(root)
	root = commands.NewMissedCmd(flags, app).Register(root)
	root = commands.NewPlanCmd(flags, app).Register(root)
	root = commands.NewRmCmd(flags, app).Register(root)
	root = commands.NewBacklogCmd(flags, app).Register(root)
	root = commands.NewExportCmd(flags, app).Register(root)
	root = commands.NewLogCmd(flags, app).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
