package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
	"github.com/INF-Lucas/Timeboxing/pkg/iojson"
)

type LogCmd struct {
	flags *Flags
	app   *timeboxing.App

	// flags
	jsonOutput bool
}

// NewLogCmd creates a new log command
func NewLogCmd(flags *Flags, app *timeboxing.App) *LogCmd {
	return &LogCmd{flags: flags, app: app}
}

// Register adds the log command to the application
func (cmd *LogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "log",
		Usage:     "Show a box's activity log",
		UsageText: "timebox log <box-id> [--json]",
		Description: `Prints the box's activity log entries oldest first. Entries survive
box deletion.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output as JSON lines",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LogCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: timebox log <box-id>")
	}

	entries, err := cmd.app.Engine.BoxLog(ctx, id)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No log entries for %s\n", id)
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, e := range entries {
			if err := iojson.WriteLine(out, e); err != nil {
				return fmt.Errorf("encode entry: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "WHEN\tEVENT\tDETAILS")
	for _, e := range entries {
		details := ""
		for k, v := range e.Payload {
			if details != "" {
				details += " "
			}
			details += fmt.Sprintf("%s=%v", k, v)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.CreatedAt.Format("2006-01-02 15:04"), e.Event, details)
	}

	return w.Flush()
}
