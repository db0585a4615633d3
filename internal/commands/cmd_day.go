package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
	"github.com/INF-Lucas/Timeboxing/pkg/iojson"
)

type DayCmd struct {
	flags *Flags
	app   *timeboxing.App

	// flags
	jsonOutput bool
}

// NewDayCmd creates a new day command
func NewDayCmd(flags *Flags, app *timeboxing.App) *DayCmd {
	return &DayCmd{flags: flags, app: app}
}

// Register adds the day command to the application
func (cmd *DayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "day",
		Usage:     "List the boxes scheduled on a day",
		UsageText: "timebox day [date] [--json]",
		Description: `Displays a table of the day's boxes with their id, time span, status,
and urgency. The date defaults to today and accepts YYYY-MM-DD,
"today", "tomorrow", or "yesterday".

Use --json for script-friendly JSONL output.`,
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

func (cmd *DayCmd) run(ctx context.Context, c *cli.Command) error {
	day, err := parseDay(c.Args().First(), time.Now())
	if err != nil {
		return err
	}

	boxes, err := cmd.app.Engine.BoxesForDay(ctx, day)
	if err != nil {
		return fmt.Errorf("list day: %w", err)
	}

	if len(boxes) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No boxes on %s\n", day.Format("2006-01-02"))
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, b := range boxes {
			if err := iojson.WriteLine(out, b); err != nil {
				return fmt.Errorf("encode box: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTIME\tSTATUS\tURGENCY\tTITLE")

	for _, b := range boxes {
		title := b.Title
		if len(b.Tags) > 0 {
			title += "  [" + strings.Join(b.Tags, ", ") + "]"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			b.ID, formatSpan(b.Start, b.End), b.Status, timebox.UrgencyForBox(b), title)
	}

	return w.Flush()
}
