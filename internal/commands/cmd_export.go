package commands

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type ExportCmd struct {
	flags *Flags
	app   *timeboxing.App

	// flags
	format string
}

// NewExportCmd creates a new export command
func NewExportCmd(flags *Flags, app *timeboxing.App) *ExportCmd {
	return &ExportCmd{flags: flags, app: app}
}

// Register adds the export command to the application
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export a day's boxes",
		UsageText: "timebox export [date] [--format csv|markdown]",
		Description: `Writes the day's boxes to stdout. CSV carries one row per box;
markdown renders a schedule section plus the day's activity log.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "format",
				Aliases:     []string{"f"},
				Usage:       "output format (csv, markdown)",
				Value:       "csv",
				Destination: &cmd.format,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	day, err := parseDay(c.Args().First(), time.Now())
	if err != nil {
		return err
	}

	boxes, err := cmd.app.Engine.BoxesForDay(ctx, day)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}

	out := c.Root().Writer

	switch cmd.format {
	case "csv":
		return writeCSV(out, boxes)
	case "markdown", "md":
		entries, err := cmd.app.Engine.DayLog(ctx, day)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		return writeMarkdown(out, day, boxes, entries)
	default:
		return fmt.Errorf("unknown format %q: want csv or markdown", cmd.format)
	}
}

func writeCSV(out io.Writer, boxes []timebox.Box) error {
	w := csv.NewWriter(out)
	if err := w.Write([]string{"id", "title", "start", "end", "minutes", "status", "tags"}); err != nil {
		return err
	}

	for _, b := range boxes {
		rec := []string{
			b.ID,
			b.Title,
			b.Start.Format(time.RFC3339),
			b.End.Format(time.RFC3339),
			strconv.Itoa(b.DurationMinutes()),
			string(b.Status),
			strings.Join(b.Tags, ","),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func writeMarkdown(out io.Writer, day time.Time, boxes []timebox.Box, entries []timebox.LogEntry) error {
	fmt.Fprintf(out, "# %s\n\n## Schedule\n\n", day.Format("2006-01-02"))

	if len(boxes) == 0 {
		fmt.Fprintln(out, "_No boxes._")
	}
	for _, b := range boxes {
		marker := " "
		switch b.Status {
		case timebox.StatusDone:
			marker = "x"
		case timebox.StatusMissed:
			marker = "-"
		}
		fmt.Fprintf(out, "- [%s] %s %s", marker, formatSpan(b.Start, b.End), b.Title)
		if len(b.Tags) > 0 {
			fmt.Fprintf(out, " `%s`", strings.Join(b.Tags, "` `"))
		}
		fmt.Fprintln(out)
	}

	if len(entries) > 0 {
		fmt.Fprintf(out, "\n## Activity\n\n")
		for _, e := range entries {
			fmt.Fprintf(out, "- %s %s %s\n", e.CreatedAt.Format("15:04"), e.Event, e.BoxID)
		}
	}

	return nil
}
