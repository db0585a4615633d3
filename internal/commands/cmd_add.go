package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type AddCmd struct {
	flags *Flags
	app   *timeboxing.App

	// flags
	date    string
	at      string
	minutes int
	tags    string
	color   string
	notes   string
}

// NewAddCmd creates a new add command
func NewAddCmd(flags *Flags, app *timeboxing.App) *AddCmd {
	return &AddCmd{flags: flags, app: app}
}

// Register adds the add command to the application
func (cmd *AddCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Schedule a new box",
		UsageText: "timebox add <title> [--at HH:MM] [--for minutes] [--date date]",
		Description: `Schedules a box with the given title. Without --at the box is placed
at the next free slot on the target day; with --at it is placed
exactly there, rejecting the save when it would overlap another box.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "date",
				Usage:       "target day (YYYY-MM-DD, today, tomorrow)",
				Destination: &cmd.date,
			},
			&cli.StringFlag{
				Name:        "at",
				Usage:       "exact start time (HH:MM)",
				Destination: &cmd.at,
			},
			&cli.IntFlag{
				Name:        "for",
				Usage:       "duration in minutes",
				Value:       30,
				Destination: &cmd.minutes,
			},
			&cli.StringFlag{
				Name:        "tags",
				Usage:       "comma-separated tags",
				Destination: &cmd.tags,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "display color (hex)",
				Destination: &cmd.color,
			},
			&cli.StringFlag{
				Name:        "notes",
				Usage:       "free-form notes",
				Destination: &cmd.notes,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))

	day, err := parseDay(cmd.date, time.Now())
	if err != nil {
		return err
	}

	var start time.Time
	if cmd.at != "" {
		start, err = parseClockOn(day, cmd.at)
		if err != nil {
			return err
		}
	} else {
		slot, err := cmd.app.Engine.FindNextFreeSlot(ctx, day, cmd.minutes, time.Now(), "")
		if err != nil {
			if errors.Is(err, timebox.ErrNoFreeSlot) {
				return fmt.Errorf("no free %d-minute slot on %s", cmd.minutes, day.Format("2006-01-02"))
			}
			return fmt.Errorf("find slot: %w", err)
		}
		start = slot.Start
	}
	end := start.Add(time.Duration(cmd.minutes) * time.Minute)

	if cmd.at != "" {
		dayBoxes, err := cmd.app.Engine.BoxesForDay(ctx, day)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if timebox.HasOverlap(start, end, dayBoxes, "") {
			return fmt.Errorf("%s overlaps an existing box; pick another time or use 'timebox shift'", formatSpan(start, end))
		}
	}

	var tags []string
	if cmd.tags != "" {
		for _, t := range strings.Split(cmd.tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	box, err := cmd.app.Engine.CreateBox(ctx, timeboxing.CreateBoxInput{
		Title: title,
		Start: start,
		End:   end,
		Tags:  tags,
		Color: cmd.color,
		Notes: cmd.notes,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Scheduled %s %s %q\n", box.ID, formatSpan(box.Start, box.End), box.Title)
	return nil
}
