package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type ExtendCmd struct {
	flags *Flags
	app   *timeboxing.App

	// flags
	force bool
}

// NewExtendCmd creates a new extend command
func NewExtendCmd(flags *Flags, app *timeboxing.App) *ExtendCmd {
	return &ExtendCmd{flags: flags, app: app}
}

// Register adds the extend command to the application
func (cmd *ExtendCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "extend",
		Usage:     "Move a box's end by N minutes",
		UsageText: "timebox extend <box-id> <minutes> [--force]",
		Description: `Extends (positive) or shortens (negative) the box. The end can never
move at or before the start. An extension that would overlap another
box is rejected unless --force is given.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "save even when the new end overlaps another box",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExtendCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	deltaArg := c.Args().Get(1)
	if id == "" || deltaArg == "" {
		return fmt.Errorf("usage: timebox extend <box-id> <minutes>")
	}

	delta, err := strconv.Atoi(deltaArg)
	if err != nil {
		return fmt.Errorf("invalid minutes %q", deltaArg)
	}

	if !cmd.force {
		box, err := cmd.app.Engine.BoxByID(ctx, id)
		if err != nil {
			return err
		}
		newEnd := box.End.Add(time.Duration(delta) * time.Minute)

		dayBoxes, err := cmd.app.Engine.BoxesForDay(ctx, box.Start)
		if err != nil {
			return fmt.Errorf("check overlap: %w", err)
		}
		if timebox.HasOverlap(box.Start, newEnd, dayBoxes, id) {
			return fmt.Errorf("%s overlaps another box; use --force to save anyway or 'timebox shift' to move it",
				formatSpan(box.Start, newEnd))
		}
	}

	if err := cmd.app.Engine.ExtendBox(ctx, id, delta); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Extended %s by %d minutes\n", id, delta)
	return nil
}
