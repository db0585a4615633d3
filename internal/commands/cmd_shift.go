package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type ShiftCmd struct {
	flags *Flags
	app   *timeboxing.App
}

// NewShiftCmd creates a new shift command
func NewShiftCmd(flags *Flags, app *timeboxing.App) *ShiftCmd {
	return &ShiftCmd{flags: flags, app: app}
}

// Register adds the shift command to the application
func (cmd *ShiftCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "shift",
		Usage:     "Relocate a box to the next free slot",
		UsageText: "timebox shift <box-id>",
		Description: `Moves the box to the next free slot of the same duration and resets it
to planned. Boxes on past days land on tomorrow; full days fall over to
the following days.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *ShiftCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: timebox shift <box-id>")
	}

	if err := cmd.app.Engine.ShiftBox(ctx, id); err != nil {
		if errors.Is(err, timebox.ErrNoFreeSlot) {
			return fmt.Errorf("no free slot found in the next days; clear some boxes first")
		}
		return err
	}

	box, err := cmd.app.Engine.BoxByID(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Shifted %s to %s %s\n", id, box.Start.Format("2006-01-02"), formatSpan(box.Start, box.End))
	return nil
}
