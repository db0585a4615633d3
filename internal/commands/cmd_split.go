package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type SplitCmd struct {
	flags *Flags
	app   *timeboxing.App
}

// NewSplitCmd creates a new split command
func NewSplitCmd(flags *Flags, app *timeboxing.App) *SplitCmd {
	return &SplitCmd{flags: flags, app: app}
}

// Register adds the split command to the application
func (cmd *SplitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "split",
		Usage:     "End the active box now and reschedule the rest",
		UsageText: "timebox split [box-id]",
		Description: `Closes the active box at the current minute and schedules its
remaining duration as a new planned box at the next free slot. When no
time remains the box is simply finished.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *SplitCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		active, err := cmd.app.Engine.ActiveBox(ctx)
		if err != nil {
			return err
		}
		if active == nil {
			return fmt.Errorf("no active box to split")
		}
		id = active.ID
	}

	remainder, err := cmd.app.Engine.SplitActiveBox(ctx, id)
	switch {
	case errors.Is(err, timebox.ErrNotActive):
		return fmt.Errorf("box %s is not active", id)
	case errors.Is(err, timebox.ErrNoFreeSlot):
		return fmt.Errorf("no free slot for the remainder; finish the box or clear the day")
	case err != nil:
		return err
	}

	if remainder.ID == "" {
		fmt.Fprintf(c.Root().Writer, "Nothing left of %s; marked done\n", id)
		return nil
	}

	fmt.Fprintf(c.Root().Writer, "Split %s; remainder %s at %s\n", id, remainder.ID, formatSpan(remainder.Start, remainder.End))
	return nil
}
