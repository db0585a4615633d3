package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type DoneCmd struct {
	flags *Flags
	app   *timeboxing.App
}

// NewDoneCmd creates a new done command
func NewDoneCmd(flags *Flags, app *timeboxing.App) *DoneCmd {
	return &DoneCmd{flags: flags, app: app}
}

// Register adds the done command to the application
func (cmd *DoneCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "done",
		Usage:       "Mark a box as done",
		UsageText:   "timebox done [box-id]",
		Description: `Marks the box done. Without an id, finishes the currently active box.`,
		Action:      cmd.run,
	})

	return app
}

func (cmd *DoneCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		active, err := cmd.app.Engine.ActiveBox(ctx)
		if err != nil {
			return err
		}
		if active == nil {
			return fmt.Errorf("no active box; pass a box id")
		}
		id = active.ID
	}

	if err := cmd.app.Engine.FinishBox(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Done %s\n", id)
	return nil
}
