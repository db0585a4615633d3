package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/timebox"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type StartCmd struct {
	flags *Flags
	app   *timeboxing.App
}

// NewStartCmd creates a new start command
func NewStartCmd(flags *Flags, app *timeboxing.App) *StartCmd {
	return &StartCmd{flags: flags, app: app}
}

// Register adds the start command to the application
func (cmd *StartCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "start",
		Usage:     "Start working on a box",
		UsageText: "timebox start <box-id>",
		Description: `Marks the box active. At most one box can be active at a time; finish
or split the current one first.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *StartCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: timebox start <box-id>")
	}

	if err := cmd.app.Engine.StartBox(ctx, id); err != nil {
		if errors.Is(err, timebox.ErrActiveConflict) {
			active, aerr := cmd.app.Engine.ActiveBox(ctx)
			if aerr == nil && active != nil {
				return fmt.Errorf("box %s %q is already active; finish or split it first", active.ID, active.Title)
			}
		}
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Started %s\n", id)
	return nil
}
