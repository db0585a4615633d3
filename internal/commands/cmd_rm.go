package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type RmCmd struct {
	flags *Flags
	app   *timeboxing.App
}

// NewRmCmd creates a new rm command
func NewRmCmd(flags *Flags, app *timeboxing.App) *RmCmd {
	return &RmCmd{flags: flags, app: app}
}

// Register adds the rm command to the application
func (cmd *RmCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:        "rm",
		Usage:       "Delete a box",
		UsageText:   "timebox rm <box-id>",
		Description: `Deletes the box. Its activity log entries are kept.`,
		Action:      cmd.run,
	})

	return app
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: timebox rm <box-id>")
	}

	if err := cmd.app.Engine.DeleteBox(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Deleted %s\n", id)
	return nil
}
