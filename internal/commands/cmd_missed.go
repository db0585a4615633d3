package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type MissedCmd struct {
	flags *Flags
	app   *timeboxing.App
}

// NewMissedCmd creates a new missed command
func NewMissedCmd(flags *Flags, app *timeboxing.App) *MissedCmd {
	return &MissedCmd{flags: flags, app: app}
}

// Register adds the missed command to the application
func (cmd *MissedCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "missed",
		Usage:     "Mark a day's overdue planned boxes as missed",
		UsageText: "timebox missed [date]",
		Description: `Flips every planned box on the day whose end has passed to missed.
Safe to run repeatedly; boxes created in the last few minutes are left
alone. Future days are never touched.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *MissedCmd) run(ctx context.Context, c *cli.Command) error {
	day, err := parseDay(c.Args().First(), time.Now())
	if err != nil {
		return err
	}

	n, err := cmd.app.Engine.MarkMissedForDay(ctx, day)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Marked %d box(es) missed on %s\n", n, day.Format("2006-01-02"))
	return nil
}
