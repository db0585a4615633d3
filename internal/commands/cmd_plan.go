package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
)

type PlanCmd struct {
	flags *Flags
	app   *timeboxing.App
}

// NewPlanCmd creates a new plan command
func NewPlanCmd(flags *Flags, app *timeboxing.App) *PlanCmd {
	return &PlanCmd{flags: flags, app: app}
}

// Register adds the plan command to the application
func (cmd *PlanCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "plan",
		Usage:     "Ensure the day has its planning session",
		UsageText: "timebox plan [date]",
		Description: `Creates the day's planning-session box at the workday start when it
does not exist yet. Idempotent.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *PlanCmd) run(ctx context.Context, c *cli.Command) error {
	day, err := parseDay(c.Args().First(), time.Now())
	if err != nil {
		return err
	}

	box, err := cmd.app.Engine.EnsurePlanSessionForDay(ctx, day)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Plan session %s at %s\n", box.ID, formatSpan(box.Start, box.End))
	return nil
}
