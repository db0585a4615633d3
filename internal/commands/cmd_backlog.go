package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/INF-Lucas/Timeboxing/internal/core/validate"
	"github.com/INF-Lucas/Timeboxing/internal/timeboxing"
	"github.com/INF-Lucas/Timeboxing/pkg/iojson"
)

type BacklogCmd struct {
	flags *Flags
	app   *timeboxing.App

	// flags
	estimate   int
	tags       string
	notes      string
	date       string
	jsonOutput bool
}

// NewBacklogCmd creates a new backlog command
func NewBacklogCmd(flags *Flags, app *timeboxing.App) *BacklogCmd {
	return &BacklogCmd{flags: flags, app: app}
}

// Register adds the backlog command group to the application
func (cmd *BacklogCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "backlog",
		Usage:     "Manage unscheduled tasks",
		UsageText: "timebox backlog <add|ls|rm|promote>",
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a backlog item",
				UsageText: "timebox backlog add <title> [--estimate minutes]",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:        "estimate",
						Usage:       "estimated minutes (default 30, clamped to 5-480)",
						Destination: &cmd.estimate,
					},
					&cli.StringFlag{
						Name:        "tags",
						Usage:       "comma-separated tags",
						Destination: &cmd.tags,
					},
					&cli.StringFlag{
						Name:        "notes",
						Usage:       "free-form notes",
						Destination: &cmd.notes,
					},
				},
				Action: cmd.runAdd,
			},
			{
				Name:      "ls",
				Usage:     "List backlog items",
				UsageText: "timebox backlog ls [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "rm",
				Usage:     "Delete a backlog item",
				UsageText: "timebox backlog rm <item-id>",
				Action:    cmd.runRm,
			},
			{
				Name:      "promote",
				Usage:     "Schedule a backlog item into the day",
				UsageText: "timebox backlog promote <item-id> [--date date]",
				Description: `Copies the item into a box at the next free slot sized by its
estimate. The item stays on the backlog.`,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "date",
						Usage:       "target day (YYYY-MM-DD, today, tomorrow)",
						Destination: &cmd.date,
					},
				},
				Action: cmd.runPromote,
			},
		},
	})

	return app
}

func (cmd *BacklogCmd) runAdd(ctx context.Context, c *cli.Command) error {
	title := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if err := validate.BoxTitleField("title", title); err != nil {
		return err
	}

	var tags []string
	if cmd.tags != "" {
		for _, t := range strings.Split(cmd.tags, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	item, err := cmd.app.Engine.AddBacklogItem(ctx, title, cmd.estimate, tags, cmd.notes)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Added %s %q (%d min)\n", item.ID, item.Title, item.EstimateMinutes)
	return nil
}

func (cmd *BacklogCmd) runLs(ctx context.Context, c *cli.Command) error {
	items, err := cmd.app.Engine.ListBacklog(ctx)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintln(os.Stderr, "Backlog is empty")
		}
		return nil
	}

	out := c.Root().Writer

	if cmd.jsonOutput {
		for _, item := range items {
			if err := iojson.WriteLine(out, item); err != nil {
				return fmt.Errorf("encode item: %w", err)
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tEST\tTITLE")
	for _, item := range items {
		title := item.Title
		if len(item.Tags) > 0 {
			title += "  [" + strings.Join(item.Tags, ", ") + "]"
		}
		_, _ = fmt.Fprintf(w, "%s\t%dm\t%s\n", item.ID, item.EstimateMinutes, title)
	}

	return w.Flush()
}

func (cmd *BacklogCmd) runRm(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: timebox backlog rm <item-id>")
	}

	if err := cmd.app.Engine.DeleteBacklogItem(ctx, id); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Deleted %s\n", id)
	return nil
}

func (cmd *BacklogCmd) runPromote(ctx context.Context, c *cli.Command) error {
	id := c.Args().First()
	if id == "" {
		return fmt.Errorf("usage: timebox backlog promote <item-id>")
	}

	day, err := parseDay(cmd.date, time.Now())
	if err != nil {
		return err
	}

	box, err := cmd.app.Engine.PromoteBacklogItem(ctx, id, day, time.Now())
	if err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "Scheduled %s at %s %s\n", box.ID, box.Start.Format("2006-01-02"), formatSpan(box.Start, box.End))
	return nil
}
