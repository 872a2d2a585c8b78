package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func activityCommand() *cli.Command {
	return &cli.Command{
		Name:  "activity",
		Usage: "Show the activity feed",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "type", Usage: "Filter by type (run, edit, delete, share, create)"},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			return withComponents(ctx, command, func(c *cmd.Components) error {
				writer := tabwriter.NewWriter(command.Root().Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "TIME\tTYPE\tRESOURCE\tDESCRIPTION")

				for _, entry := range c.Activity.Feed(ctx, models.ActivityType(command.String("type"))) {
					fmt.Fprintf(writer, "%s\t%s\t%s\t%s\n", entry.Timestamp.Format("2006-01-02 15:04"), entry.Type, entry.Resource, entry.Description)
				}

				return writer.Flush()
			})
		},
	}
}
