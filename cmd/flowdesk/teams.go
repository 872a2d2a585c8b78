package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/models"
	cli "github.com/urfave/cli/v3"
)

func teamsCommand() *cli.Command {
	return &cli.Command{
		Name:  "teams",
		Usage: "Manage teams and workflow shares",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List teams",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "user", Usage: "Only teams this user belongs to"},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					return withComponents(ctx, command, func(c *cmd.Components) error {
						writer := tabwriter.NewWriter(command.Root().Writer, 0, 4, 2, ' ', 0)
						fmt.Fprintln(writer, "ID\tNAME\tOWNER\tMEMBERS")

						for _, team := range c.Teams.List(ctx, command.String("user")) {
							fmt.Fprintf(writer, "%s\t%s\t%s\t%d\n", team.ID, team.Name, team.OwnerID, len(team.Members))
						}

						return writer.Flush()
					})
				},
			},
			{
				Name:      "create",
				Usage:     "Create a team",
				ArgsUsage: "<name>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "owner", Usage: "Owner email", Required: true},
					&cli.StringFlag{Name: "description"},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					name, err := requireArg(command, 0, "name")
					if err != nil {
						return err
					}

					return withComponents(ctx, command, func(c *cmd.Components) error {
						owner := command.String("owner")

						created, err := c.Teams.Create(ctx, name, command.String("description"), owner, owner)
						if err != nil {
							return err
						}

						return printJSON(command, created)
					})
				},
			},
			{
				Name:      "share",
				Usage:     "Share a workflow with a team",
				ArgsUsage: "<workflow-id> <team-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "permissions", Usage: "view, edit or manage", Value: string(models.PermissionView)},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					workflowID, err := requireArg(command, 0, "workflow-id")
					if err != nil {
						return err
					}

					teamID, err := requireArg(command, 1, "team-id")
					if err != nil {
						return err
					}

					return withComponents(ctx, command, func(c *cmd.Components) error {
						share, err := c.Teams.Share(ctx, workflowID, teamID, models.Permission(command.String("permissions")))
						if err != nil {
							return err
						}

						return printJSON(command, share)
					})
				},
			},
		},
	}
}
