package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dukex/flowdesk/pkg/cmd"
	cli "github.com/urfave/cli/v3"
)

func templatesCommand() *cli.Command {
	return &cli.Command{
		Name:  "templates",
		Usage: "Browse the template catalog and create workflows from it",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List templates",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "category", Usage: "Only templates in this category"},
					&cli.StringFlag{Name: "search", Usage: "Match name or description"},
				},
				Action: func(ctx context.Context, command *cli.Command) error {
					return withComponents(ctx, command, func(c *cmd.Components) error {
						writer := tabwriter.NewWriter(command.Root().Writer, 0, 4, 2, ' ', 0)
						fmt.Fprintln(writer, "ID\tNAME\tCATEGORY\tNODES")

						for _, tmpl := range c.Templates.List(command.String("category"), command.String("search")) {
							fmt.Fprintf(writer, "%s\t%s\t%s\t%d\n", tmpl.ID, tmpl.Name, tmpl.Category, len(tmpl.Nodes))
						}

						return writer.Flush()
					})
				},
			},
			{
				Name:      "use",
				Usage:     "Create a workflow from a template",
				ArgsUsage: "<template-id>",
				Action: func(ctx context.Context, command *cli.Command) error {
					id, err := requireArg(command, 0, "template-id")
					if err != nil {
						return err
					}

					return withComponents(ctx, command, func(c *cmd.Components) error {
						created, err := c.Templates.Use(ctx, id)
						if err != nil {
							return err
						}

						return printJSON(command, created)
					})
				},
			},
		},
	}
}
