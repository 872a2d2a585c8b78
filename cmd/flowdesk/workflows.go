package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/log"
	"github.com/dukex/flowdesk/pkg/services"
	cli "github.com/urfave/cli/v3"
)

var errMissingArgument = errors.New("missing argument")

func requireArg(command *cli.Command, index int, name string) (string, error) {
	value := command.Args().Get(index)
	if value == "" {
		return "", fmt.Errorf("%w: %s", errMissingArgument, name)
	}

	return value, nil
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List workflows",
		Action: func(ctx context.Context, command *cli.Command) error {
			return withComponents(ctx, command, func(c *cmd.Components) error {
				writer := tabwriter.NewWriter(command.Root().Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "ID\tNAME\tVERSION\tNODES\tUPDATED")

				for _, wf := range c.Workflows.List(ctx) {
					fmt.Fprintf(writer, "%s\t%s\t%d\t%d\t%s\n", wf.ID, wf.Name, wf.Version, len(wf.Nodes), wf.UpdatedAt.Format("2006-01-02 15:04"))
				}

				return writer.Flush()
			})
		},
	}
}

func showCommand() *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Print one workflow as JSON",
		ArgsUsage: "<workflow-id>",
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := requireArg(command, 0, "workflow-id")
			if err != nil {
				return err
			}

			return withComponents(ctx, command, func(c *cmd.Components) error {
				wf, err := c.Workflows.FetchByID(ctx, id)
				if err != nil {
					return err
				}

				return printJSON(command, wf)
			})
		},
	}
}

func versionsCommand() *cli.Command {
	return &cli.Command{
		Name:      "versions",
		Usage:     "List the version history of a workflow, newest first",
		ArgsUsage: "<workflow-id>",
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := requireArg(command, 0, "workflow-id")
			if err != nil {
				return err
			}

			return withComponents(ctx, command, func(c *cmd.Components) error {
				versions, err := c.Workflows.Versions(ctx, id)
				if err != nil {
					return err
				}

				writer := tabwriter.NewWriter(command.Root().Writer, 0, 4, 2, ' ', 0)
				fmt.Fprintln(writer, "VERSION\tCREATED\tCOMMENT")

				for _, entry := range versions {
					fmt.Fprintf(writer, "%d\t%s\t%s\n", entry.Version, entry.CreatedAt.Format("2006-01-02 15:04"), entry.Comment)
				}

				return writer.Flush()
			})
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:      "export",
		Usage:     "Write a workflow export document (empty for an unknown id)",
		ArgsUsage: "<workflow-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "versions", Usage: "Include the version history"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Write to a file instead of stdout"},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := requireArg(command, 0, "workflow-id")
			if err != nil {
				return err
			}

			return withComponents(ctx, command, func(c *cmd.Components) error {
				document, err := c.Workflows.Export(ctx, id, command.Bool("versions"))
				if services.IsNotFoundError(err) {
					log.WithModule("cli").WarnContext(ctx, "Nothing to export", "workflow_id", id)
				} else if err != nil {
					return err
				}

				if path := command.String("output"); path != "" {
					return os.WriteFile(path, []byte(document), 0o600)
				}

				if document == "" {
					return nil
				}

				_, err = fmt.Fprintln(command.Root().Writer, document)

				return err
			})
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "Import an export document as a new workflow",
		ArgsUsage: "<file|->",
		Action: func(ctx context.Context, command *cli.Command) error {
			path, err := requireArg(command, 0, "file")
			if err != nil {
				return err
			}

			var document []byte
			if path == "-" {
				document, err = io.ReadAll(command.Root().Reader)
			} else {
				document, err = os.ReadFile(path)
			}

			if err != nil {
				return fmt.Errorf("failed to read import document: %w", err)
			}

			return withComponents(ctx, command, func(c *cmd.Components) error {
				imported, err := c.Workflows.Import(ctx, string(document))
				if err != nil {
					return err
				}

				return printJSON(command, imported)
			})
		},
	}
}

func cloneCommand() *cli.Command {
	return &cli.Command{
		Name:      "clone",
		Usage:     "Clone a workflow",
		ArgsUsage: "<workflow-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "Name of the clone (defaults to \"<name> (Copy)\")"},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := requireArg(command, 0, "workflow-id")
			if err != nil {
				return err
			}

			return withComponents(ctx, command, func(c *cmd.Components) error {
				cloned, err := c.Workflows.Clone(ctx, id, command.String("name"))
				if err != nil {
					return err
				}

				return printJSON(command, cloned)
			})
		},
	}
}

func restoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "restore",
		Usage:     "Restore a workflow to a recorded version",
		ArgsUsage: "<workflow-id> <version>",
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := requireArg(command, 0, "workflow-id")
			if err != nil {
				return err
			}

			rawVersion, err := requireArg(command, 1, "version")
			if err != nil {
				return err
			}

			version, err := strconv.Atoi(rawVersion)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", rawVersion, err)
			}

			return withComponents(ctx, command, func(c *cmd.Components) error {
				restored, err := c.Workflows.Restore(ctx, id, version)
				if err != nil {
					return err
				}

				return printJSON(command, restored)
			})
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Aliases:   []string{"rm"},
		Usage:     "Delete a workflow with its history, comments and shares",
		ArgsUsage: "<workflow-id>",
		Action: func(ctx context.Context, command *cli.Command) error {
			id, err := requireArg(command, 0, "workflow-id")
			if err != nil {
				return err
			}

			return withComponents(ctx, command, func(c *cmd.Components) error {
				return c.Workflows.Delete(ctx, id)
			})
		},
	}
}
