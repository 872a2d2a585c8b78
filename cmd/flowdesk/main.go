// Command flowdesk is the operator CLI over the workflow store.
package main

import (
	"context"
	"os"

	"github.com/dukex/flowdesk/pkg/log"
	cli "github.com/urfave/cli/v3"
)

func main() {
	err := NewCommand().Run(context.Background(), os.Args)
	if err != nil {
		log.WithModule("cli").Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// NewCommand builds the root command with every subcommand attached.
func NewCommand() *cli.Command {
	return &cli.Command{
		Name:                  "flowdesk",
		Usage:                 "Inspect and manage stored workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Storage URL (memory://, file://dir, postgres://..., redis://...)",
				Value:   "file://./data",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.SetupWriter(command.ErrWriter, command.String("log-level"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			listCommand(),
			showCommand(),
			versionsCommand(),
			exportCommand(),
			importCommand(),
			cloneCommand(),
			restoreCommand(),
			deleteCommand(),
			teamsCommand(),
			templatesCommand(),
			activityCommand(),
		},
	}
}
