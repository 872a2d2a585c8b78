package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dukex/flowdesk/pkg/cmd"
	"github.com/dukex/flowdesk/pkg/log"
	cli "github.com/urfave/cli/v3"
)

// withComponents opens the store named by --database-url, runs fn over the
// service graph and closes everything afterwards. Events are delivered
// synchronously so the activity feed is written before the process exits.
func withComponents(ctx context.Context, command *cli.Command, fn func(*cmd.Components) error) error {
	logger := log.WithModule("cli")

	store, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
	if err != nil {
		return err
	}

	bus, err := cmd.NewEventBus("sync", logger, nil, false)
	if err != nil {
		_ = store.Close(ctx)

		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	components, err := cmd.NewComponents(ctx, logger, store, bus, nil)
	if err != nil {
		_ = bus.Close()
		_ = store.Close(ctx)

		return err
	}

	defer func() {
		err := components.Close(context.Background())
		if err != nil {
			logger.ErrorContext(ctx, "Failed to close components", "error", err)
		}
	}()

	return fn(components)
}

func printJSON(command *cli.Command, value any) error {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	_, err = fmt.Fprintln(command.Root().Writer, string(encoded))

	return err
}
