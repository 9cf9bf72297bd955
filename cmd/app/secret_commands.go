package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/qrsecrets/cmd/app/commands"
	"github.com/allisson/qrsecrets/internal/app"
	"github.com/allisson/qrsecrets/internal/config"
)

func nameFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "name",
		Aliases:  []string{"n"},
		Required: true,
		Usage:    "Secret name",
	}
}

func base64Flag(usage string) *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:    "base64",
		Aliases: []string{"b"},
		Value:   false,
		Usage:   usage,
	}
}

func getSecretCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "store-secret",
			Usage: "Encrypt and store a secret with the configured provider",
			Flags: []cli.Flag{
				nameFlag(),
				&cli.StringFlag{
					Name:     "value",
					Aliases:  []string{"v"},
					Required: true,
					Usage:    "Secret value",
				},
				base64Flag("Treat --value as base64-encoded binary data"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := commands.RequirePersistentKeyring(cmd.Name, cfg); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				logger := container.Logger()
				defer closeContainer(ctx, container)

				manager, err := container.SecretManager()
				if err != nil {
					return err
				}
				return commands.RunStoreSecret(
					ctx,
					manager,
					logger,
					cmd.String("name"),
					cmd.String("value"),
					cmd.Bool("base64"),
				)
			},
		},
		{
			Name:  "get-secret",
			Usage: "Decrypt a secret and write it to stdout",
			Flags: []cli.Flag{
				nameFlag(),
				base64Flag("Write the value base64-encoded"),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := commands.RequirePersistentKeyring(cmd.Name, cfg); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer closeContainer(ctx, container)

				manager, err := container.SecretManager()
				if err != nil {
					return err
				}
				return commands.RunGetSecret(
					ctx,
					manager,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.Bool("base64"),
				)
			},
		},
		{
			Name:  "migrate-secret",
			Usage: "Re-encrypt secrets under the configured provider",
			Flags: []cli.Flag{
				&cli.StringSliceFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Secret name (repeat for several secrets)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := commands.RequirePersistentKeyring(cmd.Name, cfg); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer closeContainer(ctx, container)

				manager, err := container.SecretManager()
				if err != nil {
					return err
				}
				return commands.RunMigrateSecrets(
					ctx,
					manager,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.StringSlice("name"),
				)
			},
		},
		{
			Name:  "delete-secret",
			Usage: "Delete a secret and its classical copy",
			Flags: []cli.Flag{
				nameFlag(),
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := commands.RequirePersistentKeyring(cmd.Name, cfg); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer closeContainer(ctx, container)

				manager, err := container.SecretManager()
				if err != nil {
					return err
				}
				return commands.RunDeleteSecret(ctx, manager, container.Logger(), cmd.String("name"))
			},
		},
	}
}

// closeContainer shuts the container down and logs failures instead of returning them.
func closeContainer(ctx context.Context, container *app.Container) {
	if err := container.Shutdown(context.WithoutCancel(ctx)); err != nil {
		container.Logger().Error("failed to shutdown container", slog.Any("error", err))
	}
}
