package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/allisson/qrsecrets/cmd/app/commands"
	"github.com/allisson/qrsecrets/internal/app"
	"github.com/allisson/qrsecrets/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "validate-config",
			Usage: "Validate the configuration and show the selected crypto provider",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer closeContainer(ctx, container)

				container.Logger().Debug("validating configuration", slog.String("version", version))
				return commands.RunValidateConfig(cfg, container.Logger(), commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "stage",
			Usage: "Record the configured migration stage and show it",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer closeContainer(ctx, container)

				transition, err := container.StageTransition()
				if err != nil {
					return err
				}
				return commands.RunStage(transition, commands.DefaultIO().Writer)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run keyring database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := commands.RequirePersistentKeyring(cmd.Name, cfg); err != nil {
					return err
				}
				container := app.NewContainer(cfg)
				defer closeContainer(ctx, container)

				return commands.RunMigrations(container.Logger(), cfg.KeyringBackend, cfg.DBConnectionString)
			},
		},
	}
}
