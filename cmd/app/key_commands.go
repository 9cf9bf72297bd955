package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/qrsecrets/cmd/app/commands"
	"github.com/allisson/qrsecrets/internal/app"
	"github.com/allisson/qrsecrets/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-kms-key",
			Usage: "Generate a local KMS key URI for development (base64key://)",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer closeContainer(ctx, container)

				return commands.RunCreateKMSKey(
					ctx,
					container.KMSService(),
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
