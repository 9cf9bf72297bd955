package commands

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("memory-backend", func(t *testing.T) {
		err := RunMigrations(logger, "memory", "")
		require.Error(t, err)
		require.Contains(t, err.Error(), "has no migrations")
	})

	t.Run("unknown-backend", func(t *testing.T) {
		err := RunMigrations(logger, "sqlite", "sqlite://local.db")
		require.Error(t, err)
		require.Contains(t, err.Error(), "has no migrations")
	})

	t.Run("invalid-connection-string", func(t *testing.T) {
		err := RunMigrations(logger, "postgres", "invalid-connection-string")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create migrate instance")
	})
}
