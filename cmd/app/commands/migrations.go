package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/qrsecrets/internal/config"
)

// migrationPaths maps SQL keyring backends to their migration sources.
var migrationPaths = map[string]string{
	config.KeyringPostgres: "file://migrations/postgresql",
	config.KeyringMySQL:    "file://migrations/mysql",
}

// RunMigrations applies the keyring schema migrations for a SQL keyring backend.
// Returns nil if there are no migrations to apply.
func RunMigrations(logger *slog.Logger, backend, connectionString string) error {
	migrationsPath, ok := migrationPaths[backend]
	if !ok {
		return fmt.Errorf("keyring backend %q has no migrations", backend)
	}

	logger.Info("running database migrations",
		slog.String("backend", backend),
	)

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
