// Package repository implements keyring.Keyring on PostgreSQL and MySQL.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/allisson/qrsecrets/internal/database"
	apperrors "github.com/allisson/qrsecrets/internal/errors"
	"github.com/allisson/qrsecrets/internal/keyring"
)

// PostgreSQLKeyring stores entries in the keyring_entries table (BYTEA values).
// It joins a transaction carried by ctx via database.GetTx().
type PostgreSQLKeyring struct {
	db *sql.DB
}

// NewPostgreSQLKeyring creates a new PostgreSQLKeyring.
func NewPostgreSQLKeyring(db *sql.DB) *PostgreSQLKeyring {
	return &PostgreSQLKeyring{db: db}
}

// Put upserts the entry.
func (p *PostgreSQLKeyring) Put(ctx context.Context, name string, value []byte) error {
	if err := keyring.ValidateName(name); err != nil {
		return err
	}
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO keyring_entries (name, value, updated_at)
			  VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := querier.ExecContext(ctx, query, name, value, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to put keyring entry")
	}
	return nil
}

// Get retrieves the entry value.
func (p *PostgreSQLKeyring) Get(ctx context.Context, name string) ([]byte, error) {
	if err := keyring.ValidateName(name); err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, p.db)

	var value []byte
	err := querier.QueryRowContext(ctx, `SELECT value FROM keyring_entries WHERE name = $1`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, keyring.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get keyring entry")
	}
	return value, nil
}

// Delete removes the entry.
func (p *PostgreSQLKeyring) Delete(ctx context.Context, name string) error {
	if err := keyring.ValidateName(name); err != nil {
		return err
	}
	querier := database.GetTx(ctx, p.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM keyring_entries WHERE name = $1`, name); err != nil {
		return apperrors.Wrap(err, "failed to delete keyring entry")
	}
	return nil
}
