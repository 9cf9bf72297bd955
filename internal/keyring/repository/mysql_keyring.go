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

// MySQLKeyring stores entries in the keyring_entries table (LONGBLOB values).
type MySQLKeyring struct {
	db *sql.DB
}

// NewMySQLKeyring creates a new MySQLKeyring.
func NewMySQLKeyring(db *sql.DB) *MySQLKeyring {
	return &MySQLKeyring{db: db}
}

// Put upserts the entry.
func (m *MySQLKeyring) Put(ctx context.Context, name string, value []byte) error {
	if err := keyring.ValidateName(name); err != nil {
		return err
	}
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO keyring_entries (name, value, updated_at)
			  VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`

	if _, err := querier.ExecContext(ctx, query, name, value, time.Now().UTC()); err != nil {
		return apperrors.Wrap(err, "failed to put keyring entry")
	}
	return nil
}

// Get retrieves the entry value.
func (m *MySQLKeyring) Get(ctx context.Context, name string) ([]byte, error) {
	if err := keyring.ValidateName(name); err != nil {
		return nil, err
	}
	querier := database.GetTx(ctx, m.db)

	var value []byte
	err := querier.QueryRowContext(ctx, `SELECT value FROM keyring_entries WHERE name = ?`, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, keyring.ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get keyring entry")
	}
	return value, nil
}

// Delete removes the entry.
func (m *MySQLKeyring) Delete(ctx context.Context, name string) error {
	if err := keyring.ValidateName(name); err != nil {
		return err
	}
	querier := database.GetTx(ctx, m.db)

	if _, err := querier.ExecContext(ctx, `DELETE FROM keyring_entries WHERE name = ?`, name); err != nil {
		return apperrors.Wrap(err, "failed to delete keyring entry")
	}
	return nil
}
