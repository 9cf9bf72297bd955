package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnect_Error(t *testing.T) {
	cfg := Config{
		Driver:             "invalid",
		ConnectionString:   "invalid",
		MaxOpenConnections: 10,
		MaxIdleConnections: 5,
		ConnMaxLifetime:    time.Hour,
	}

	db, err := Connect(context.Background(), cfg)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "sql: unknown driver")
}

func TestConnect_Success(t *testing.T) {
	_, mock, err := sqlmock.NewWithDSN("connect_success", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing()

	db, err := Connect(context.Background(), Config{Driver: "sqlmock", ConnectionString: "connect_success"})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConnect_PingError(t *testing.T) {
	_, mock, err := sqlmock.NewWithDSN("connect_ping_error", sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing().WillReturnError(errors.New("unreachable"))

	db, err := Connect(context.Background(), Config{Driver: "sqlmock", ConnectionString: "connect_ping_error"})
	assert.ErrorContains(t, err, "failed to ping database")
	assert.Nil(t, db)
}
