package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backendFixture struct {
	driver  string
	skip    func(t *testing.T)
	setup   func(t *testing.T) *sql.DB
	cleanup func(t *testing.T, db *sql.DB)
}

var backendFixtures = []backendFixture{
	{driver: "postgres", skip: SkipIfNoPostgres, setup: SetupPostgresDB, cleanup: CleanupPostgresDB},
	{driver: "mysql", skip: SkipIfNoMySQL, setup: SetupMySQLDB, cleanup: CleanupMySQLDB},
}

func countKeyringEntries(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM keyring_entries").Scan(&count))
	return count
}

func TestKeyringFixtures(t *testing.T) {
	for _, fx := range backendFixtures {
		t.Run(fx.driver, func(t *testing.T) {
			fx.skip(t)

			db := fx.setup(t)
			defer TeardownDB(t, db)

			assert.Equal(t, 0, countKeyringEntries(t, db), "database should be clean after setup")

			InsertKeyringEntry(t, db, fx.driver, "b", []byte("first"))
			InsertKeyringEntry(t, db, fx.driver, "a", []byte("second"))
			InsertKeyringEntry(t, db, fx.driver, "b", []byte("replaced"))
			assert.Equal(t, []string{"a", "b"}, KeyringEntryNames(t, db))

			var value []byte
			err := db.QueryRow("SELECT value FROM keyring_entries WHERE name = 'b'").Scan(&value)
			require.NoError(t, err)
			assert.Equal(t, []byte("replaced"), value)

			fx.cleanup(t, db)
			assert.Equal(t, 0, countKeyringEntries(t, db), "cleanup should remove all entries")
		})
	}
}

func TestTeardownDBWithNilDB(t *testing.T) {
	assert.NotPanics(t, func() {
		TeardownDB(t, nil)
	})
}
