// Package testutil provides helpers shared by package tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/decanter-app/decanter/internal/db"
)

// NewTestDB opens a migrated SQLite database in a temp directory. A file is
// used instead of :memory: so every pooled connection sees the same data.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "decanter_test.db")
	database, err := sqlx.Connect(db.DriverSQLite, db.SQLiteDSN(path))
	require.NoError(t, err, "Failed to connect to test DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database), "Failed to apply migrations")
	return database
}

// InsertUser creates a bare user row and returns its id.
func InsertUser(t *testing.T, database *sqlx.DB, email string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := database.ExecContext(context.Background(),
		database.Rebind(`INSERT INTO users (id, email, username, created_at) VALUES (?, ?, ?, ?)`),
		id, email, email, time.Now().UTC())
	require.NoError(t, err)
	return id
}
