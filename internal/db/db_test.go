package db_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decanter-app/decanter/internal/config"
	"github.com/decanter-app/decanter/internal/db"
	"github.com/decanter-app/decanter/internal/testutil"
)

const insertUser = `INSERT INTO users (id, email, username, provider, provider_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`

func countUsers(t *testing.T, database *sqlx.DB) int {
	t.Helper()
	var n int
	require.NoError(t, database.Get(&n, "SELECT COUNT(*) FROM users"))
	return n
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, config.DatabaseConfig{
		Driver:   "sqlite",
		Filename: filepath.Join(t.TempDir(), "open.db"),
	})
	require.NoError(t, err)
	defer database.Close()

	assert.Equal(t, db.DriverSQLite, database.DriverName())
	require.NoError(t, db.RunMigrations(database))
	// A second run finds nothing to do.
	require.NoError(t, db.RunMigrations(database))
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := db.Open(context.Background(), config.DatabaseConfig{Driver: "oracle"})
	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestWithTx(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	err := db.WithTx(ctx, database, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(insertUser), uuid.New(), "a@example.com", "a", "google", "1", now)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, countUsers(t, database))

	boom := errors.New("boom")
	err = db.WithTx(ctx, database, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(insertUser), uuid.New(), "b@example.com", "b", "google", "2", now); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, countUsers(t, database))
}

func TestIsUniqueViolation(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := database.ExecContext(ctx, database.Rebind(insertUser), uuid.New(), "a@example.com", "a", "google", "1", now)
	require.NoError(t, err)

	_, err = database.ExecContext(ctx, database.Rebind(insertUser), uuid.New(), "b@example.com", "b", "google", "1", now)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err))

	assert.False(t, db.IsUniqueViolation(errors.New("other")))
	assert.False(t, db.IsUniqueViolation(nil))
}
