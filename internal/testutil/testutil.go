package testutil

import (
	"context"
	"testing"

	"github.com/jswierad/memodeck/internal/db"
	"github.com/stretchr/testify/require"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *db.DB {
	t.Helper()

	database, err := db.Open("file::memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, database.Close())
	})
	return database
}

// SeedUser inserts a user and returns its id.
func SeedUser(t *testing.T, database *db.DB, name string) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(), `INSERT INTO users (name) VALUES (?)`, name)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}

// SeedCard inserts a card and returns its id.
func SeedCard(t *testing.T, database *db.DB, front, back string) int64 {
	t.Helper()

	res, err := database.ExecContext(context.Background(), `INSERT INTO cards (front, back) VALUES (?, ?)`, front, back)
	require.NoError(t, err)
	id, err := res.LastInsertId()
	require.NoError(t, err)
	return id
}
