package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/AdamBeresnev/mariolympics/internal/db"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// setupTestDB creates a SQLite database in a temp dir and applies migrations.
func setupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to open test DB")
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB), "Failed to apply migrations")
	return database
}

func newPlayer(first, last string, character roster.Character) *roster.Player {
	person := &roster.Person{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  last,
		Email:     utils.StringOrNil(""),
	}
	return roster.NewPlayer(person, character)
}

func seedPlayers(t *testing.T, database *sqlx.DB, players ...*roster.Player) {
	t.Helper()

	tx, err := database.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	defer tx.Rollback()

	require.NoError(t, NewPlayerStore(database).CreatePlayers(context.Background(), tx, players))
	require.NoError(t, tx.Commit())
}
