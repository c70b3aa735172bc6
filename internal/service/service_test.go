package service

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/AdamBeresnev/mariolympics/internal/db"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/store"
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

type services struct {
	db          *sqlx.DB
	roster      *RosterService
	tournaments *TournamentService
	matches     *MatchService
	store       *store.TournamentStore
}

func newServices(t *testing.T) *services {
	t.Helper()

	database := setupTestDB(t)
	playerStore := store.NewPlayerStore(database)
	tournamentStore := store.NewTournamentStore(database, playerStore)

	return &services{
		db:          database,
		roster:      NewRosterService(database, playerStore),
		tournaments: NewTournamentService(database, tournamentStore, playerStore, Defaults{BronzeMedalMatch: true}),
		matches:     NewMatchService(database, tournamentStore, NewBracketLocks()),
		store:       tournamentStore,
	}
}

func (s *services) createPlayers(t *testing.T, n int) []uuid.UUID {
	t.Helper()

	ids := make([]uuid.UUID, 0, n)
	for i := range n {
		p, err := s.roster.CreatePlayer(context.Background(), PlayerInput{
			FirstName: fmt.Sprintf("Player%02d", i+1),
			Character: string(roster.Characters[i%len(roster.Characters)]),
		})
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}
	return ids
}
