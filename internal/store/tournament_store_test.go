package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/bracket"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTournament(t *testing.T, database *sqlx.DB, n int, opts ...tournament.Option) (*TournamentStore, *tournament.Tournament) {
	t.Helper()
	ctx := context.Background()

	players := make([]*roster.Player, n)
	for i := range players {
		players[i] = newPlayer(fmt.Sprintf("Player %02d", i+1), "", roster.Characters[i%len(roster.Characters)])
	}
	seedPlayers(t, database, players...)

	tour, err := tournament.Generate(players, opts...)
	require.NoError(t, err)

	store := NewTournamentStore(database, NewPlayerStore(database))
	tx, err := database.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	require.NoError(t, store.CreateTournament(ctx, tx, tour))
	require.NoError(t, tx.Commit())

	return store, tour
}

func playerID(p *roster.Player) string {
	if p == nil {
		return "-"
	}
	return p.ID.String()
}

func matchKey(m *bracket.Match) string {
	return fmt.Sprintf("%s %s/%s>%s", m.ID, playerID(m.Player1), playerID(m.Player2), playerID(m.Winner))
}

func assertSameBracket(t *testing.T, want, got *bracket.Bracket) {
	t.Helper()

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Game, got.Game)
	assert.Equal(t, want.HasBronzeMedalMatch, got.HasBronzeMedalMatch)
	require.Len(t, got.Rounds, len(want.Rounds))
	for ri := range want.Rounds {
		assert.Equal(t, want.Rounds[ri].ID, got.Rounds[ri].ID)
		assert.Equal(t, want.Rounds[ri].Number, got.Rounds[ri].Number)
		require.Len(t, got.Rounds[ri].Matches, len(want.Rounds[ri].Matches))
		for mi, m := range want.Rounds[ri].Matches {
			assert.Equal(t, matchKey(m), matchKey(got.Rounds[ri].Matches[mi]))
		}
	}
	if want.BronzeMedalMatch == nil {
		assert.Nil(t, got.BronzeMedalMatch)
	} else {
		require.NotNil(t, got.BronzeMedalMatch)
		assert.Equal(t, matchKey(want.BronzeMedalMatch), matchKey(got.BronzeMedalMatch))
	}

	wantByes, gotByes := want.ByePlacements(), got.ByePlacements()
	require.Len(t, gotByes, len(wantByes))
	for i := range wantByes {
		assert.Equal(t, wantByes[i].ByeKey, gotByes[i].ByeKey)
		assert.Equal(t, wantByes[i].Player.ID, gotByes[i].Player.ID)
	}
}

func TestCreateAndGetTournament(t *testing.T) {
	database := setupTestDB(t)
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	store, tour := createTournament(t, database, 6, tournament.WithDate(date), tournament.WithSeed(7))

	fetched, err := store.GetTournament(context.Background(), tour.ID)
	require.NoError(t, err)

	assert.Equal(t, tour.ID, fetched.ID)
	assert.True(t, date.Equal(fetched.Date))
	require.Len(t, fetched.Players, 6)
	for i, p := range tour.Players {
		assert.Equal(t, p.ID, fetched.Players[i].ID, "entry order is kept")
	}

	require.Len(t, fetched.Brackets, len(tour.Brackets))
	for i := range tour.Brackets {
		assertSameBracket(t, tour.Brackets[i], fetched.Brackets[i])
	}

	// Slots share the tournament's player values.
	for _, p := range fetched.Brackets[0].Players() {
		assert.Contains(t, fetched.Players, p)
	}

	_, err = store.GetTournament(context.Background(), uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestSaveBracketRoundTrip(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	store, tour := createTournament(t, database, 5, tournament.WithGames(roster.Kart), tournament.WithSeed(3))

	b := tour.Brackets[0]
	for m := b.NextMatch(); m != nil; m = b.NextMatch() {
		require.NoError(t, b.SetWinner(m, m.Player1))
	}
	require.True(t, b.IsComplete())

	tx, err := database.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.SaveBracket(ctx, tx, b))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	got := fetched.Brackets[0]
	assertSameBracket(t, b, got)
	assert.True(t, got.IsComplete())
	assert.Equal(t, b.Champion().ID, got.Champion().ID)

	// Reset works on the restored bracket because bye placements were stored.
	b.Reset()
	got.Reset()
	assertSameBracket(t, b, got)
}

func TestBracketTournamentID(t *testing.T) {
	database := setupTestDB(t)
	store, tour := createTournament(t, database, 4, tournament.WithGames(roster.Golf))

	id, err := store.BracketTournamentID(context.Background(), database, tour.Brackets[0].ID)
	require.NoError(t, err)
	assert.Equal(t, tour.ID, id)

	_, err = store.BracketTournamentID(context.Background(), database, uuid.New())
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListTournaments(t *testing.T) {
	database := setupTestDB(t)
	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	_, first := createTournament(t, database, 3, tournament.WithDate(older))
	store, second := createTournament(t, database, 5, tournament.WithDate(newer))

	list, err := store.ListTournaments(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, 5, list[0].PlayerCount)
	assert.Equal(t, first.ID, list[1].ID)
	assert.Equal(t, 3, list[1].PlayerCount)
}

func TestDeleteTournamentCascades(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	store, tour := createTournament(t, database, 6)

	tx, err := database.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, store.DeleteTournament(ctx, tx, tour.ID))
	require.NoError(t, tx.Commit())

	for _, table := range []string{"tournaments", "tournament_players", "brackets", "rounds", "matches", "bye_placements"} {
		var count int
		require.NoError(t, database.Get(&count, "SELECT COUNT(*) FROM "+table))
		assert.Zero(t, count, table)
	}

	var players int
	require.NoError(t, database.Get(&players, "SELECT COUNT(*) FROM players"))
	assert.Equal(t, 6, players, "players outlive the tournament")

	tx, err = database.BeginTxx(ctx, nil)
	require.NoError(t, err)
	defer tx.Rollback()
	assert.ErrorIs(t, store.DeleteTournament(ctx, tx, tour.ID), sql.ErrNoRows)
}

func TestDeletePlayerClearsMatchSlots(t *testing.T) {
	database := setupTestDB(t)
	ctx := context.Background()
	store, tour := createTournament(t, database, 4, tournament.WithGames(roster.Tennis), tournament.WithoutShuffle())

	gone := tour.Players[0]
	tx, err := database.BeginTxx(ctx, nil)
	require.NoError(t, err)
	require.NoError(t, NewPlayerStore(database).DeletePlayer(ctx, tx, gone.ID))
	require.NoError(t, tx.Commit())

	fetched, err := store.GetTournament(ctx, tour.ID)
	require.NoError(t, err)
	assert.Len(t, fetched.Players, 3)

	first := fetched.Brackets[0].Rounds[0].Matches[0]
	assert.Nil(t, first.Player1)
	assert.Equal(t, tour.Players[1].ID, first.Player2.ID)
	assert.Equal(t, bracket.MatchPartiallyFilled, first.State())
}
