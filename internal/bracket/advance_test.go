package bracket

import (
	"testing"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
)

func TestSetWinnerAdvancesToNextRound(t *testing.T) {
	players := makePlayers("A", "B", "C", "D")
	b := Generate(players, roster.Tennis, false, WithoutShuffle())

	semis := b.Rounds[0].Matches
	final := b.Final()

	require.NoError(t, b.SetWinner(semis[1], players[3]))
	assert.Equal(t, "D", name(final.Player1), "first open slot is filled first")
	assert.Nil(t, final.Player2)

	require.NoError(t, b.SetWinner(semis[0], players[0]))
	assert.Equal(t, "A", name(final.Player2))
	assert.Equal(t, MatchReady, final.State())

	require.NoError(t, b.SetWinner(final, players[0]))
	assert.Equal(t, "A", name(b.Champion()))
	assert.True(t, b.IsComplete())
	assert.Equal(t, 100.0, b.CompletionPercentage())
}

func TestSetWinnerRejectsInvalidInput(t *testing.T) {
	players := makePlayers("A", "B", "C", "D")
	b := Generate(players, roster.Tennis, true, WithoutShuffle())
	other := Generate(makePlayers("X", "Y"), roster.Tennis, false)

	m := b.Rounds[0].Matches[0]

	testCases := []struct {
		name     string
		match    *Match
		winner   *roster.Player
		expected error
		kind     error
	}{
		{name: "nil match", match: nil, winner: players[0], expected: ErrNilMatch, kind: apperrors.ErrValidation},
		{name: "nil winner", match: m, winner: nil, expected: ErrNilWinner, kind: apperrors.ErrValidation},
		{name: "winner not in match", match: m, winner: players[2], expected: ErrWinnerNotInMatch, kind: apperrors.ErrValidation},
		{name: "match from another bracket", match: other.Final(), winner: players[0], expected: ErrMatchNotInBracket, kind: apperrors.ErrValidation},
		{name: "final not ready", match: b.Final(), winner: players[0], expected: ErrWinnerNotInMatch, kind: apperrors.ErrValidation},
		{name: "bronze before semifinals", match: b.BronzeMedalMatch, winner: players[0], expected: ErrSemifinalsPending, kind: apperrors.ErrNotReady},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			before := snapshot(b)
			err := b.SetWinner(tc.match, tc.winner)
			assert.ErrorIs(t, err, tc.expected)
			assert.ErrorIs(t, err, tc.kind)
			assert.Equal(t, before, snapshot(b), "failed call leaves the bracket unchanged")
		})
	}

	assert.Nil(t, m.Winner)
}

func TestSetWinnerOnPartiallyFilledMatch(t *testing.T) {
	players := makePlayers("A", "B", "C", "D")
	b := Generate(players, roster.Tennis, false, WithoutShuffle())

	require.NoError(t, b.SetWinner(b.Rounds[0].Matches[0], players[0]))

	err := b.SetWinner(b.Final(), players[0])
	assert.ErrorIs(t, err, ErrMatchNotReady)
	assert.ErrorIs(t, err, apperrors.ErrNotReady)
	assert.Nil(t, b.Final().Winner)
}

func TestSetWinnerIsMonotonic(t *testing.T) {
	players := makePlayers("A", "B")
	b := Generate(players, roster.Golf, false, WithoutShuffle())
	final := b.Final()

	require.NoError(t, b.SetWinner(final, players[0]))

	err := b.SetWinner(final, players[1])
	assert.ErrorIs(t, err, ErrMatchDecided)
	assert.Equal(t, "A", name(b.Champion()))

	b.Reset()
	require.NoError(t, b.SetWinner(final, players[1]))
	assert.Equal(t, "B", name(b.Champion()))
}

func TestSetWinnerStructuralFailures(t *testing.T) {
	players := makePlayers("A", "B", "C", "D")

	t.Run("next match already full", func(t *testing.T) {
		b := Generate(players, roster.Tennis, false, WithoutShuffle())
		intruders := makePlayers("X", "Y")
		require.NoError(t, b.Final().AddPlayer(intruders[0]))
		require.NoError(t, b.Final().AddPlayer(intruders[1]))

		err := b.SetWinner(b.Rounds[0].Matches[0], players[0])
		assert.ErrorIs(t, err, ErrNextMatchFull)
		assert.ErrorIs(t, err, apperrors.ErrStructural)
		assert.Nil(t, b.Rounds[0].Matches[0].Winner)
	})

	t.Run("next match missing", func(t *testing.T) {
		first := &Match{ID: uuid.New(), Player1: players[0], Player2: players[1]}
		rounds := []Round{
			{ID: uuid.New(), Number: 1, Matches: []*Match{first}},
			{ID: uuid.New(), Number: 2, Matches: nil},
		}
		b := Restore(uuid.New(), roster.Tennis, rounds, nil, false, nil)

		err := b.SetWinner(first, players[0])
		assert.ErrorIs(t, err, ErrNextMatchMissing)
		assert.Nil(t, first.Winner)
	})
}

func TestBronzeMedalMatchActivation(t *testing.T) {
	players := makePlayers("A", "B", "C", "D")
	b := Generate(players, roster.Baseball, true, WithoutShuffle())
	semis := b.Semifinals()
	bronze := b.BronzeMedalMatch
	require.NotNil(t, bronze)

	require.NoError(t, b.SetWinner(semis[0], players[1]))
	assert.Equal(t, MatchEmpty, bronze.State(), "one semifinal is not enough")
	assert.NotContains(t, b.PlayableMatches(), bronze)
	err := b.SetWinner(bronze, players[0])
	assert.ErrorIs(t, err, ErrSemifinalsPending, "semifinal loser cannot win bronze early")
	assert.ErrorIs(t, err, apperrors.ErrNotReady)
	assert.Nil(t, bronze.Winner)

	require.NoError(t, b.SetWinner(semis[1], players[2]))
	assert.Equal(t, "A", name(bronze.Player1), "semifinal 1 loser takes slot 1")
	assert.Equal(t, "D", name(bronze.Player2), "semifinal 2 loser takes slot 2")
	assert.Contains(t, b.PlayableMatches(), bronze)

	require.NoError(t, b.SetWinner(bronze, players[3]))
	assert.Equal(t, "D", name(b.BronzeMedalWinner()))
	assert.False(t, b.IsComplete(), "bronze medal match does not decide the bracket")
	assert.Nil(t, b.Final().Winner)

	require.NoError(t, b.SetWinner(b.Final(), players[2]))
	assert.True(t, b.IsComplete())
	assert.Equal(t, 4, b.CompletedMatches())
	assert.Empty(t, b.PlayableMatches())
}

func TestFivePlayerBracketPlaysToCompletion(t *testing.T) {
	b := Generate(makePlayers("A", "B", "C", "D", "E"), roster.Strikers, true, WithSeed(2024))

	playOut(t, b, firstSlot)

	assert.True(t, b.IsComplete())
	assert.NotNil(t, b.Champion())
	require.NotNil(t, b.BronzeMedalMatch)
	assert.NotNil(t, b.BronzeMedalWinner())
	assert.Equal(t, b.TotalMatches(), b.CompletedMatches())
	assert.Equal(t, 100.0, b.CompletionPercentage())
	assert.Nil(t, b.NextMatch())

	losers := map[string]bool{}
	for _, m := range b.Semifinals() {
		losers[name(m.Loser())] = true
	}
	assert.True(t, losers[name(b.BronzeMedalMatch.Player1)])
	assert.True(t, losers[name(b.BronzeMedalMatch.Player2)])
}

func TestMatchLookup(t *testing.T) {
	b := Generate(makeNPlayers(6), roster.Kart, true, WithSeed(1))

	m, ok := b.Match(b.Rounds[1].Matches[1].ID)
	assert.True(t, ok)
	assert.Same(t, b.Rounds[1].Matches[1], m)

	m, ok = b.Match(b.BronzeMedalMatch.ID)
	assert.True(t, ok)
	assert.Same(t, b.BronzeMedalMatch, m)

	_, ok = b.Match(uuid.New())
	assert.False(t, ok)

	assert.Len(t, b.Players(), 6)
}
