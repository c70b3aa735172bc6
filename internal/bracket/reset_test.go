package bracket

import (
	"testing"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetRestoresGeneratedState(t *testing.T) {
	testCases := []struct {
		name       string
		numPlayers int
		bronze     bool
	}{
		{name: "power of two", numPlayers: 8, bronze: true},
		{name: "five players with byes", numPlayers: 5, bronze: true},
		{name: "three players", numPlayers: 3, bronze: false},
		{name: "eleven players", numPlayers: 11, bronze: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := Generate(makeNPlayers(tc.numPlayers), roster.Tennis, tc.bronze, WithSeed(99))
			generated := snapshot(b)

			playOut(t, b, func(m *Match) *roster.Player { return m.Player2 })
			require.True(t, b.IsComplete())
			require.NotEqual(t, generated, snapshot(b))

			b.Reset()
			first := snapshot(b)
			assert.Equal(t, generated, first)

			b.Reset()
			assert.Equal(t, first, snapshot(b), "reset is idempotent")

			for _, m := range b.Rounds[0].Matches {
				if m.Player1 == nil || m.Player2 == nil {
					assert.True(t, m.IsBye(), "bye players stay round-1 winners")
				}
			}
		})
	}
}

func TestResetMidway(t *testing.T) {
	players := makePlayers("A", "B", "C", "D", "E", "F")
	b := Generate(players, roster.Golf, true, WithoutShuffle())
	generated := snapshot(b)

	require.NoError(t, b.SetWinner(b.Rounds[0].Matches[0], players[0]))
	require.NoError(t, b.SetWinner(b.Rounds[0].Matches[1], players[3]))

	b.Reset()
	assert.Equal(t, generated, snapshot(b))
	assert.Equal(t, MatchEmpty, b.BronzeMedalMatch.State())
	// Both contested round-1 matches plus the round-2 match between the two bye players.
	assert.Len(t, b.PlayableMatches(), 3)
}

func TestResetOfRestoredBracket(t *testing.T) {
	original := Generate(makeNPlayers(6), roster.Kart, true, WithSeed(5))
	generated := snapshot(original)
	playOut(t, original, firstSlot)

	restored := Restore(original.ID, original.Game, original.Rounds, original.BronzeMedalMatch,
		original.HasBronzeMedalMatch, original.ByePlacements())
	restored.Reset()

	assert.Equal(t, generated, snapshot(restored))
}
