package bracket

import (
	"testing"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalcBracketSize(t *testing.T) {
	testCases := []struct {
		count    int
		expected int
	}{
		{0, 0}, {1, 1}, {2, 2}, {3, 4}, {4, 4}, {5, 8}, {8, 8}, {9, 16}, {17, 32},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, calcBracketSize(tc.count), "count %d", tc.count)
	}
}

func TestGenerateRoundStructure(t *testing.T) {
	testCases := []struct {
		name           string
		numPlayers     int
		expectedRounds int
		round1Matches  int
	}{
		{name: "no players", numPlayers: 0, expectedRounds: 0},
		{name: "single player", numPlayers: 1, expectedRounds: 0},
		{name: "2 players", numPlayers: 2, expectedRounds: 1, round1Matches: 1},
		{name: "3 players", numPlayers: 3, expectedRounds: 2, round1Matches: 2},
		{name: "4 players", numPlayers: 4, expectedRounds: 2, round1Matches: 2},
		{name: "5 players", numPlayers: 5, expectedRounds: 3, round1Matches: 4},
		{name: "7 players", numPlayers: 7, expectedRounds: 3, round1Matches: 4},
		{name: "8 players", numPlayers: 8, expectedRounds: 3, round1Matches: 4},
		{name: "9 players", numPlayers: 9, expectedRounds: 4, round1Matches: 8},
		{name: "17 players", numPlayers: 17, expectedRounds: 5, round1Matches: 16},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := Generate(makeNPlayers(tc.numPlayers), roster.Tennis, false, WithSeed(42))

			require.Len(t, b.Rounds, tc.expectedRounds)
			if tc.expectedRounds == 0 {
				return
			}
			assert.Len(t, b.Rounds[0].Matches, tc.round1Matches)

			for i, r := range b.Rounds {
				assert.Equal(t, i+1, r.Number)
				if i > 0 {
					prev := len(b.Rounds[i-1].Matches)
					assert.Len(t, r.Matches, (prev+1)/2)
				}
			}
			assert.Len(t, b.Rounds[len(b.Rounds)-1].Matches, 1)

			seen := map[string]bool{}
			for _, m := range b.Rounds[0].Matches {
				assert.NotEqual(t, MatchEmpty, m.State(), "every round-1 match is populated")
				for _, p := range []*roster.Player{m.Player1, m.Player2} {
					if p != nil {
						assert.False(t, seen[p.ID.String()], "player seeded twice")
						seen[p.ID.String()] = true
					}
				}
			}
			assert.Len(t, seen, tc.numPlayers)
		})
	}
}

func TestGenerateTrivialRosters(t *testing.T) {
	for _, n := range []int{0, 1} {
		b := Generate(makeNPlayers(n), roster.Golf, true)

		assert.Empty(t, b.Rounds)
		assert.Nil(t, b.BronzeMedalMatch)
		assert.Nil(t, b.Champion())
		assert.False(t, b.IsComplete())
		assert.Equal(t, 0, b.TotalMatches())
		assert.Equal(t, 0.0, b.CompletionPercentage())
		assert.Nil(t, b.NextMatch())
	}

	assert.Empty(t, Generate(nil, roster.Golf, true).Rounds)
}

func TestGenerateByesAdvanceIntoRoundTwo(t *testing.T) {
	for _, n := range []int{3, 5, 6, 7, 9, 12, 13} {
		b := Generate(makeNPlayers(n), roster.Kart, false, WithSeed(uint64(n)))
		size := calcBracketSize(n)
		byeCount := size - n

		var byeWinners []*roster.Player
		for _, m := range b.Rounds[0].Matches {
			if m.IsBye() {
				byeWinners = append(byeWinners, m.Winner)
			}
		}
		require.Len(t, byeWinners, byeCount, "n=%d", n)

		round2 := b.Rounds[1].Matches
		for _, p := range byeWinners {
			found := false
			for _, m := range round2 {
				if m.HasPlayer(p) {
					found = true
				}
			}
			assert.True(t, found, "bye player %s missing from round 2 (n=%d)", p.FullName(), n)
		}

		// The last round-2 matches fill first, slot 2 before slot 1.
		placements := b.ByePlacements()
		require.Len(t, placements, byeCount)
		for j := 0; j < byeCount; j++ {
			idx := len(b.Rounds[0].Matches) - 1 - j
			m := round2[idx/2]
			if idx%2 == 1 {
				assert.NotNil(t, m.Player2, "n=%d bye %d", n, j)
			} else {
				assert.NotNil(t, m.Player1, "n=%d bye %d", n, j)
			}
		}
	}
}

func TestGenerateFivePlayersWithoutShuffle(t *testing.T) {
	players := makePlayers("A", "B", "C", "D", "E")
	b := Generate(players, roster.Strikers, true, WithoutShuffle())

	require.Len(t, b.Rounds, 3)
	r1 := b.Rounds[0].Matches
	require.Len(t, r1, 4)

	assert.Equal(t, "A", name(r1[0].Player1))
	assert.Equal(t, "B", name(r1[0].Player2))
	assert.Equal(t, MatchReady, r1[0].State())

	assert.Equal(t, "E", name(r1[1].Winner))
	assert.Equal(t, "D", name(r1[2].Winner))
	assert.Equal(t, "C", name(r1[3].Winner))

	r2 := b.Rounds[1].Matches
	assert.Nil(t, r2[0].Player1)
	assert.Equal(t, "E", name(r2[0].Player2))
	assert.Equal(t, "D", name(r2[1].Player1))
	assert.Equal(t, "C", name(r2[1].Player2))

	assert.Equal(t, []ByePlacement{
		{ByeKey: ByeKey{Round: 2, Match: 0, Slot: Slot2}, Player: players[4]},
		{ByeKey: ByeKey{Round: 2, Match: 1, Slot: Slot1}, Player: players[3]},
		{ByeKey: ByeKey{Round: 2, Match: 1, Slot: Slot2}, Player: players[2]},
	}, b.ByePlacements())

	require.NotNil(t, b.BronzeMedalMatch)
	assert.Equal(t, MatchEmpty, b.BronzeMedalMatch.State())
	assert.Equal(t, 8, b.TotalMatches())
	assert.Equal(t, 3, b.CompletedMatches())
}

func TestGenerateSeedIsDeterministic(t *testing.T) {
	players := makeNPlayers(8)

	a := Generate(players, roster.Baseball, false, WithSeed(7))
	b := Generate(players, roster.Baseball, false, WithSeed(7))

	assert.Equal(t, snapshot(a), snapshot(b))
	assert.Equal(t, "Player 01", players[0].FullName(), "caller's slice is not reordered")
}

func TestGenerateBronzeMedalThreshold(t *testing.T) {
	testCases := []struct {
		name       string
		numPlayers int
		enabled    bool
		expected   bool
	}{
		{name: "3 players enabled", numPlayers: 3, enabled: true, expected: false},
		{name: "4 players enabled", numPlayers: 4, enabled: true, expected: true},
		{name: "6 players enabled", numPlayers: 6, enabled: true, expected: true},
		{name: "8 players disabled", numPlayers: 8, enabled: false, expected: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := Generate(makeNPlayers(tc.numPlayers), roster.Tennis, tc.enabled)
			assert.Equal(t, tc.expected, b.BronzeMedalMatch != nil)
			assert.Equal(t, tc.enabled, b.HasBronzeMedalMatch)
		})
	}
}
