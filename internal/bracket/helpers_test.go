package bracket

import (
	"fmt"
	"strings"
	"testing"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func makePlayers(names ...string) []*roster.Player {
	players := make([]*roster.Player, 0, len(names))
	for _, name := range names {
		person := &roster.Person{ID: uuid.New(), FirstName: name}
		players = append(players, roster.NewPlayer(person, roster.Mario))
	}
	return players
}

func makeNPlayers(n int) []*roster.Player {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Player %02d", i+1)
	}
	return makePlayers(names...)
}

// playOut decides every playable match until none is left.
func playOut(t *testing.T, b *Bracket, pick func(*Match) *roster.Player) {
	t.Helper()
	for m := b.NextMatch(); m != nil; m = b.NextMatch() {
		require.NoError(t, b.SetWinner(m, pick(m)))
	}
}

func firstSlot(m *Match) *roster.Player { return m.Player1 }

func name(p *roster.Player) string {
	if p == nil {
		return "-"
	}
	return p.FullName()
}

// snapshot renders every slot of the bracket so two states can be compared.
func snapshot(b *Bracket) string {
	var sb strings.Builder
	for _, r := range b.Rounds {
		for i, m := range r.Matches {
			fmt.Fprintf(&sb, "R%dM%d %s v %s => %s\n", r.Number, i, name(m.Player1), name(m.Player2), name(m.Winner))
		}
	}
	if m := b.BronzeMedalMatch; m != nil {
		fmt.Fprintf(&sb, "bronze %s v %s => %s\n", name(m.Player1), name(m.Player2), name(m.Winner))
	}
	return sb.String()
}
