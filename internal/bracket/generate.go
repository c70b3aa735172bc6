package bracket

import (
	"math/bits"
	"math/rand/v2"
	"slices"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
)

// MinBronzeMedalEntrants is the roster size from which a third place match
// can be played.
const MinBronzeMedalEntrants = 4

type generateConfig struct {
	rand    *rand.Rand
	shuffle bool
}

type Option func(*generateConfig)

// WithSeed makes the shuffle deterministic.
func WithSeed(seed uint64) Option {
	return func(c *generateConfig) {
		c.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

func WithRand(r *rand.Rand) Option {
	return func(c *generateConfig) {
		c.rand = r
	}
}

// WithoutShuffle seeds players in the order they were given.
func WithoutShuffle() Option {
	return func(c *generateConfig) {
		c.shuffle = false
	}
}

// Gets the nearest power of 2 while rounding up, so with input 5 it returns 8 and so on
func calcBracketSize(count int) int {
	if count <= 1 {
		return count
	}
	return 1 << bits.Len(uint(count-1))
}

// Generate builds the bracket for one game. Rosters of fewer than two players
// give a bracket without rounds.
func Generate(players []*roster.Player, game roster.Game, bronzeMedal bool, opts ...Option) *Bracket {
	cfg := generateConfig{shuffle: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &Bracket{
		ID:                  uuid.New(),
		Game:                game,
		HasBronzeMedalMatch: bronzeMedal,
		byes:                make(map[ByeKey]*roster.Player),
	}

	n := len(players)
	if n < 2 {
		return b
	}

	seeded := slices.Clone(players)
	if cfg.shuffle {
		r := cfg.rand
		if r == nil {
			r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		r.Shuffle(n, func(i, j int) { seeded[i], seeded[j] = seeded[j], seeded[i] })
	}

	bracketSize := calcBracketSize(n)
	byeCount := bracketSize - n
	totalRounds := bits.Len(uint(bracketSize)) - 1

	matchesInRound := bracketSize / 2
	for r := 1; r <= totalRounds; r++ {
		round := Round{ID: uuid.New(), Number: r, Matches: make([]*Match, matchesInRound)}
		for i := range round.Matches {
			round.Matches[i] = NewMatch()
		}
		b.Rounds = append(b.Rounds, round)
		matchesInRound = (matchesInRound + 1) / 2
	}

	first := b.Rounds[0].Matches
	contested := (n - byeCount) / 2
	for i := 0; i < contested; i++ {
		first[i].Player1 = seeded[2*i]
		first[i].Player2 = seeded[2*i+1]
	}

	// Byes take the trailing round-1 matches so match i still feeds round-2
	// match i/2. Walking backwards fills the last round-2 match first, slot 2
	// before slot 1.
	for j, p := range seeded[n-byeCount:] {
		idx := len(first) - 1 - j
		first[idx].Player1 = p
		first[idx].Winner = p

		next := b.Rounds[1].Matches[idx/2]
		slot := Slot(idx%2 + 1)
		if slot == Slot1 {
			next.Player1 = p
		} else {
			next.Player2 = p
		}
	}

	if bronzeMedal && n >= MinBronzeMedalEntrants {
		b.BronzeMedalMatch = NewMatch()
	}

	b.snapshotByes()
	return b
}

func (b *Bracket) snapshotByes() {
	b.byes = make(map[ByeKey]*roster.Player)
	for ri := 1; ri < len(b.Rounds); ri++ {
		round := b.Rounds[ri]
		for mi, m := range round.Matches {
			for _, slot := range []Slot{Slot1, Slot2} {
				if p := m.Player(slot); p != nil {
					b.byes[ByeKey{Round: round.Number, Match: mi, Slot: slot}] = p
				}
			}
		}
	}
}
