package bracket

import (
	"cmp"
	"slices"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
)

type Round struct {
	ID      uuid.UUID
	Number  int
	Matches []*Match
}

func (r *Round) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(r.Matches, func(m *Match) bool { return m.ID == id })
}

func (r *Round) decided() bool {
	for _, m := range r.Matches {
		if m.State() != MatchDecided {
			return false
		}
	}
	return len(r.Matches) > 0
}

// ByeKey addresses one slot of a round-2+ match.
type ByeKey struct {
	Round int
	Match int
	Slot  Slot
}

type ByePlacement struct {
	ByeKey
	Player *roster.Player
}

// Bracket is the single-elimination draw for one game. Rounds[0] is the
// first elimination level and the last round holds the final. The bronze
// medal match lives outside Rounds.
//
// A Bracket is not safe for concurrent mutation.
type Bracket struct {
	ID                  uuid.UUID
	Game                roster.Game
	Rounds              []Round
	BronzeMedalMatch    *Match
	HasBronzeMedalMatch bool

	byes map[ByeKey]*roster.Player
}

// Restore rebuilds a bracket from persisted parts.
func Restore(id uuid.UUID, game roster.Game, rounds []Round, bronze *Match, hasBronze bool, byes []ByePlacement) *Bracket {
	b := &Bracket{
		ID:                  id,
		Game:                game,
		Rounds:              rounds,
		BronzeMedalMatch:    bronze,
		HasBronzeMedalMatch: hasBronze,
		byes:                make(map[ByeKey]*roster.Player, len(byes)),
	}
	for _, bp := range byes {
		b.byes[bp.ByeKey] = bp.Player
	}
	return b
}

// ByePlacements returns the slots pre-filled by byes at generation time,
// ordered by round, match and slot.
func (b *Bracket) ByePlacements() []ByePlacement {
	out := make([]ByePlacement, 0, len(b.byes))
	for k, p := range b.byes {
		out = append(out, ByePlacement{ByeKey: k, Player: p})
	}
	slices.SortFunc(out, func(a, c ByePlacement) int {
		if n := cmp.Compare(a.Round, c.Round); n != 0 {
			return n
		}
		if n := cmp.Compare(a.Match, c.Match); n != 0 {
			return n
		}
		return cmp.Compare(a.Slot, c.Slot)
	})
	return out
}

// Final is the lone match of the last round.
func (b *Bracket) Final() *Match {
	if len(b.Rounds) == 0 {
		return nil
	}
	last := b.Rounds[len(b.Rounds)-1]
	if len(last.Matches) != 1 {
		return nil
	}
	return last.Matches[0]
}

// Semifinals returns the matches of the second-to-last round.
func (b *Bracket) Semifinals() []*Match {
	if len(b.Rounds) < 2 {
		return nil
	}
	return b.Rounds[len(b.Rounds)-2].Matches
}

func (b *Bracket) Champion() *roster.Player {
	if f := b.Final(); f != nil {
		return f.Winner
	}
	return nil
}

func (b *Bracket) BronzeMedalWinner() *roster.Player {
	if b.BronzeMedalMatch == nil {
		return nil
	}
	return b.BronzeMedalMatch.Winner
}

func (b *Bracket) IsComplete() bool {
	return b.Champion() != nil
}

func (b *Bracket) TotalMatches() int {
	total := 0
	for _, r := range b.Rounds {
		total += len(r.Matches)
	}
	if b.BronzeMedalMatch != nil {
		total++
	}
	return total
}

func (b *Bracket) CompletedMatches() int {
	done := 0
	for _, r := range b.Rounds {
		for _, m := range r.Matches {
			if m.State() == MatchDecided {
				done++
			}
		}
	}
	if b.BronzeMedalMatch != nil && b.BronzeMedalMatch.State() == MatchDecided {
		done++
	}
	return done
}

// CompletionPercentage is in the range [0, 100].
func (b *Bracket) CompletionPercentage() float64 {
	total := b.TotalMatches()
	if total == 0 {
		return 0
	}
	return float64(b.CompletedMatches()) * 100 / float64(total)
}

// PlayableMatches lists every Ready match in round order, then the bronze
// medal match once it is populated and both semifinals are decided.
func (b *Bracket) PlayableMatches() []*Match {
	var out []*Match
	for _, r := range b.Rounds {
		for _, m := range r.Matches {
			if m.State() == MatchReady {
				out = append(out, m)
			}
		}
	}
	if b.bronzePlayable() {
		out = append(out, b.BronzeMedalMatch)
	}
	return out
}

func (b *Bracket) NextMatch() *Match {
	playable := b.PlayableMatches()
	if len(playable) == 0 {
		return nil
	}
	return playable[0]
}

// Match looks up a match of this bracket, bronze medal match included.
func (b *Bracket) Match(id uuid.UUID) (*Match, bool) {
	if b.isBronze(id) {
		return b.BronzeMedalMatch, true
	}
	ri, mi, ok := b.locate(id)
	if !ok {
		return nil, false
	}
	return b.Rounds[ri].Matches[mi], true
}

// Players returns every distinct player seeded into round 1.
func (b *Bracket) Players() []*roster.Player {
	if len(b.Rounds) == 0 {
		return nil
	}
	var out []*roster.Player
	for _, m := range b.Rounds[0].Matches {
		for _, p := range []*roster.Player{m.Player1, m.Player2} {
			if p != nil {
				out = append(out, p)
			}
		}
	}
	return out
}

func (b *Bracket) bronzePlayable() bool {
	return b.BronzeMedalMatch != nil &&
		b.BronzeMedalMatch.State() == MatchReady &&
		b.SemifinalsDecided()
}

// SemifinalsDecided reports whether both semifinals have a winner.
func (b *Bracket) SemifinalsDecided() bool {
	if len(b.Rounds) < 2 {
		return false
	}
	return b.Rounds[len(b.Rounds)-2].decided()
}

func (b *Bracket) isBronze(id uuid.UUID) bool {
	return b.BronzeMedalMatch != nil && b.BronzeMedalMatch.ID == id
}

// locate returns the round index and match index of the match with id.
func (b *Bracket) locate(id uuid.UUID) (int, int, bool) {
	for ri := range b.Rounds {
		if mi := b.Rounds[ri].indexOf(id); mi >= 0 {
			return ri, mi, true
		}
	}
	return 0, 0, false
}
