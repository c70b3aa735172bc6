package bracket

import (
	"github.com/AdamBeresnev/mariolympics/internal/roster"
)

// SetWinner records winner for match and moves the winner into the next
// round. Every check runs before anything is written, so a failed call leaves
// the bracket untouched.
func (b *Bracket) SetWinner(match *Match, winner *roster.Player) error {
	if match == nil {
		return ErrNilMatch
	}
	if winner == nil {
		return ErrNilWinner
	}

	if b.isBronze(match.ID) {
		if !b.SemifinalsDecided() {
			return ErrSemifinalsPending
		}
		bronze := b.BronzeMedalMatch
		if err := bronze.checkWinner(winner); err != nil {
			return err
		}
		bronze.Winner = winnerRef(bronze, winner)
		return nil
	}

	ri, mi, ok := b.locate(match.ID)
	if !ok {
		return ErrMatchNotInBracket
	}
	current := b.Rounds[ri].Matches[mi]
	if err := current.checkWinner(winner); err != nil {
		return err
	}

	if ri+1 == len(b.Rounds) {
		current.Winner = winnerRef(current, winner)
		return nil
	}

	nextRound := b.Rounds[ri+1]
	nextMatchIndex := mi / 2
	if nextMatchIndex >= len(nextRound.Matches) {
		return ErrNextMatchMissing
	}
	next := nextRound.Matches[nextMatchIndex]
	slot, ok := next.openSlot()
	if !ok {
		return ErrNextMatchFull
	}

	current.Winner = winnerRef(current, winner)
	if err := next.PlaceAt(slot, current.Winner); err != nil {
		current.Winner = nil
		return err
	}

	if ri+1 == len(b.Rounds)-1 {
		b.seedBronzeMedalMatch()
	}
	return nil
}

// seedBronzeMedalMatch fills an empty bronze medal match with the semifinal
// losers once both semifinals are decided.
func (b *Bracket) seedBronzeMedalMatch() {
	bronze := b.BronzeMedalMatch
	if bronze == nil || bronze.State() != MatchEmpty || !b.SemifinalsDecided() {
		return
	}
	semis := b.Semifinals()
	if len(semis) < 2 {
		return
	}
	first, second := semis[0].Loser(), semis[1].Loser()
	if first == nil || second == nil {
		return
	}
	bronze.Player1 = first
	bronze.Player2 = second
}
