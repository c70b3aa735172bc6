package bracket

// Reset returns the bracket to its freshly generated state. Round-1 seeding is
// kept, later rounds and the bronze medal match are emptied and the byes
// recorded at generation are put back.
func (b *Bracket) Reset() {
	for ri := range b.Rounds {
		for _, m := range b.Rounds[ri].Matches {
			if ri > 0 {
				m.clear()
				continue
			}
			m.Winner = nil
			// A one-sided round-1 match is a bye and its occupant stays the winner.
			switch {
			case m.Player1 != nil && m.Player2 == nil:
				m.Winner = m.Player1
			case m.Player1 == nil && m.Player2 != nil:
				m.Winner = m.Player2
			}
		}
	}

	if b.BronzeMedalMatch != nil {
		b.BronzeMedalMatch.clear()
	}

	for key, p := range b.byes {
		ri := key.Round - 1
		if ri < 1 || ri >= len(b.Rounds) || key.Match >= len(b.Rounds[ri].Matches) {
			continue
		}
		m := b.Rounds[ri].Matches[key.Match]
		if key.Slot == Slot1 {
			m.Player1 = p
		} else {
			m.Player2 = p
		}
	}
}
