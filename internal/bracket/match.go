package bracket

import (
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
)

type Slot int

const (
	Slot1 Slot = 1
	Slot2 Slot = 2
)

// MatchState is derived from slot occupancy and is never stored.
type MatchState int

const (
	MatchEmpty MatchState = iota
	MatchPartiallyFilled
	MatchReady
	MatchDecided
)

func (s MatchState) String() string {
	switch s {
	case MatchEmpty:
		return "empty"
	case MatchPartiallyFilled:
		return "partially_filled"
	case MatchReady:
		return "ready"
	case MatchDecided:
		return "decided"
	}
	return "unknown"
}

type Match struct {
	ID      uuid.UUID
	Player1 *roster.Player
	Player2 *roster.Player
	Winner  *roster.Player
}

func NewMatch() *Match {
	return &Match{ID: uuid.New()}
}

func (m *Match) State() MatchState {
	switch {
	case m.Winner != nil:
		return MatchDecided
	case m.Player1 != nil && m.Player2 != nil:
		return MatchReady
	case m.Player1 != nil || m.Player2 != nil:
		return MatchPartiallyFilled
	}
	return MatchEmpty
}

func (m *Match) Player(slot Slot) *roster.Player {
	if slot == Slot1 {
		return m.Player1
	}
	return m.Player2
}

func (m *Match) HasPlayer(p *roster.Player) bool {
	return p.Is(m.Player1) || p.Is(m.Player2)
}

// AddPlayer fills the first open slot, Player1 first.
func (m *Match) AddPlayer(p *roster.Player) error {
	slot, ok := m.openSlot()
	if !ok {
		return ErrMatchFull
	}
	return m.PlaceAt(slot, p)
}

// PlaceAt puts p into slot. An occupied slot is never overwritten.
func (m *Match) PlaceAt(slot Slot, p *roster.Player) error {
	if p == nil {
		return ErrNilPlayer
	}
	if m.Player(slot) != nil {
		return ErrSlotOccupied
	}
	if slot == Slot1 {
		m.Player1 = p
	} else {
		m.Player2 = p
	}
	return nil
}

// SetWinner records winner on a standalone match. Bracket.SetWinner should be
// used for matches that belong to a bracket so the winner is propagated.
func (m *Match) SetWinner(winner *roster.Player) error {
	if err := m.checkWinner(winner); err != nil {
		return err
	}
	m.Winner = winnerRef(m, winner)
	return nil
}

// Loser is the occupant that did not win, nil while undecided or for a bye.
func (m *Match) Loser() *roster.Player {
	if m.Winner == nil {
		return nil
	}
	if m.Winner.Is(m.Player1) {
		return m.Player2
	}
	return m.Player1
}

// IsBye reports a one-sided match whose lone occupant was declared winner.
func (m *Match) IsBye() bool {
	return m.Winner != nil && (m.Player1 == nil) != (m.Player2 == nil)
}

func (m *Match) checkWinner(winner *roster.Player) error {
	if winner == nil {
		return ErrNilWinner
	}
	if m.Winner != nil {
		return ErrMatchDecided
	}
	if !m.HasPlayer(winner) {
		return ErrWinnerNotInMatch
	}
	if m.State() != MatchReady {
		return ErrMatchNotReady
	}
	return nil
}

func (m *Match) openSlot() (Slot, bool) {
	switch {
	case m.Player1 == nil:
		return Slot1, true
	case m.Player2 == nil:
		return Slot2, true
	}
	return 0, false
}

func (m *Match) clear() {
	m.Player1 = nil
	m.Player2 = nil
	m.Winner = nil
}

// winnerRef returns the slot occupant equal to winner so the match keeps
// pointing at its own player values.
func winnerRef(m *Match, winner *roster.Player) *roster.Player {
	if winner.Is(m.Player1) {
		return m.Player1
	}
	return m.Player2
}
