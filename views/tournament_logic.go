package views

import (
	"fmt"
	"slices"

	"github.com/AdamBeresnev/mariolympics/internal/bracket"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// TournamentForm carries the values the create form starts with.
type TournamentForm struct {
	Games            []roster.Game
	BronzeMedalMatch bool
}

func (f TournamentForm) Checked(g roster.Game) bool {
	return slices.Contains(f.Games, g)
}

type BracketData struct {
	ID         uuid.UUID
	Game       roster.Game
	Rounds     []RoundData
	Bronze     *MatchData
	Champion   string
	Completion float64
	NextMatch  *uuid.UUID
}

type RoundData struct {
	Label   string
	Matches []MatchData
}

type MatchData struct {
	ID       uuid.UUID
	Player1  *SlotData
	Player2  *SlotData
	State    bracket.MatchState
	Playable bool
	Bye      bool
}

type SlotData struct {
	ID        uuid.UUID
	Name      string
	Character roster.Character
	Winner    bool
}

func PrepareBracketData(b *bracket.Bracket) BracketData {
	playable := make(map[uuid.UUID]bool)
	for _, m := range b.PlayableMatches() {
		playable[m.ID] = true
	}

	data := BracketData{
		ID:         b.ID,
		Game:       b.Game,
		Completion: b.CompletionPercentage(),
	}
	if c := b.Champion(); c != nil {
		data.Champion = c.FullName()
	}
	if next := b.NextMatch(); next != nil {
		id := next.ID
		data.NextMatch = &id
	}

	total := len(b.Rounds)
	for i, r := range b.Rounds {
		rd := RoundData{Label: roundLabel(total-i, r.Number)}
		for _, m := range r.Matches {
			rd.Matches = append(rd.Matches, matchData(m, playable[m.ID]))
		}
		data.Rounds = append(data.Rounds, rd)
	}

	if b.BronzeMedalMatch != nil {
		bronze := matchData(b.BronzeMedalMatch, playable[b.BronzeMedalMatch.ID])
		data.Bronze = &bronze
	}
	return data
}

// roundLabel names a round by how far it is from the final.
func roundLabel(fromEnd, number int) string {
	switch fromEnd {
	case 1:
		return "Final"
	case 2:
		return "Semifinals"
	case 3:
		return "Quarterfinals"
	}
	return fmt.Sprintf("Round %d", number)
}

func matchData(m *bracket.Match, playable bool) MatchData {
	return MatchData{
		ID:       m.ID,
		Player1:  slotData(m.Player1, m.Winner),
		Player2:  slotData(m.Player2, m.Winner),
		State:    m.State(),
		Playable: playable,
		Bye:      m.IsBye(),
	}
}

func slotData(p, winner *roster.Player) *SlotData {
	if p == nil {
		return nil
	}
	return &SlotData{
		ID:        p.ID,
		Name:      p.FullName(),
		Character: p.Character(),
		Winner:    p.Is(winner),
	}
}

func slotLabel(s *SlotData) string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Character)
}

func slotClass(s *SlotData) string {
	if s.Winner {
		return "slot winner"
	}
	return "slot"
}

func matchClass(data BracketData, m MatchData) string {
	class := "match " + m.State.String()
	if data.NextMatch != nil && *data.NextMatch == m.ID {
		class += " next"
	}
	return class
}

func completionLabel(completion float64) string {
	return fmt.Sprintf("%.0f%% complete", completion)
}

func playerCount(n int) string {
	if n == 1 {
		return "1 player"
	}
	return fmt.Sprintf("%d players", n)
}

func tournamentURL(id uuid.UUID) string {
	return "/tournaments/" + id.String()
}

func bracketURL(id uuid.UUID) string {
	return "/brackets/" + id.String()
}

func winnerURL(bracketID, matchID uuid.UUID) string {
	return fmt.Sprintf("%s/matches/%s/winner", bracketURL(bracketID), matchID)
}

func playerURL(id uuid.UUID) string {
	return "/players/" + id.String()
}
