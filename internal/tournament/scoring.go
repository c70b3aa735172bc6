package tournament

import (
	"cmp"
	"errors"
	"slices"
	"strings"

	"github.com/AdamBeresnev/mariolympics/internal/bracket"
	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
)

var ErrBronzeMedalPending = apperrors.New(apperrors.KindNotReady, "BRONZE_MEDAL_PENDING", "bronze medal match is not decided")

var placementPoints = map[int]int{1: 15, 2: 12, 3: 10, 4: 8, 5: 6, 6: 6, 7: 4, 8: 4}

const defaultPoints = 2

// BracketScore is a computed view and is never persisted.
type BracketScore struct {
	Player    *roster.Player
	Placement int
	Points    int
}

type Standing struct {
	Player *roster.Player
	Score  int
}

func PointsForPlacement(placement int) int {
	if p, ok := placementPoints[placement]; ok {
		return p
	}
	return defaultPoints
}

// CalculateBracketScores ranks every player of a finished bracket.
//
// The champion is 1st and the finalist 2nd. With a bronze medal match its
// winner is 3rd and its loser 4th. Every other player eliminated in round r of
// R shares place 2^(R-r)+1, so semifinal losers tie at 3rd when there is no
// bronze medal match and quarterfinal losers tie at 5th.
func CalculateBracketScores(b *bracket.Bracket) ([]BracketScore, error) {
	if !b.IsComplete() {
		return nil, bracket.ErrNotComplete
	}
	bronze := b.BronzeMedalMatch
	if bronze != nil && bronze.Winner == nil {
		return nil, ErrBronzeMedalPending
	}

	var scores []BracketScore
	placed := make(map[uuid.UUID]bool)
	add := func(p *roster.Player, placement int) {
		if p == nil || placed[p.ID] {
			return
		}
		placed[p.ID] = true
		scores = append(scores, BracketScore{Player: p, Placement: placement, Points: PointsForPlacement(placement)})
	}

	add(b.Champion(), 1)
	if bronze != nil {
		add(bronze.Winner, 3)
		add(bronze.Loser(), 4)
	}

	totalRounds := len(b.Rounds)
	for ri := totalRounds - 1; ri >= 0; ri-- {
		placement := 1<<(totalRounds-1-ri) + 1
		for _, m := range b.Rounds[ri].Matches {
			if m.IsBye() {
				continue
			}
			add(m.Loser(), placement)
		}
	}

	slices.SortStableFunc(scores, func(a, c BracketScore) int {
		if n := cmp.Compare(a.Placement, c.Placement); n != 0 {
			return n
		}
		return strings.Compare(a.Player.FullName(), c.Player.FullName())
	})
	return scores, nil
}

// CalculateTotalScores sums bracket points per player and writes the total to
// each roster player's Score. Brackets that are still being played count as
// zero.
func (t *Tournament) CalculateTotalScores() (map[uuid.UUID]int, error) {
	totals := make(map[uuid.UUID]int, len(t.Players))
	for _, p := range t.Players {
		totals[p.ID] = 0
	}

	for _, b := range t.Brackets {
		scores, err := CalculateBracketScores(b)
		if errors.Is(err, apperrors.ErrNotReady) {
			continue
		}
		if err != nil {
			return nil, err
		}
		for _, s := range scores {
			totals[s.Player.ID] += s.Points
		}
	}

	for _, p := range t.Players {
		p.Score = totals[p.ID]
	}
	return totals, nil
}

// Leaderboard orders the roster by total score, highest first, ties broken by
// full name.
func (t *Tournament) Leaderboard() ([]Standing, error) {
	totals, err := t.CalculateTotalScores()
	if err != nil {
		return nil, err
	}

	standings := make([]Standing, 0, len(t.Players))
	for _, p := range t.Players {
		standings = append(standings, Standing{Player: p, Score: totals[p.ID]})
	}
	slices.SortStableFunc(standings, func(a, b Standing) int {
		if n := cmp.Compare(b.Score, a.Score); n != 0 {
			return n
		}
		return strings.Compare(a.Player.FullName(), b.Player.FullName())
	})
	return standings, nil
}
