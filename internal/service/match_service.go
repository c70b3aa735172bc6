package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/AdamBeresnev/mariolympics/internal/bracket"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/store"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type MatchService struct {
	db    *sqlx.DB
	store *store.TournamentStore
	locks *BracketLocks
}

func NewMatchService(db *sqlx.DB, store *store.TournamentStore, locks *BracketLocks) *MatchService {
	return &MatchService{db: db, store: store, locks: locks}
}

// SetMatchWinner records the winner of a match and advances them. It returns
// the id of the tournament the bracket belongs to.
func (s *MatchService) SetMatchWinner(ctx context.Context, bracketID, matchID, winnerID uuid.UUID) (uuid.UUID, error) {
	var champion bool
	tournamentID, err := s.update(ctx, bracketID, func(b *bracket.Bracket) error {
		match, ok := b.Match(matchID)
		if !ok {
			return fmt.Errorf("match %s: %w", matchID, bracket.ErrMatchNotInBracket)
		}

		if match == b.BronzeMedalMatch && !b.SemifinalsDecided() {
			return bracket.ErrSemifinalsPending
		}

		var winner *roster.Player
		for _, p := range []*roster.Player{match.Player1, match.Player2} {
			if p != nil && p.ID == winnerID {
				winner = p
			}
		}
		if winner == nil {
			return fmt.Errorf("player %s: %w", winnerID, bracket.ErrWinnerNotInMatch)
		}

		if err := b.SetWinner(match, winner); err != nil {
			return err
		}
		champion = b.IsComplete() && match == b.Final()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	slog.InfoContext(ctx, "match decided",
		"tournament_id", tournamentID,
		"bracket_id", bracketID,
		"match_id", matchID,
		"winner_id", winnerID,
		"bracket_complete", champion,
	)
	return tournamentID, nil
}

// ResetBracket clears every result of the bracket back to its generated draw.
func (s *MatchService) ResetBracket(ctx context.Context, bracketID uuid.UUID) (uuid.UUID, error) {
	tournamentID, err := s.update(ctx, bracketID, func(b *bracket.Bracket) error {
		b.Reset()
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	slog.InfoContext(ctx, "bracket reset", "tournament_id", tournamentID, "bracket_id", bracketID)
	return tournamentID, nil
}

// update runs fn on the bracket under its lock and saves the result in one
// transaction.
func (s *MatchService) update(ctx context.Context, bracketID uuid.UUID, fn func(*bracket.Bracket) error) (uuid.UUID, error) {
	unlock := s.locks.Lock(bracketID)
	defer unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}
	defer tx.Rollback()

	tournamentID, err := s.store.BracketTournamentID(ctx, tx, bracketID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("bracket %s: %w", bracketID, err)
	}

	t, err := s.store.GetTournamentTx(ctx, tx, tournamentID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load tournament: %w", err)
	}
	b, ok := t.Bracket(bracketID)
	if !ok {
		return uuid.Nil, fmt.Errorf("bracket %s: %w", bracketID, sql.ErrNoRows)
	}

	if err := fn(b); err != nil {
		return uuid.Nil, err
	}

	if err := s.store.SaveBracket(ctx, tx, b); err != nil {
		return uuid.Nil, fmt.Errorf("failed to save bracket: %w", err)
	}
	return tournamentID, tx.Commit()
}
