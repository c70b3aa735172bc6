package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/store"
	"github.com/AdamBeresnev/mariolympics/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type TournamentService struct {
	db       *sqlx.DB
	store    *store.TournamentStore
	players  *store.PlayerStore
	defaults Defaults
}

// Defaults apply when a request leaves games or the bronze medal match unset.
type Defaults struct {
	Games            []roster.Game
	BronzeMedalMatch bool
}

func NewTournamentService(db *sqlx.DB, store *store.TournamentStore, players *store.PlayerStore, defaults Defaults) *TournamentService {
	if len(defaults.Games) == 0 {
		defaults.Games = roster.Games
	}
	return &TournamentService{db: db, store: store, players: players, defaults: defaults}
}

// Defaults returns the games and bronze medal setting used when a request
// leaves them unset.
func (s *TournamentService) Defaults() Defaults {
	return s.defaults
}

type TournamentInput struct {
	Date             time.Time
	PlayerIDs        []uuid.UUID
	Games            []roster.Game
	BronzeMedalMatch *bool
	Seed             *uint64
}

func (s *TournamentService) CreateTournament(ctx context.Context, in TournamentInput) (*tournament.Tournament, error) {
	if len(in.PlayerIDs) < 2 {
		return nil, ErrNotEnoughPlayers
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	players, err := s.players.GetPlayersByIDs(ctx, tx, in.PlayerIDs)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invalid(ErrUnknownPlayer, err)
		}
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	opts := []tournament.Option{
		tournament.WithGames(s.defaults.Games...),
		tournament.WithBronzeMedalMatch(s.defaults.BronzeMedalMatch),
	}
	if !in.Date.IsZero() {
		opts = append(opts, tournament.WithDate(in.Date))
	}
	if len(in.Games) > 0 {
		opts = append(opts, tournament.WithGames(in.Games...))
	}
	if in.BronzeMedalMatch != nil {
		opts = append(opts, tournament.WithBronzeMedalMatch(*in.BronzeMedalMatch))
	}
	if in.Seed != nil {
		opts = append(opts, tournament.WithSeed(*in.Seed))
	}

	t, err := tournament.Generate(players, opts...)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateTournament(ctx, tx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "tournament created",
		"tournament_id", t.ID,
		"players", len(t.Players),
		"brackets", len(t.Brackets),
	)
	return t, nil
}

func (s *TournamentService) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("tournament %s: %w", id, err)
	}
	return t, nil
}

func (s *TournamentService) ListTournaments(ctx context.Context) ([]store.TournamentSummary, error) {
	return s.store.ListTournaments(ctx)
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.DeleteTournament(ctx, tx, id); err != nil {
		return fmt.Errorf("tournament %s: %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "tournament deleted", "tournament_id", id)
	return nil
}

// GetLeaderboard scores the tournament and stores each player's total.
//
// A player has a single stored score shared by every tournament they play
// in, so the stored value is the total from whichever tournament's
// leaderboard was computed last.
func (s *TournamentService) GetLeaderboard(ctx context.Context, id uuid.UUID) ([]tournament.Standing, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	t, err := s.store.GetTournamentTx(ctx, tx, id)
	if err != nil {
		return nil, fmt.Errorf("tournament %s: %w", id, err)
	}

	standings, err := t.Leaderboard()
	if err != nil {
		return nil, err
	}

	if err := s.players.UpdatePlayerScores(ctx, tx, t.Players); err != nil {
		return nil, fmt.Errorf("failed to store scores: %w", err)
	}
	return standings, tx.Commit()
}
