package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/store"
	"github.com/AdamBeresnev/mariolympics/internal/utils"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type RosterService struct {
	db    *sqlx.DB
	store *store.PlayerStore
}

func NewRosterService(db *sqlx.DB, store *store.PlayerStore) *RosterService {
	return &RosterService{db: db, store: store}
}

type PlayerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Character string
}

func (s *RosterService) CreatePlayer(ctx context.Context, in PlayerInput) (*roster.Player, error) {
	p, err := newPlayerFromInput(in)
	if err != nil {
		return nil, err
	}

	if err := s.insert(ctx, []*roster.Player{p}); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "player created", "player_id", p.ID, "name", p.FullName(), "character", p.CharacterName)
	return p, nil
}

// ImportPlayers bulk-creates players from newline-separated
// "First Last, Character" lines. Blank lines are skipped. One bad line
// rejects the whole import.
func (s *RosterService) ImportPlayers(ctx context.Context, text string) ([]*roster.Player, error) {
	var players []*roster.Player

	for i, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		in, err := parseRosterLine(line)
		if err != nil {
			return nil, invalid(ErrMalformedRosterRow, fmt.Errorf("line %d: %w", i+1, err))
		}
		p, err := newPlayerFromInput(in)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		players = append(players, p)
	}

	if err := s.insert(ctx, players); err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "players imported", "count", len(players))
	return players, nil
}

func (s *RosterService) ListPlayers(ctx context.Context) ([]*roster.Player, error) {
	return s.store.ListPlayers(ctx)
}

func (s *RosterService) DeletePlayer(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.DeletePlayer(ctx, tx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("player %s: %w", id, err)
		}
		return fmt.Errorf("failed to delete player: %w", err)
	}

	slog.InfoContext(ctx, "player deleted", "player_id", id)
	return tx.Commit()
}

func (s *RosterService) insert(ctx context.Context, players []*roster.Player) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := s.store.CreatePlayers(ctx, tx, players); err != nil {
		return fmt.Errorf("failed to create players: %w", err)
	}
	return tx.Commit()
}

func parseRosterLine(line string) (PlayerInput, error) {
	name, character, ok := strings.Cut(line, ",")
	if !ok {
		return PlayerInput{}, fmt.Errorf("missing character in %q", strings.TrimSpace(line))
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return PlayerInput{}, fmt.Errorf("missing name in %q", strings.TrimSpace(line))
	}
	return PlayerInput{
		FirstName: fields[0],
		LastName:  strings.Join(fields[1:], " "),
		Character: character,
	}, nil
}

func newPlayerFromInput(in PlayerInput) (*roster.Player, error) {
	first := strings.TrimSpace(in.FirstName)
	if first == "" {
		return nil, ErrNameRequired
	}
	character, err := roster.ParseCharacter(in.Character)
	if err != nil {
		return nil, invalid(ErrUnknownCharacter, err)
	}

	person := &roster.Person{
		ID:        uuid.New(),
		FirstName: first,
		LastName:  strings.TrimSpace(in.LastName),
		Email:     utils.StringOrNil(in.Email),
		Phone:     utils.StringOrNil(in.Phone),
	}
	return roster.NewPlayer(person, character), nil
}
