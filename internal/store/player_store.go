package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PlayerStore struct {
	db *sqlx.DB
}

const (
	selectPlayersQuery = `
		SELECT p.id, p.person_id, p.character_name, p.score,
		       pe.first_name, pe.last_name, pe.email, pe.phone, pe.created_at
		FROM players p
		JOIN persons pe ON pe.id = p.person_id
	`
	createPersonQuery = `
		INSERT INTO persons (id, first_name, last_name, email, phone, created_at) VALUES
		(:id, :first_name, :last_name, :email, :phone, :created_at)
	`
	createPlayerQuery = `
		INSERT INTO players (id, person_id, character_name, score) VALUES
		(:id, :person_id, :character_name, :score)
	`
	updatePlayerScoreQuery = `UPDATE players SET score = :score WHERE id = :id`
	deletePlayerQuery      = "DELETE FROM players WHERE id = ?"
	deleteOrphanPersonQuery = `
		DELETE FROM persons
		WHERE id = ? AND NOT EXISTS (SELECT 1 FROM players WHERE person_id = persons.id)
	`
)

// playerRow is one players row joined with its person.
type playerRow struct {
	ID            uuid.UUID `db:"id"`
	PersonID      uuid.UUID `db:"person_id"`
	CharacterName string    `db:"character_name"`
	Score         int       `db:"score"`
	FirstName     string    `db:"first_name"`
	LastName      string    `db:"last_name"`
	Email         *string   `db:"email"`
	Phone         *string   `db:"phone"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r playerRow) toPlayer() *roster.Player {
	return &roster.Player{
		ID:            r.ID,
		PersonID:      r.PersonID,
		CharacterName: r.CharacterName,
		Score:         r.Score,
		Person: &roster.Person{
			ID:        r.PersonID,
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Email:     r.Email,
			Phone:     r.Phone,
			CreatedAt: r.CreatedAt,
		},
	}
}

func toPlayers(rows []playerRow) []*roster.Player {
	players := make([]*roster.Player, 0, len(rows))
	for _, r := range rows {
		players = append(players, r.toPlayer())
	}
	return players
}

func NewPlayerStore(db *sqlx.DB) *PlayerStore {
	return &PlayerStore{db: db}
}

// CreatePlayers inserts the players and their persons in one batch each.
func (s *PlayerStore) CreatePlayers(ctx context.Context, tx *sqlx.Tx, players []*roster.Player) error {
	if len(players) == 0 {
		return nil
	}

	persons := make([]*roster.Person, 0, len(players))
	seen := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		if p.Person == nil {
			return fmt.Errorf("player %s has no person", p.ID)
		}
		if seen[p.Person.ID] {
			continue
		}
		seen[p.Person.ID] = true
		if p.Person.CreatedAt.IsZero() {
			p.Person.CreatedAt = time.Now().UTC()
		}
		persons = append(persons, p.Person)
	}

	if _, err := tx.NamedExecContext(ctx, createPersonQuery, persons); err != nil {
		return fmt.Errorf("failed to insert persons: %w", err)
	}
	if _, err := tx.NamedExecContext(ctx, createPlayerQuery, players); err != nil {
		return fmt.Errorf("failed to insert players: %w", err)
	}
	return nil
}

func (s *PlayerStore) GetPlayer(ctx context.Context, id uuid.UUID) (*roster.Player, error) {
	var row playerRow
	err := s.db.GetContext(ctx, &row, selectPlayersQuery+" WHERE p.id = ?", id)
	if err != nil {
		return nil, err
	}
	return row.toPlayer(), nil
}

// ListPlayers returns the roster ordered by name.
func (s *PlayerStore) ListPlayers(ctx context.Context) ([]*roster.Player, error) {
	var rows []playerRow
	err := s.db.SelectContext(ctx, &rows, selectPlayersQuery+" ORDER BY pe.first_name, pe.last_name, p.id")
	if err != nil {
		return nil, err
	}
	return toPlayers(rows), nil
}

// GetPlayersByIDs loads the players in the order of ids. A missing id is
// reported as sql.ErrNoRows.
func (s *PlayerStore) GetPlayersByIDs(ctx context.Context, q sqlx.QueryerContext, ids []uuid.UUID) ([]*roster.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(selectPlayersQuery+" WHERE p.id IN (?)", ids)
	if err != nil {
		return nil, err
	}

	var rows []playerRow
	if err := sqlx.SelectContext(ctx, q, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*roster.Player, len(rows))
	for _, r := range rows {
		byID[r.ID] = r.toPlayer()
	}
	players := make([]*roster.Player, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("player %s: %w", id, sql.ErrNoRows)
		}
		players = append(players, p)
	}
	return players, nil
}

// GetTournamentPlayers loads the entrants of a tournament in entry order.
func (s *PlayerStore) GetTournamentPlayers(ctx context.Context, q sqlx.QueryerContext, tournamentID uuid.UUID) ([]*roster.Player, error) {
	var rows []playerRow
	err := sqlx.SelectContext(ctx, q, &rows, selectPlayersQuery+`
		JOIN tournament_players tp ON tp.player_id = p.id
		WHERE tp.tournament_id = ?
		ORDER BY tp.position`, tournamentID)
	if err != nil {
		return nil, err
	}
	return toPlayers(rows), nil
}

func (s *PlayerStore) UpdatePlayerScores(ctx context.Context, tx *sqlx.Tx, players []*roster.Player) error {
	stmt, err := tx.PrepareNamedContext(ctx, updatePlayerScoreQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range players {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to update score of player %s: %w", p.ID, err)
		}
	}
	return nil
}

// DeletePlayer removes the player and, when it was the last player of its
// person, the person too. Match slots the player held are cleared by the
// schema.
func (s *PlayerStore) DeletePlayer(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	var personID uuid.UUID
	if err := tx.GetContext(ctx, &personID, "SELECT person_id FROM players WHERE id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, deletePlayerQuery, id); err != nil {
		return fmt.Errorf("failed to delete player: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteOrphanPersonQuery, personID); err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return nil
}
