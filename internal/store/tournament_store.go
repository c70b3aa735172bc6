package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/bracket"
	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/AdamBeresnev/mariolympics/internal/tournament"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrUnknownPlayer = apperrors.New(apperrors.KindStructural, "MATCH_PLAYER_UNKNOWN", "match references a player outside the tournament")

type TournamentStore struct {
	db      *sqlx.DB
	players *PlayerStore
}

// TournamentSummary is one row of the tournament list.
type TournamentSummary struct {
	ID          uuid.UUID `db:"id"`
	Date        time.Time `db:"date"`
	CreatedAt   time.Time `db:"created_at"`
	PlayerCount int       `db:"player_count"`
}

type tournamentPlayerRow struct {
	TournamentID uuid.UUID `db:"tournament_id"`
	PlayerID     uuid.UUID `db:"player_id"`
	Position     int       `db:"position"`
}

type bracketRow struct {
	ID                  uuid.UUID `db:"id"`
	TournamentID        uuid.UUID `db:"tournament_id"`
	Game                string    `db:"game"`
	Position            int       `db:"position"`
	HasBronzeMedalMatch bool      `db:"has_bronze_medal_match"`
}

type roundRow struct {
	ID          uuid.UUID `db:"id"`
	BracketID   uuid.UUID `db:"bracket_id"`
	RoundNumber int       `db:"round_number"`
}

type matchRow struct {
	ID            uuid.UUID  `db:"id"`
	BracketID     uuid.UUID  `db:"bracket_id"`
	RoundID       *uuid.UUID `db:"round_id"`
	MatchIndex    int        `db:"match_index"`
	IsBronzeMedal bool       `db:"is_bronze_medal"`
	Player1ID     *uuid.UUID `db:"player_1_id"`
	Player2ID     *uuid.UUID `db:"player_2_id"`
	WinnerID      *uuid.UUID `db:"winner_id"`
}

type byeRow struct {
	BracketID   uuid.UUID `db:"bracket_id"`
	RoundNumber int       `db:"round_number"`
	MatchIndex  int       `db:"match_index"`
	Slot        int       `db:"slot"`
	PlayerID    uuid.UUID `db:"player_id"`
}

const (
	createTournamentQuery = `INSERT INTO tournaments (id, date, created_at) VALUES (:id, :date, :created_at)`
	createEntrantsQuery   = `
		INSERT INTO tournament_players (tournament_id, player_id, position)
		VALUES (:tournament_id, :player_id, :position)`
	createBracketsQuery = `
		INSERT INTO brackets (id, tournament_id, game, position, has_bronze_medal_match)
		VALUES (:id, :tournament_id, :game, :position, :has_bronze_medal_match)`
	createRoundsQuery = `
		INSERT INTO rounds (id, bracket_id, round_number)
		VALUES (:id, :bracket_id, :round_number)`
	createMatchesQuery = `
		INSERT INTO matches (id, bracket_id, round_id, match_index, is_bronze_medal, player_1_id, player_2_id, winner_id)
		VALUES (:id, :bracket_id, :round_id, :match_index, :is_bronze_medal, :player_1_id, :player_2_id, :winner_id)`
	createByesQuery = `
		INSERT INTO bye_placements (bracket_id, round_number, match_index, slot, player_id)
		VALUES (:bracket_id, :round_number, :match_index, :slot, :player_id)`
	updateMatchQuery = `
		UPDATE matches SET player_1_id = :player_1_id, player_2_id = :player_2_id, winner_id = :winner_id
		WHERE id = :id`
	listTournamentsQuery = `
		SELECT t.id, t.date, t.created_at, COUNT(tp.player_id) AS player_count
		FROM tournaments t
		LEFT JOIN tournament_players tp ON tp.tournament_id = t.id
		GROUP BY t.id
		ORDER BY t.date DESC, t.created_at DESC`
)

func NewTournamentStore(db *sqlx.DB, players *PlayerStore) *TournamentStore {
	return &TournamentStore{db: db, players: players}
}

// CreateTournament writes the tournament with its entrants and every bracket.
// Players must already exist.
func (s *TournamentStore) CreateTournament(ctx context.Context, tx *sqlx.Tx, t *tournament.Tournament) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	if _, err := tx.NamedExecContext(ctx, createTournamentQuery, t); err != nil {
		return fmt.Errorf("failed to insert tournament: %w", err)
	}

	entrants := make([]tournamentPlayerRow, 0, len(t.Players))
	for i, p := range t.Players {
		entrants = append(entrants, tournamentPlayerRow{TournamentID: t.ID, PlayerID: p.ID, Position: i})
	}
	if err := namedBatch(ctx, tx, createEntrantsQuery, entrants); err != nil {
		return fmt.Errorf("failed to insert entrants: %w", err)
	}

	var (
		brackets []bracketRow
		rounds   []roundRow
		matches  []matchRow
		byes     []byeRow
	)
	for i, b := range t.Brackets {
		brackets = append(brackets, bracketRow{
			ID:                  b.ID,
			TournamentID:        t.ID,
			Game:                string(b.Game),
			Position:            i,
			HasBronzeMedalMatch: b.HasBronzeMedalMatch,
		})
		for _, r := range b.Rounds {
			rounds = append(rounds, roundRow{ID: r.ID, BracketID: b.ID, RoundNumber: r.Number})
			for mi, m := range r.Matches {
				matches = append(matches, newMatchRow(b.ID, &r.ID, mi, false, m))
			}
		}
		if b.BronzeMedalMatch != nil {
			matches = append(matches, newMatchRow(b.ID, nil, 0, true, b.BronzeMedalMatch))
		}
		for _, bp := range b.ByePlacements() {
			byes = append(byes, byeRow{
				BracketID:   b.ID,
				RoundNumber: bp.Round,
				MatchIndex:  bp.Match,
				Slot:        int(bp.Slot),
				PlayerID:    bp.Player.ID,
			})
		}
	}

	if err := namedBatch(ctx, tx, createBracketsQuery, brackets); err != nil {
		return fmt.Errorf("failed to insert brackets: %w", err)
	}
	if err := namedBatch(ctx, tx, createRoundsQuery, rounds); err != nil {
		return fmt.Errorf("failed to insert rounds: %w", err)
	}
	if err := namedBatch(ctx, tx, createMatchesQuery, matches); err != nil {
		return fmt.Errorf("failed to insert matches: %w", err)
	}
	if err := namedBatch(ctx, tx, createByesQuery, byes); err != nil {
		return fmt.Errorf("failed to insert bye placements: %w", err)
	}
	return nil
}

// SaveBracket writes the slots and winner of every match of b.
func (s *TournamentStore) SaveBracket(ctx context.Context, tx *sqlx.Tx, b *bracket.Bracket) error {
	stmt, err := tx.PrepareNamedContext(ctx, updateMatchQuery)
	if err != nil {
		return err
	}
	defer stmt.Close()

	save := func(m *bracket.Match) error {
		res, err := stmt.ExecContext(ctx, newMatchRow(b.ID, nil, 0, false, m))
		if err != nil {
			return fmt.Errorf("failed to update match %s: %w", m.ID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("match %s: %w", m.ID, sql.ErrNoRows)
		}
		return nil
	}

	for _, r := range b.Rounds {
		for _, m := range r.Matches {
			if err := save(m); err != nil {
				return err
			}
		}
	}
	if b.BronzeMedalMatch != nil {
		return save(b.BronzeMedalMatch)
	}
	return nil
}

func (s *TournamentStore) GetTournament(ctx context.Context, id uuid.UUID) (*tournament.Tournament, error) {
	return s.GetTournamentTx(ctx, s.db, id)
}

// GetTournamentTx loads the whole tournament aggregate. Match slots point at
// the same player values as t.Players.
func (s *TournamentStore) GetTournamentTx(ctx context.Context, q sqlx.QueryerContext, id uuid.UUID) (*tournament.Tournament, error) {
	var t tournament.Tournament
	if err := sqlx.GetContext(ctx, q, &t, "SELECT id, date, created_at FROM tournaments WHERE id = ?", id); err != nil {
		return nil, err
	}

	players, err := s.players.GetTournamentPlayers(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get entrants: %w", err)
	}
	t.Players = players

	byID := make(map[uuid.UUID]*roster.Player, len(players))
	for _, p := range players {
		byID[p.ID] = p
	}

	t.Brackets, err = s.loadBrackets(ctx, q, id, byID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// BracketTournamentID finds the tournament a bracket belongs to.
func (s *TournamentStore) BracketTournamentID(ctx context.Context, q sqlx.QueryerContext, bracketID uuid.UUID) (uuid.UUID, error) {
	var id uuid.UUID
	err := sqlx.GetContext(ctx, q, &id, "SELECT tournament_id FROM brackets WHERE id = ?", bracketID)
	return id, err
}

func (s *TournamentStore) ListTournaments(ctx context.Context) ([]TournamentSummary, error) {
	var tournaments []TournamentSummary
	err := s.db.SelectContext(ctx, &tournaments, listTournamentsQuery)
	return tournaments, err
}

// DeleteTournament removes the tournament. Brackets, rounds and matches go
// with it.
func (s *TournamentStore) DeleteTournament(ctx context.Context, tx *sqlx.Tx, id uuid.UUID) error {
	res, err := tx.ExecContext(ctx, "DELETE FROM tournaments WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *TournamentStore) loadBrackets(ctx context.Context, q sqlx.QueryerContext, tournamentID uuid.UUID, players map[uuid.UUID]*roster.Player) ([]*bracket.Bracket, error) {
	var bracketRows []bracketRow
	err := sqlx.SelectContext(ctx, q, &bracketRows,
		"SELECT * FROM brackets WHERE tournament_id = ? ORDER BY position", tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get brackets: %w", err)
	}
	if len(bracketRows) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(bracketRows))
	for _, b := range bracketRows {
		ids = append(ids, b.ID)
	}

	var rounds []roundRow
	if err := selectIn(ctx, q, &rounds,
		"SELECT * FROM rounds WHERE bracket_id IN (?) ORDER BY round_number", ids); err != nil {
		return nil, fmt.Errorf("failed to get rounds: %w", err)
	}
	var matches []matchRow
	if err := selectIn(ctx, q, &matches,
		"SELECT * FROM matches WHERE bracket_id IN (?) ORDER BY match_index", ids); err != nil {
		return nil, fmt.Errorf("failed to get matches: %w", err)
	}
	var byes []byeRow
	if err := selectIn(ctx, q, &byes,
		"SELECT * FROM bye_placements WHERE bracket_id IN (?)", ids); err != nil {
		return nil, fmt.Errorf("failed to get bye placements: %w", err)
	}

	lookup := func(id *uuid.UUID) (*roster.Player, error) {
		if id == nil {
			return nil, nil
		}
		p, ok := players[*id]
		if !ok {
			return nil, apperrors.Wrap(apperrors.KindStructural, ErrUnknownPlayer.Code, ErrUnknownPlayer.Message,
				fmt.Errorf("player %s", *id))
		}
		return p, nil
	}

	roundsByBracket := make(map[uuid.UUID][]bracket.Round)
	roundIndex := make(map[uuid.UUID]int)
	for _, r := range rounds {
		roundIndex[r.ID] = len(roundsByBracket[r.BracketID])
		roundsByBracket[r.BracketID] = append(roundsByBracket[r.BracketID], bracket.Round{ID: r.ID, Number: r.RoundNumber})
	}

	bronzeByBracket := make(map[uuid.UUID]*bracket.Match)
	for _, row := range matches {
		m := &bracket.Match{ID: row.ID}
		if m.Player1, err = lookup(row.Player1ID); err != nil {
			return nil, err
		}
		if m.Player2, err = lookup(row.Player2ID); err != nil {
			return nil, err
		}
		if m.Winner, err = lookup(row.WinnerID); err != nil {
			return nil, err
		}

		if row.IsBronzeMedal || row.RoundID == nil {
			bronzeByBracket[row.BracketID] = m
			continue
		}
		ri, ok := roundIndex[*row.RoundID]
		if !ok {
			return nil, fmt.Errorf("match %s: %w", row.ID, bracket.ErrNextMatchMissing)
		}
		round := &roundsByBracket[row.BracketID][ri]
		round.Matches = append(round.Matches, m)
	}

	byesByBracket := make(map[uuid.UUID][]bracket.ByePlacement)
	for _, row := range byes {
		p, err := lookup(&row.PlayerID)
		if err != nil {
			return nil, err
		}
		byesByBracket[row.BracketID] = append(byesByBracket[row.BracketID], bracket.ByePlacement{
			ByeKey: bracket.ByeKey{Round: row.RoundNumber, Match: row.MatchIndex, Slot: bracket.Slot(row.Slot)},
			Player: p,
		})
	}

	out := make([]*bracket.Bracket, 0, len(bracketRows))
	for _, row := range bracketRows {
		out = append(out, bracket.Restore(
			row.ID,
			roster.Game(row.Game),
			roundsByBracket[row.ID],
			bronzeByBracket[row.ID],
			row.HasBronzeMedalMatch,
			byesByBracket[row.ID],
		))
	}
	return out, nil
}

func newMatchRow(bracketID uuid.UUID, roundID *uuid.UUID, index int, bronze bool, m *bracket.Match) matchRow {
	id := func(p *roster.Player) *uuid.UUID {
		if p == nil {
			return nil
		}
		return &p.ID
	}
	return matchRow{
		ID:            m.ID,
		BracketID:     bracketID,
		RoundID:       roundID,
		MatchIndex:    index,
		IsBronzeMedal: bronze,
		Player1ID:     id(m.Player1),
		Player2ID:     id(m.Player2),
		WinnerID:      id(m.Winner),
	}
}

// namedBatch runs a multi-row named insert. Empty batches are skipped.
func namedBatch[T any](ctx context.Context, tx *sqlx.Tx, query string, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := tx.NamedExecContext(ctx, query, rows)
	return err
}

func selectIn(ctx context.Context, q sqlx.QueryerContext, dest any, query string, ids []uuid.UUID) error {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, q, dest, sqlx.Rebind(sqlx.BindType("sqlite3"), query), args...)
}
