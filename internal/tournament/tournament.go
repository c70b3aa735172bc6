package tournament

import (
	"math/rand/v2"
	"time"

	"github.com/AdamBeresnev/mariolympics/internal/bracket"
	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
	"github.com/AdamBeresnev/mariolympics/internal/roster"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNilPlayer       = apperrors.New(apperrors.KindValidation, "PLAYER_REQUIRED", "roster contains a nil player")
	ErrDuplicatePlayer = apperrors.New(apperrors.KindValidation, "DUPLICATE_PLAYER", "player is entered twice")
	ErrDuplicateGame   = apperrors.New(apperrors.KindValidation, "DUPLICATE_GAME", "game is listed twice")
)

// Tournament owns one bracket per game, all drawn from the same roster.
type Tournament struct {
	ID        uuid.UUID `db:"id"`
	Date      time.Time `db:"date"`
	CreatedAt time.Time `db:"created_at"`

	Players  []*roster.Player  `db:"-"`
	Brackets []*bracket.Bracket `db:"-"`
}

type config struct {
	date        time.Time
	games       []roster.Game
	bronzeMedal bool
	seed        *uint64
	shuffle     bool
}

type Option func(*config)

func WithDate(date time.Time) Option {
	return func(c *config) { c.date = date }
}

func WithGames(games ...roster.Game) Option {
	return func(c *config) { c.games = games }
}

func WithBronzeMedalMatch(enabled bool) Option {
	return func(c *config) { c.bronzeMedal = enabled }
}

// WithSeed makes every bracket's draw reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) { c.seed = &seed }
}

func WithoutShuffle() Option {
	return func(c *config) { c.shuffle = false }
}

// Generate draws a bracket for every game. Games default to the full
// catalogue and the bronze medal match is on unless disabled.
func Generate(players []*roster.Player, opts ...Option) (*Tournament, error) {
	cfg := config{
		date:        time.Now().UTC(),
		games:       roster.Games,
		bronzeMedal: true,
		shuffle:     true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	seen := make(map[uuid.UUID]bool, len(players))
	for _, p := range players {
		if p == nil {
			return nil, ErrNilPlayer
		}
		if seen[p.ID] {
			return nil, ErrDuplicatePlayer
		}
		seen[p.ID] = true
	}
	games := make(map[roster.Game]bool, len(cfg.games))
	for _, g := range cfg.games {
		if games[g] {
			return nil, ErrDuplicateGame
		}
		games[g] = true
	}

	// Seeds are drawn up front so the result does not depend on goroutine scheduling.
	var master *rand.Rand
	if cfg.seed != nil {
		master = rand.New(rand.NewPCG(*cfg.seed, ^*cfg.seed))
	} else {
		master = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	seeds := make([]uint64, len(cfg.games))
	for i := range seeds {
		seeds[i] = master.Uint64()
	}

	t := &Tournament{
		ID:       uuid.New(),
		Date:     cfg.date,
		Players:  players,
		Brackets: make([]*bracket.Bracket, len(cfg.games)),
	}

	var g errgroup.Group
	for i, game := range cfg.games {
		g.Go(func() error {
			bracketOpts := []bracket.Option{bracket.WithSeed(seeds[i])}
			if !cfg.shuffle {
				bracketOpts = append(bracketOpts, bracket.WithoutShuffle())
			}
			t.Brackets[i] = bracket.Generate(players, game, cfg.bronzeMedal, bracketOpts...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return t, nil
}

// Bracket finds a bracket of this tournament by id.
func (t *Tournament) Bracket(id uuid.UUID) (*bracket.Bracket, bool) {
	for _, b := range t.Brackets {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (t *Tournament) IsComplete() bool {
	for _, b := range t.Brackets {
		if !b.IsComplete() {
			return false
		}
	}
	return len(t.Brackets) > 0
}
