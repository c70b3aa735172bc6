package roster

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Character string

const (
	Mario      Character = "Mario"
	Luigi      Character = "Luigi"
	Peach      Character = "Peach"
	Daisy      Character = "Daisy"
	Wario      Character = "Wario"
	Waluigi    Character = "Waluigi"
	Yoshi      Character = "Yoshi"
	DonkeyKong Character = "DonkeyKong"
)

var Characters = []Character{Mario, Luigi, Peach, Daisy, Wario, Waluigi, Yoshi, DonkeyKong}

// ParseCharacter is case-insensitive and ignores spaces, so "donkey kong" works.
func ParseCharacter(name string) (Character, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
	for _, c := range Characters {
		if strings.ToLower(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown character %q", name)
}

// Game labels one bracket of a tournament.
type Game string

const (
	Tennis   Game = "Tennis"
	Golf     Game = "Golf"
	Strikers Game = "Strikers"
	Baseball Game = "Baseball"
	Kart     Game = "Kart"
)

var Games = []Game{Tennis, Golf, Strikers, Baseball, Kart}

func ParseGame(name string) (Game, error) {
	key := strings.TrimSpace(name)
	for _, g := range Games {
		if strings.EqualFold(string(g), key) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown game %q", name)
}

type Person struct {
	ID        uuid.UUID `db:"id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Email     *string   `db:"email"`
	Phone     *string   `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
}

func (p *Person) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Player is a person entered with a chosen character. Score holds the
// tournament total written by the scoring pass.
type Player struct {
	ID            uuid.UUID `db:"id"`
	PersonID      uuid.UUID `db:"person_id"`
	Person        *Person   `db:"-"`
	CharacterName string    `db:"character_name"`
	Score         int       `db:"score"`
}

func NewPlayer(person *Person, character Character) *Player {
	return &Player{
		ID:            uuid.New(),
		PersonID:      person.ID,
		Person:        person,
		CharacterName: string(character),
	}
}

func (p *Player) Character() Character {
	return Character(p.CharacterName)
}

func (p *Player) FullName() string {
	if p == nil || p.Person == nil {
		return ""
	}
	return p.Person.FullName()
}

func (p *Player) String() string {
	return p.FullName()
}

// Is reports whether both players are the same entity.
func (p *Player) Is(other *Player) bool {
	return p != nil && other != nil && p.ID == other.ID
}
