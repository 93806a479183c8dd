// Package catalog holds the task cards of the base game and deals them out to players
// within a difficulty budget.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math/rand"

	"github.com/remigerme/the-crew-solver/deck"
	"github.com/remigerme/the-crew-solver/game"
	"github.com/remigerme/the-crew-solver/protocol"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var bundled []byte

var (
	ErrEmptyCatalog   = errors.New("catalog has no entries")
	ErrDuplicateName  = errors.New("duplicate catalog entry")
	ErrUnknownEntry   = errors.New("unknown catalog entry")
	ErrDifficulty     = errors.New("difficulty needs one value per player count")
	ErrNegativeBudget = errors.New("negative difficulty budget")
)

// Entry is one task card. Difficulty and ValueByPlayers hold one value per supported player
// count, starting at the minimum.
type Entry struct {
	Name           string            `json:"name" yaml:"name"`
	Task           protocol.TaskSpec `json:"task" yaml:"task"`
	Difficulty     []int             `json:"difficulty" yaml:"difficulty"`
	ValueByPlayers []int             `json:"value_by_players,omitempty" yaml:"value_by_players,omitempty"`
}

// DifficultyFor returns the difficulty of the card at a table of n players.
func (e Entry) DifficultyFor(n int) (int, error) {
	if err := deck.CheckPlayerCount(n); err != nil {
		return 0, err
	}
	return e.Difficulty[n-deck.MinPlayers], nil
}

// Build instantiates the card's task for a table of n players.
func (e Entry) Build(n int) (game.Task, error) {
	if err := deck.CheckPlayerCount(n); err != nil {
		return game.Task{}, err
	}
	spec := e.Task
	if len(e.ValueByPlayers) > 0 {
		spec.Value = e.ValueByPlayers[n-deck.MinPlayers]
	}
	t, err := spec.Build(n)
	if err != nil {
		return game.Task{}, fmt.Errorf("%s: %w", e.Name, err)
	}
	return t, nil
}

func (e Entry) needsCaptain() bool {
	return e.Task.Kind == "win_tricks_versus_captain"
}

type Catalog struct {
	entries []Entry
	byName  map[string]int
}

// Load parses the catalog bundled with the binary.
func Load() (*Catalog, error) {
	return Parse(bundled)
}

// Parse decodes a YAML list of entries and checks that every entry builds for every
// supported player count.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyCatalog
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{entries: entries, byName: make(map[string]int, len(entries))}
	for i, e := range entries {
		if _, ok := c.byName[e.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateName, e.Name)
		}
		c.byName[e.Name] = i
		if err := e.check(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (e Entry) check() error {
	counts := deck.MaxPlayers - deck.MinPlayers + 1
	if len(e.Difficulty) != counts {
		return fmt.Errorf("%s: %w", e.Name, ErrDifficulty)
	}
	if len(e.ValueByPlayers) != 0 && len(e.ValueByPlayers) != counts {
		return fmt.Errorf("%s: value_by_players needs %d values", e.Name, counts)
	}
	for n := deck.MinPlayers; n <= deck.MaxPlayers; n++ {
		if d, _ := e.DifficultyFor(n); d < 0 {
			return fmt.Errorf("%s: %w", e.Name, ErrDifficulty)
		}
		if _, err := e.Build(n); err != nil {
			return err
		}
	}
	return nil
}

// Entries returns the cards in file order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

func (c *Catalog) Lookup(name string) (Entry, error) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, name)
	}
	return c.entries[i], nil
}

// Assignment records a card given to a seat.
type Assignment struct {
	Player     int
	Entry      Entry
	Difficulty int
}

// Assign deals cards to the players of s, starting with seat 0 and going round the table,
// until their difficulties sum to budget or no remaining card fits. Each round the deck of
// cards is shuffled and the first card that fits the remaining budget is taken. A card is
// dealt at most once and the captain never receives a card that compares against the captain.
func Assign(rng *rand.Rand, s *game.State, budget int, c *Catalog) ([]Assignment, error) {
	if budget < 0 {
		return nil, ErrNegativeBudget
	}
	n := s.NumPlayers()
	captain, hasCaptain := s.Captain()

	left := c.Entries()
	var (
		assigned []Assignment
		total    int
		ip       int
	)
	for total < budget {
		rng.Shuffle(len(left), func(i, j int) { left[i], left[j] = left[j], left[i] })

		pick := -1
		var diff int
		for i, e := range left {
			if e.needsCaptain() && (!hasCaptain || captain == ip) {
				continue
			}
			d, err := e.DifficultyFor(n)
			if err != nil {
				return nil, err
			}
			if d <= budget-total {
				pick, diff = i, d
				break
			}
		}
		if pick < 0 {
			break
		}

		e := left[pick]
		t, err := e.Build(n)
		if err != nil {
			return nil, err
		}
		s.Player(ip).AddTask(t)
		assigned = append(assigned, Assignment{Player: ip, Entry: e, Difficulty: diff})
		total += diff
		left = append(left[:pick], left[pick+1:]...)
		ip = (ip + 1) % n
	}
	return assigned, nil
}

// Total sums the difficulty of the assignments.
func Total(as []Assignment) int {
	total := 0
	for _, a := range as {
		total += a.Difficulty
	}
	return total
}
