package deck

import (
	"errors"
	"fmt"
	"math/rand"
)

var ErrPlayerCount = errors.New("number of players must be between 3 and 5")

const (
	MinPlayers = 3
	MaxPlayers = 5
	// Size of the reference deck: 4 suits of 9 plus 4 trumps.
	Size = 40
)

// Deck represents a deck of cards
type Deck []Card

// New creates the reference deck in canonical order
func New() Deck {
	cards := make(Deck, 0, Size)
	for _, suit := range AllSuits {
		for rank := 1; rank <= suit.MaxRank(); rank++ {
			cards = append(cards, Card{Suit: suit, Rank: rank})
		}
	}
	return cards
}

// Shuffle shuffles the deck in place using the given source, so a seed reproduces a deal
func (d Deck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d), func(i, j int) {
		d[i], d[j] = d[j], d[i]
	})
}

// CheckPlayerCount rejects tables the reference deck does not support.
func CheckPlayerCount(n int) error {
	if n < MinPlayers || n > MaxPlayers {
		return fmt.Errorf("%w, got %d", ErrPlayerCount, n)
	}
	return nil
}

// Deal splits the deck into n hands of len/n cards. The remainder goes to the last player.
func (d Deck) Deal(n int) ([][]Card, error) {
	if err := CheckPlayerCount(n); err != nil {
		return nil, err
	}
	perPlayer := len(d) / n
	hands := make([][]Card, n)
	for i := 0; i < n; i++ {
		lo := perPlayer * i
		hi := perPlayer * (i + 1)
		if i == n-1 {
			hi = len(d)
		}
		hands[i] = append([]Card(nil), d[lo:hi]...)
	}
	return hands, nil
}

// TricksTotal is the number of complete tricks played with the reference deck.
func TricksTotal(n int) int {
	if n <= 0 {
		return 0
	}
	return Size / n
}
