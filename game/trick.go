package game

import (
	"fmt"

	"github.com/remigerme/the-crew-solver/deck"
)

// Trick holds the cards played in one round, in play order, starting with the leader's card.
type Trick struct {
	Index  int
	Leader int
	Cards  []deck.Card
}

// NewTrick builds a trick, refusing invalid or duplicate cards.
func NewTrick(index, leader int, cards ...deck.Card) (Trick, error) {
	if err := checkCards(cards); err != nil {
		return Trick{}, fmt.Errorf("creating trick %d: %w", index, err)
	}
	return Trick{
		Index:  index,
		Leader: leader,
		Cards:  append([]deck.Card(nil), cards...),
	}, nil
}

// MustTrick is NewTrick for fixtures.
func MustTrick(index, leader int, cards ...deck.Card) Trick {
	t, err := NewTrick(index, leader, cards...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lead returns the card that opened the trick.
func (t Trick) Lead() (deck.Card, bool) {
	if len(t.Cards) == 0 {
		return deck.Card{}, false
	}
	return t.Cards[0], true
}

func (t Trick) Contains(card deck.Card) bool {
	for _, c := range t.Cards {
		if c == card {
			return true
		}
	}
	return false
}

// PlayedBy returns the card the given seat put into the trick, if it has played yet.
func (t Trick) PlayedBy(player, nPlayers int) (deck.Card, bool) {
	if nPlayers <= 0 {
		return deck.Card{}, false
	}
	pos := (player - t.Leader + nPlayers) % nPlayers
	if pos >= len(t.Cards) {
		return deck.Card{}, false
	}
	return t.Cards[pos], true
}

// Winner returns the absolute index of the player who won the trick.
// The highest trump wins; without trumps, the highest card of the led colour wins.
func (t Trick) Winner(nPlayers int) (int, error) {
	if len(t.Cards) == 0 {
		return 0, ErrEmptyTrick
	}
	if t.Leader < 0 || t.Leader >= nPlayers {
		return 0, fmt.Errorf("%w: leader %d with %d players", ErrInvalidLeader, t.Leader, nPlayers)
	}
	return (t.relativeWinner() + t.Leader) % nPlayers, nil
}

func (t Trick) relativeWinner() int {
	target := t.Cards[0]
	for _, c := range t.Cards {
		if c.IsTrump() {
			target = c
			break
		}
	}

	best := -1
	for i, c := range t.Cards {
		if !c.SameColour(target) {
			continue
		}
		if best < 0 || c.Rank > t.Cards[best].Rank {
			best = i
		}
	}
	return best
}

func (t Trick) clone() Trick {
	t.Cards = append([]deck.Card(nil), t.Cards...)
	return t
}

func (t Trick) String() string {
	return fmt.Sprintf("#%d led by %d: %v", t.Index, t.Leader, t.Cards)
}
