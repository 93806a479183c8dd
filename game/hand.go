package game

import (
	"fmt"
	"sort"

	"github.com/remigerme/the-crew-solver/deck"
)

// Hand is the set of cards a player still holds. It is never modified in place:
// Without returns a new Hand, so clones of a State can share hands safely.
type Hand struct {
	cards []deck.Card
}

// NewHand builds a hand, refusing invalid or duplicate cards.
func NewHand(cards ...deck.Card) (Hand, error) {
	if err := checkCards(cards); err != nil {
		return Hand{}, fmt.Errorf("creating hand: %w", err)
	}
	sorted := append([]deck.Card(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool { return deck.Less(sorted[i], sorted[j]) })
	return Hand{cards: sorted}, nil
}

// MustHand is NewHand for fixtures.
func MustHand(cards ...deck.Card) Hand {
	h, err := NewHand(cards...)
	if err != nil {
		panic(err)
	}
	return h
}

// Cards returns a copy of the hand in canonical order.
func (h Hand) Cards() []deck.Card {
	return append([]deck.Card(nil), h.cards...)
}

func (h Hand) Len() int {
	return len(h.cards)
}

func (h Hand) Contains(card deck.Card) bool {
	for _, c := range h.cards {
		if c == card {
			return true
		}
	}
	return false
}

// Playable returns the legal cards given the card that opened the trick, if any.
// A player must follow the led colour when able; otherwise any card may be played.
func (h Hand) Playable(led *deck.Card) []deck.Card {
	if led != nil {
		var following []deck.Card
		for _, c := range h.cards {
			if c.SameColour(*led) {
				following = append(following, c)
			}
		}
		if len(following) > 0 {
			return following
		}
	}
	return h.Cards()
}

// Without returns a copy of the hand with card removed.
func (h Hand) Without(card deck.Card) (Hand, error) {
	for i, c := range h.cards {
		if c != card {
			continue
		}
		rest := make([]deck.Card, 0, len(h.cards)-1)
		rest = append(rest, h.cards[:i]...)
		rest = append(rest, h.cards[i+1:]...)
		return Hand{cards: rest}, nil
	}
	return h, fmt.Errorf("%w: %s not in %v", ErrCardNotInHand, card, h.cards)
}

func (h Hand) String() string {
	return fmt.Sprint(h.cards)
}

func checkCards(cards []deck.Card) error {
	seen := map[deck.Card]struct{}{}
	for _, c := range cards {
		if !c.IsValid() {
			return fmt.Errorf("%w: %s", ErrInvalidCard, c)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateCard, c)
		}
		seen[c] = struct{}{}
	}
	return nil
}
