package deck

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidCard = errors.New("invalid card")
	ErrUnknownSuit = errors.New("unknown suit")
)

// Suit represents a colour of the deck. Trump is the dominant suit.
type Suit int

const (
	Red Suit = iota
	Green
	Blue
	Yellow
	Trump
)

var suitNames = []string{"red", "green", "blue", "yellow", "trump"}

// Suits lists the ordinary suits.
var Suits = []Suit{Red, Green, Blue, Yellow}

// AllSuits lists the ordinary suits followed by Trump.
var AllSuits = []Suit{Red, Green, Blue, Yellow, Trump}

const (
	maxOrdinaryRank = 9
	maxTrumpRank    = 4
)

// CaptainCard is held by the captain, who leads the first trick.
var CaptainCard = Card{Suit: Trump, Rank: maxTrumpRank}

func (s Suit) String() string {
	if s < Red || s > Trump {
		return "suit(" + strconv.Itoa(int(s)) + ")"
	}
	return suitNames[s]
}

// MaxRank is the highest rank a card of this suit can carry.
func (s Suit) MaxRank() int {
	if s == Trump {
		return maxTrumpRank
	}
	return maxOrdinaryRank
}

// ParseSuit reads a suit name such as "blue" or "trump".
func ParseSuit(name string) (Suit, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range suitNames {
		if n == name {
			return Suit(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSuit, name)
}

// Card is an immutable playing card. Two cards are equal when suit and rank match.
type Card struct {
	Suit Suit
	Rank int
}

// NewCard constructs a card, rejecting ranks outside the suit's range
func NewCard(suit Suit, rank int) (Card, error) {
	c := Card{Suit: suit, Rank: rank}
	if !c.IsValid() {
		return Card{}, fmt.Errorf("%w: %s", ErrInvalidCard, c)
	}
	return c, nil
}

// MustCard is NewCard for fixtures; it panics on an invalid card.
func MustCard(suit Suit, rank int) Card {
	c, err := NewCard(suit, rank)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Card) IsValid() bool {
	if c.Suit < Red || c.Suit > Trump {
		return false
	}
	return c.Rank >= 1 && c.Rank <= c.Suit.MaxRank()
}

func (c Card) IsTrump() bool {
	return c.Suit == Trump
}

// SameColour reports whether both cards belong to the same suit, for follow-suit purposes.
func (c Card) SameColour(other Card) bool {
	return c.Suit == other.Suit
}

func (c Card) String() string {
	return c.Suit.String() + ":" + strconv.Itoa(c.Rank)
}

// ParseCard reads the "suit:rank" notation produced by Card.String.
func ParseCard(s string) (Card, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return Card{}, fmt.Errorf("%w: %q is not suit:rank", ErrInvalidCard, s)
	}
	suit, err := ParseSuit(parts[0])
	if err != nil {
		return Card{}, err
	}
	rank, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Card{}, fmt.Errorf("%w: %q has a non-numeric rank", ErrInvalidCard, s)
	}
	return NewCard(suit, rank)
}

// Less orders cards by suit, then rank.
func Less(a, b Card) bool {
	if a.Suit != b.Suit {
		return a.Suit < b.Suit
	}
	return a.Rank < b.Rank
}
