package game

import (
	"fmt"

	"github.com/remigerme/the-crew-solver/deck"
)

// PredicateKind names a condition a won trick can satisfy.
type PredicateKind int

const (
	AllEven PredicateKind = iota
	AllOdd
	AllAbove
	AllBelow
	TotalAbove
	TotalBelow
	TotalIn
	SameSuitCount
	CardWithTrump
	CardInTrick
)

var predicateNames = []string{
	"all_even",
	"all_odd",
	"all_above",
	"all_below",
	"total_above",
	"total_below",
	"total_in",
	"same_suit_count",
	"card_with_trump",
	"card_in_trick",
}

func (k PredicateKind) String() string {
	if k < AllEven || int(k) >= len(predicateNames) {
		return fmt.Sprintf("predicate(%d)", int(k))
	}
	return predicateNames[k]
}

// ParsePredicateKind reads the name produced by PredicateKind.String.
func ParsePredicateKind(name string) (PredicateKind, error) {
	for i, n := range predicateNames {
		if n == name {
			return PredicateKind(i), nil
		}
	}
	return 0, invalidTask("unknown predicate %q", name)
}

// Predicate is a condition on the cards of a single trick. Which fields matter depends on Kind:
// Value for the bounds, Values for TotalIn, Suits for SameSuitCount, Card and Index for the
// card-bound variants.
type Predicate struct {
	Kind   PredicateKind
	Value  int
	Values []int
	Suits  [2]deck.Suit
	Card   deck.Card
	Index  int
}

func (p Predicate) validate() error {
	switch p.Kind {
	case AllEven, AllOdd, AllAbove, AllBelow, TotalAbove, TotalBelow:
		return nil
	case TotalIn:
		if len(p.Values) == 0 {
			return invalidTask("total_in needs at least one value")
		}
		return nil
	case SameSuitCount:
		if p.Suits[0] == p.Suits[1] {
			return invalidTask("same_suit_count needs two different suits")
		}
		return checkSuits(p.Suits[:], true)
	case CardWithTrump:
		if !p.Card.IsValid() || p.Card.IsTrump() {
			return invalidTask("card_with_trump needs an ordinary card, got %s", p.Card)
		}
		return nil
	case CardInTrick:
		if !p.Card.IsValid() {
			return invalidTask("card_in_trick: %s", p.Card)
		}
		if p.Index < 0 {
			return invalidTask("card_in_trick: negative trick index %d", p.Index)
		}
		return nil
	}
	return invalidTask("unknown predicate %d", int(p.Kind))
}

// Matches reports whether trick satisfies the predicate.
func (p Predicate) Matches(t Trick) bool {
	switch p.Kind {
	case AllEven:
		return all(t.Cards, func(c deck.Card) bool { return c.Rank%2 == 0 })
	case AllOdd:
		return all(t.Cards, func(c deck.Card) bool { return c.Rank%2 == 1 })
	case AllAbove:
		return all(t.Cards, func(c deck.Card) bool { return c.Rank > p.Value })
	case AllBelow:
		return all(t.Cards, func(c deck.Card) bool { return !c.IsTrump() && c.Rank < p.Value })
	case TotalAbove:
		total, trump := sum(t.Cards)
		return !trump && total > p.Value
	case TotalBelow:
		total, trump := sum(t.Cards)
		return !trump && total < p.Value
	case TotalIn:
		total, _ := sum(t.Cards)
		for _, v := range p.Values {
			if v == total {
				return true
			}
		}
		return false
	case SameSuitCount:
		a, b := 0, 0
		for _, c := range t.Cards {
			switch c.Suit {
			case p.Suits[0]:
				a++
			case p.Suits[1]:
				b++
			}
		}
		return a > 0 && a == b
	case CardWithTrump:
		return t.Contains(p.Card) && !all(t.Cards, func(c deck.Card) bool { return !c.IsTrump() })
	case CardInTrick:
		return t.Index == p.Index && t.Contains(p.Card)
	}
	return false
}

func (p Predicate) String() string {
	switch p.Kind {
	case AllEven:
		return "with only even cards"
	case AllOdd:
		return "with only odd cards"
	case AllAbove:
		return fmt.Sprintf("with only cards above %d", p.Value)
	case AllBelow:
		return fmt.Sprintf("with only cards below %d", p.Value)
	case TotalAbove:
		return fmt.Sprintf("with a total above %d", p.Value)
	case TotalBelow:
		return fmt.Sprintf("with a total below %d", p.Value)
	case TotalIn:
		return fmt.Sprintf("with a total in %v", p.Values)
	case SameSuitCount:
		return fmt.Sprintf("with as many %v as %v", p.Suits[0], p.Suits[1])
	case CardWithTrump:
		return fmt.Sprintf("with %s and a trump", p.Card)
	case CardInTrick:
		return fmt.Sprintf("#%d with %s", p.Index, p.Card)
	}
	return p.Kind.String()
}

// cardBound reports whether the predicate can only ever match a trick holding p.Card.
func (p Predicate) cardBound() bool {
	return p.Kind == CardWithTrump || p.Kind == CardInTrick
}

func all(cards []deck.Card, ok func(deck.Card) bool) bool {
	for _, c := range cards {
		if !ok(c) {
			return false
		}
	}
	return true
}

func sum(cards []deck.Card) (total int, trump bool) {
	for _, c := range cards {
		total += c.Rank
		trump = trump || c.IsTrump()
	}
	return total, trump
}
