package protocol

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/remigerme/the-crew-solver/deck"
	"github.com/remigerme/the-crew-solver/game"
)

var (
	ErrUnknownTaskKind = errors.New("unknown task kind")
	ErrInvalidSpec     = errors.New("invalid task spec")
)

// TaskSpec is the wire form of a task. Kind picks the family; the other fields are read
// only by the families that use them.
type TaskSpec struct {
	Kind      string         `json:"kind" yaml:"kind"`
	Cards     []string       `json:"cards,omitempty" yaml:"cards,omitempty"`
	Suits     []string       `json:"suits,omitempty" yaml:"suits,omitempty"`
	Ranks     []int          `json:"ranks,omitempty" yaml:"ranks,omitempty"`
	Rank      int            `json:"rank,omitempty" yaml:"rank,omitempty"`
	With      int            `json:"with,omitempty" yaml:"with,omitempty"`
	Indexes   []int          `json:"indexes,omitempty" yaml:"indexes,omitempty"`
	First     bool           `json:"first,omitempty" yaml:"first,omitempty"`
	Last      bool           `json:"last,omitempty" yaml:"last,omitempty"`
	N         int            `json:"n,omitempty" yaml:"n,omitempty"`
	Exactly   bool           `json:"exactly,omitempty" yaml:"exactly,omitempty"`
	Strict    bool           `json:"strict,omitempty" yaml:"strict,omitempty"`
	Compare   string         `json:"compare,omitempty" yaml:"compare,omitempty"`
	Predicate string         `json:"predicate,omitempty" yaml:"predicate,omitempty"`
	Value     int            `json:"value,omitempty" yaml:"value,omitempty"`
	Values    []int          `json:"values,omitempty" yaml:"values,omitempty"`
	Card      string         `json:"card,omitempty" yaml:"card,omitempty"`
	Index     int            `json:"index,omitempty" yaml:"index,omitempty"`
	Mode      string         `json:"mode,omitempty" yaml:"mode,omitempty"`
	More      string         `json:"more,omitempty" yaml:"more,omitempty"`
	Fewer     string         `json:"fewer,omitempty" yaml:"fewer,omitempty"`
	Equal     bool           `json:"equal,omitempty" yaml:"equal,omitempty"`
	Quotas    map[string]int `json:"quotas,omitempty" yaml:"quotas,omitempty"`
}

// Build turns the spec into a task for a table of nPlayers, which resolves Last
// to the final trick index of the reference deck. Last also sets the trick of card_in_trick.
func (ts TaskSpec) Build(nPlayers int) (game.Task, error) {
	t, err := ts.build(nPlayers)
	if err != nil {
		return game.Task{}, fmt.Errorf("%s: %w", ts.Kind, err)
	}
	return t, nil
}

func (ts TaskSpec) build(nPlayers int) (game.Task, error) {
	switch ts.Kind {
	case "win_cards", "dont_win_cards":
		cards, err := ParseCards(ts.Cards)
		if err != nil {
			return game.Task{}, err
		}
		if ts.Kind == "win_cards" {
			return game.WinCards(cards...)
		}
		return game.DontWinCards(cards...)
	case "dont_win_suits":
		suits, err := parseSuits(ts.Suits)
		if err != nil {
			return game.Task{}, err
		}
		return game.DontWinSuits(suits...)
	case "dont_win_ranks":
		return game.DontWinRanks(ts.Ranks...)
	case "dont_open_trick_with":
		suits, err := parseSuits(ts.Suits)
		if err != nil {
			return game.Task{}, err
		}
		return game.DontOpenTrickWith(suits...)
	case "win_trick_with":
		return game.WinTrickWith(ts.Rank, ts.With)
	case "win_tricks_versus_captain":
		cmp, err := parseComparison(ts.Compare)
		if err != nil {
			return game.Task{}, err
		}
		return game.WinTricksVersusCaptain(cmp)
	case "win_trick_matching":
		pred, err := ts.predicate(nPlayers)
		if err != nil {
			return game.Task{}, err
		}
		return game.WinTrickMatching(pred)
	case "dont_win_any_trick":
		return game.DontWinAnyTrick(), nil
	case "dont_win_tricks":
		idx, err := ts.indexes(nPlayers)
		if err != nil {
			return game.Task{}, err
		}
		return game.DontWinTricks(idx...)
	case "win_tricks":
		idx, err := ts.indexes(nPlayers)
		if err != nil {
			return game.Task{}, err
		}
		return game.WinTricks(ts.Strict, idx...)
	case "win_trick_count":
		return game.WinTrickCount(ts.N)
	case "win_suit_amount":
		quotas := make(map[deck.Suit]int, len(ts.Quotas))
		for name, n := range ts.Quotas {
			s, err := deck.ParseSuit(name)
			if err != nil {
				return game.Task{}, err
			}
			quotas[s] = n
		}
		return game.WinSuitAmount(ts.Exactly, quotas)
	case "win_rank_amount":
		quotas := make(map[int]int, len(ts.Quotas))
		for name, n := range ts.Quotas {
			r, err := strconv.Atoi(name)
			if err != nil {
				return game.Task{}, fmt.Errorf("%w: rank %q", ErrInvalidSpec, name)
			}
			quotas[r] = n
		}
		return game.WinRankAmount(ts.Exactly, quotas)
	case "win_consecutive_tricks":
		return game.WinConsecutiveTricks(ts.N, ts.Exactly)
	case "dont_win_consecutive_tricks":
		return game.DontWinConsecutiveTricks(), nil
	case "win_only_trump":
		return game.WinOnlyTrump(ts.Rank)
	case "win_whole_suit":
		return game.WinWholeSuit(), nil
	case "win_more_of_suit":
		more, err := deck.ParseSuit(ts.More)
		if err != nil {
			return game.Task{}, err
		}
		fewer, err := deck.ParseSuit(ts.Fewer)
		if err != nil {
			return game.Task{}, err
		}
		return game.WinMoreOfSuit(more, fewer, ts.Equal)
	case "win_more_tricks_than_others":
		mode, err := parseOthersMode(ts.Mode)
		if err != nil {
			return game.Task{}, err
		}
		return game.WinMoreTricksThanOthers(mode)
	}
	return game.Task{}, ErrUnknownTaskKind
}

func (ts TaskSpec) indexes(nPlayers int) ([]int, error) {
	idx := append([]int(nil), ts.Indexes...)
	if ts.First {
		idx = append(idx, 0)
	}
	if ts.Last {
		if nPlayers <= 0 {
			return nil, fmt.Errorf("%w: last trick needs the number of players", ErrInvalidSpec)
		}
		idx = append(idx, deck.TricksTotal(nPlayers)-1)
	}
	sort.Ints(idx)
	return idx, nil
}

func (ts TaskSpec) predicate(nPlayers int) (game.Predicate, error) {
	kind, err := game.ParsePredicateKind(ts.Predicate)
	if err != nil {
		return game.Predicate{}, err
	}
	p := game.Predicate{Kind: kind, Value: ts.Value, Values: ts.Values, Index: ts.Index}
	switch kind {
	case game.SameSuitCount:
		suits, err := parseSuits(ts.Suits)
		if err != nil {
			return p, err
		}
		if len(suits) != 2 {
			return p, fmt.Errorf("%w: same_suit_count takes two suits", ErrInvalidSpec)
		}
		p.Suits = [2]deck.Suit{suits[0], suits[1]}
	case game.CardWithTrump, game.CardInTrick:
		c, err := deck.ParseCard(ts.Card)
		if err != nil {
			return p, err
		}
		p.Card = c
		if kind == game.CardInTrick && ts.Last {
			idx, err := ts.indexes(nPlayers)
			if err != nil {
				return p, err
			}
			p.Index = idx[len(idx)-1]
		}
	}
	return p, nil
}

func parseSuits(names []string) ([]deck.Suit, error) {
	suits := make([]deck.Suit, 0, len(names))
	for _, n := range names {
		s, err := deck.ParseSuit(n)
		if err != nil {
			return nil, err
		}
		suits = append(suits, s)
	}
	return suits, nil
}

func parseComparison(name string) (game.Comparison, error) {
	switch name {
	case "more":
		return game.More, nil
	case "fewer":
		return game.Fewer, nil
	case "same":
		return game.Same, nil
	}
	return 0, fmt.Errorf("%w: comparison %q", ErrInvalidSpec, name)
}

func parseOthersMode(name string) (game.OthersMode, error) {
	switch name {
	case "each":
		return game.MoreThanEach, nil
	case "together":
		return game.MoreThanAllTogether, nil
	case "fewer":
		return game.FewerThanEach, nil
	}
	return 0, fmt.Errorf("%w: mode %q", ErrInvalidSpec, name)
}
