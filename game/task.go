package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/remigerme/the-crew-solver/deck"
)

// Kind identifies a task family.
type Kind int

const (
	KindWinCards Kind = iota
	KindDontWinCards
	KindDontOpenTrickWith
	KindWinTrickWith
	KindWinTricksVersusCaptain
	KindWinTrickMatching
	KindDontWinTricks
	KindWinTricks
	KindWinTrickCount
	KindWinSuitAmount
	KindWinRankAmount
	KindWinConsecutiveTricks
	KindDontWinConsecutiveTricks
	KindWinOnlyTrump
	KindWinWholeSuit
	KindWinMoreOfSuit
	KindWinMoreTricksThanOthers
)

var kindNames = []string{
	"win_cards",
	"dont_win_cards",
	"dont_open_trick_with",
	"win_trick_with",
	"win_tricks_versus_captain",
	"win_trick_matching",
	"dont_win_tricks",
	"win_tricks",
	"win_trick_count",
	"win_suit_amount",
	"win_rank_amount",
	"win_consecutive_tricks",
	"dont_win_consecutive_tricks",
	"win_only_trump",
	"win_whole_suit",
	"win_more_of_suit",
	"win_more_tricks_than_others",
}

func (k Kind) String() string {
	if k < KindWinCards || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Comparison is the ordering a player's trick count must have relative to the captain's.
type Comparison int

const (
	Fewer Comparison = iota - 1
	Same
	More
)

func (c Comparison) String() string {
	switch c {
	case Fewer:
		return "fewer"
	case Same:
		return "same"
	case More:
		return "more"
	default:
		return "invalid"
	}
}

// OthersMode selects how WinMoreTricksThanOthers compares against the other players.
type OthersMode int

const (
	// MoreThanEach: more tricks than every other player individually.
	MoreThanEach OthersMode = iota
	// MoreThanAllTogether: more tricks than all other players combined.
	MoreThanAllTogether
	// FewerThanEach: fewer tricks than every other player individually.
	FewerThanEach
)

type quota struct {
	suit deck.Suit
	rank int
	n    int
}

// Task is one goal assigned to a player. It is a closed set of families told apart by
// Kind; every field is fixed at construction and Eval only reads the state.
type Task struct {
	kind    Kind
	label   string
	cards   []deck.Card
	suits   []deck.Suit
	rank    int
	with    int
	indexes []int
	any     bool
	n       int
	exactly bool
	quotas  []quota
	compare Comparison
	pred    Predicate
	mode    OthersMode
}

func (t Task) Kind() Kind {
	return t.kind
}

func (t Task) String() string {
	if t.label != "" {
		return t.label
	}
	return t.kind.String()
}

func (t Task) needsCaptain() bool {
	return t.kind == KindWinTricksVersusCaptain
}

// Eval returns the verdict of the task for player ip in state s.
// Once Done or Failed is returned, every state reachable from s returns the same.
func (t Task) Eval(s *State, ip int) Status {
	switch t.kind {
	case KindWinCards:
		return t.evalWinCards(s, ip)
	case KindDontWinCards:
		return t.evalDontWinCards(s, ip)
	case KindDontOpenTrickWith:
		return t.evalDontOpenTrickWith(s, ip)
	case KindWinTrickWith:
		return t.evalWinTrickWith(s, ip)
	case KindWinTricksVersusCaptain:
		return t.evalVersusCaptain(s, ip)
	case KindWinTrickMatching:
		return t.evalWinTrickMatching(s, ip)
	case KindDontWinTricks:
		return t.evalDontWinTricks(s, ip)
	case KindWinTricks:
		return t.evalWinTricks(s, ip)
	case KindWinTrickCount:
		return t.evalWinTrickCount(s, ip)
	case KindWinSuitAmount, KindWinRankAmount:
		return t.evalAmount(s, ip)
	case KindWinConsecutiveTricks:
		return t.evalConsecutive(s, ip)
	case KindDontWinConsecutiveTricks:
		return t.evalDontWinConsecutive(s, ip)
	case KindWinOnlyTrump:
		return t.evalWinOnlyTrump(s, ip)
	case KindWinWholeSuit:
		return t.evalWinWholeSuit(s, ip)
	case KindWinMoreOfSuit:
		return t.evalWinMoreOfSuit(s, ip)
	case KindWinMoreTricksThanOthers:
		return t.evalMoreTricksThanOthers(s, ip)
	}
	panic(fmt.Sprintf("game: unhandled task kind %v", t.kind))
}

// MustTask unwraps a constructor result for fixtures and catalogs built in code.
func MustTask(t Task, err error) Task {
	if err != nil {
		panic(err)
	}
	return t
}

func invalidTask(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidTask, fmt.Sprintf(format, args...))
}

func checkTargetCards(cards []deck.Card) ([]deck.Card, error) {
	if len(cards) == 0 {
		return nil, invalidTask("at least one card is required")
	}
	if err := checkCards(cards); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTask, err)
	}
	sorted := append([]deck.Card(nil), cards...)
	sort.Slice(sorted, func(i, j int) bool { return deck.Less(sorted[i], sorted[j]) })
	return sorted, nil
}

func checkSuits(suits []deck.Suit, allowTrump bool) error {
	if len(suits) == 0 {
		return invalidTask("at least one suit is required")
	}
	for _, s := range suits {
		if s < deck.Red || s > deck.Trump || (s == deck.Trump && !allowTrump) {
			return invalidTask("suit %v not allowed", s)
		}
	}
	return nil
}

func cardList(cards []deck.Card) string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

func suitList(suits []deck.Suit) string {
	names := make([]string, len(suits))
	for i, s := range suits {
		names[i] = s.String()
	}
	return strings.Join(names, ", ")
}

// WinCards requires the player to win every listed card.
func WinCards(cards ...deck.Card) (Task, error) {
	sorted, err := checkTargetCards(cards)
	if err != nil {
		return Task{}, err
	}
	return Task{kind: KindWinCards, cards: sorted, label: "win " + cardList(sorted)}, nil
}

// DontWinCards forbids the player from winning any listed card.
func DontWinCards(cards ...deck.Card) (Task, error) {
	sorted, err := checkTargetCards(cards)
	if err != nil {
		return Task{}, err
	}
	return Task{kind: KindDontWinCards, cards: sorted, label: "don't win " + cardList(sorted)}, nil
}

// DontWinSuits forbids winning any card of the given suits, trump included.
func DontWinSuits(suits ...deck.Suit) (Task, error) {
	if err := checkSuits(suits, true); err != nil {
		return Task{}, err
	}
	var cards []deck.Card
	for _, s := range suits {
		for r := 1; r <= s.MaxRank(); r++ {
			cards = append(cards, deck.Card{Suit: s, Rank: r})
		}
	}
	t, err := DontWinCards(cards...)
	t.label = "don't win any " + suitList(suits)
	return t, err
}

// DontWinRanks forbids winning any ordinary card of the given ranks.
func DontWinRanks(ranks ...int) (Task, error) {
	if len(ranks) == 0 {
		return Task{}, invalidTask("at least one rank is required")
	}
	var cards []deck.Card
	for _, r := range ranks {
		for _, s := range deck.Suits {
			cards = append(cards, deck.Card{Suit: s, Rank: r})
		}
	}
	t, err := DontWinCards(cards...)
	t.label = fmt.Sprintf("don't win any %v", ranks)
	return t, err
}

// DontOpenTrickWith forbids leading a trick with a card of the given suits.
func DontOpenTrickWith(suits ...deck.Suit) (Task, error) {
	if err := checkSuits(suits, true); err != nil {
		return Task{}, err
	}
	return Task{
		kind:  KindDontOpenTrickWith,
		suits: append([]deck.Suit(nil), suits...),
		label: "don't open a trick with " + suitList(suits),
	}, nil
}

// WinTrickWith requires winning a trick with an ordinary card of rank. When with is
// non-zero the trick must also hold another player's ordinary card of rank with.
func WinTrickWith(rank, with int) (Task, error) {
	if rank < 1 || rank > deck.Red.MaxRank() {
		return Task{}, invalidTask("rank %d out of range", rank)
	}
	if with < 0 || with > deck.Red.MaxRank() {
		return Task{}, invalidTask("co-requisite rank %d out of range", with)
	}
	label := fmt.Sprintf("win a trick with a %d", rank)
	if with > 0 {
		label = fmt.Sprintf("win a %d with a %d", with, rank)
	}
	return Task{kind: KindWinTrickWith, rank: rank, with: with, label: label}, nil
}

// WinTricksVersusCaptain compares the player's trick count with the captain's at the end of
// the game. It cannot be given to the captain.
func WinTricksVersusCaptain(cmp Comparison) (Task, error) {
	if cmp < Fewer || cmp > More {
		return Task{}, invalidTask("unknown comparison %d", int(cmp))
	}
	return Task{
		kind:    KindWinTricksVersusCaptain,
		compare: cmp,
		label:   fmt.Sprintf("win %s tricks than the captain", cmp),
	}, nil
}

// WinTrickMatching requires winning a trick that satisfies pred.
func WinTrickMatching(pred Predicate) (Task, error) {
	if err := pred.validate(); err != nil {
		return Task{}, err
	}
	return Task{kind: KindWinTrickMatching, pred: pred, label: "win a trick " + pred.String()}, nil
}

// DontWinTricks forbids winning the tricks with the given indexes (0 is the first trick).
func DontWinTricks(indexes ...int) (Task, error) {
	idx, err := checkIndexes(indexes)
	if err != nil {
		return Task{}, err
	}
	return Task{kind: KindDontWinTricks, indexes: idx, label: fmt.Sprintf("don't win tricks %v", idx)}, nil
}

// DontWinAnyTrick forbids winning any trick.
func DontWinAnyTrick() Task {
	return Task{kind: KindDontWinTricks, any: true, label: "don't win any trick"}
}

// WinTricks requires winning every listed trick; with strict, no other trick may be won.
func WinTricks(strict bool, indexes ...int) (Task, error) {
	idx, err := checkIndexes(indexes)
	if err != nil {
		return Task{}, err
	}
	label := fmt.Sprintf("win tricks %v", idx)
	if strict {
		label += " only"
	}
	return Task{kind: KindWinTricks, indexes: idx, exactly: strict, label: label}, nil
}

func checkIndexes(indexes []int) ([]int, error) {
	if len(indexes) == 0 {
		return nil, invalidTask("at least one trick index is required")
	}
	set := map[int]struct{}{}
	for _, i := range indexes {
		if i < 0 {
			return nil, invalidTask("negative trick index %d", i)
		}
		set[i] = struct{}{}
	}
	idx := make([]int, 0, len(set))
	for i := range set {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx, nil
}

// WinTrickCount requires winning exactly n tricks.
func WinTrickCount(n int) (Task, error) {
	if n < 0 {
		return Task{}, invalidTask("negative trick count %d", n)
	}
	return Task{kind: KindWinTrickCount, n: n, label: fmt.Sprintf("win exactly %d tricks", n)}, nil
}

// WinSuitAmount requires winning, per suit, exactly or at least the given number of cards.
func WinSuitAmount(exactly bool, quotas map[deck.Suit]int) (Task, error) {
	if len(quotas) == 0 {
		return Task{}, invalidTask("at least one quota is required")
	}
	var (
		qs    []quota
		parts []string
	)
	for _, s := range deck.AllSuits {
		n, ok := quotas[s]
		if !ok {
			continue
		}
		if n < 0 || n > s.MaxRank() {
			return Task{}, invalidTask("cannot win %d %v cards", n, s)
		}
		qs = append(qs, quota{suit: s, n: n})
		parts = append(parts, fmt.Sprintf("%d %v", n, s))
	}
	if len(qs) != len(quotas) {
		return Task{}, invalidTask("unknown suit in quotas")
	}
	return Task{
		kind:    KindWinSuitAmount,
		quotas:  qs,
		exactly: exactly,
		label:   amountLabel(exactly, parts),
	}, nil
}

// WinRankAmount requires winning, per rank, exactly or at least the given number of ordinary cards.
func WinRankAmount(exactly bool, quotas map[int]int) (Task, error) {
	if len(quotas) == 0 {
		return Task{}, invalidTask("at least one quota is required")
	}
	ranks := make([]int, 0, len(quotas))
	for r := range quotas {
		if r < 1 || r > deck.Red.MaxRank() {
			return Task{}, invalidTask("rank %d out of range", r)
		}
		if quotas[r] < 0 {
			return Task{}, invalidTask("negative quota for rank %d", r)
		}
		ranks = append(ranks, r)
	}
	sort.Ints(ranks)
	var (
		qs    []quota
		parts []string
	)
	for _, r := range ranks {
		qs = append(qs, quota{rank: r, n: quotas[r]})
		parts = append(parts, fmt.Sprintf("%d cards of rank %d", quotas[r], r))
	}
	return Task{
		kind:    KindWinRankAmount,
		quotas:  qs,
		exactly: exactly,
		label:   amountLabel(exactly, parts),
	}, nil
}

func amountLabel(exactly bool, parts []string) string {
	if exactly {
		return "win exactly " + strings.Join(parts, " and ")
	}
	return "win at least " + strings.Join(parts, " and ")
}

// WinConsecutiveTricks requires a run of n consecutive won tricks. With exactly, the
// player's won tricks must form a single run of length n.
func WinConsecutiveTricks(n int, exactly bool) (Task, error) {
	if n < 1 {
		return Task{}, invalidTask("run length %d", n)
	}
	label := fmt.Sprintf("win %d consecutive tricks", n)
	if exactly {
		label = fmt.Sprintf("win exactly %d consecutive tricks", n)
	}
	return Task{kind: KindWinConsecutiveTricks, n: n, exactly: exactly, label: label}, nil
}

// DontWinConsecutiveTricks forbids winning two tricks in a row.
func DontWinConsecutiveTricks() Task {
	return Task{kind: KindDontWinConsecutiveTricks, label: "don't win two consecutive tricks"}
}

// WinOnlyTrump requires winning the trump of the given rank and no other trump.
func WinOnlyTrump(rank int) (Task, error) {
	if rank < 1 || rank > deck.Trump.MaxRank() {
		return Task{}, invalidTask("trump rank %d out of range", rank)
	}
	return Task{kind: KindWinOnlyTrump, rank: rank, label: fmt.Sprintf("win trump %d and no other trump", rank)}, nil
}

// WinWholeSuit requires winning every card of one ordinary suit.
func WinWholeSuit() Task {
	return Task{kind: KindWinWholeSuit, label: "win all the cards of one suit"}
}

// WinMoreOfSuit requires winning more cards of suit more than of suit fewer, or as many with equal.
func WinMoreOfSuit(more, fewer deck.Suit, equal bool) (Task, error) {
	if err := checkSuits([]deck.Suit{more, fewer}, true); err != nil {
		return Task{}, err
	}
	if more == fewer {
		return Task{}, invalidTask("suits must differ")
	}
	label := fmt.Sprintf("win more %v than %v", more, fewer)
	if equal {
		label = fmt.Sprintf("win as many %v as %v", more, fewer)
	}
	return Task{kind: KindWinMoreOfSuit, suits: []deck.Suit{more, fewer}, exactly: equal, label: label}, nil
}

// WinMoreTricksThanOthers compares the player's trick count against the other players.
func WinMoreTricksThanOthers(mode OthersMode) (Task, error) {
	var label string
	switch mode {
	case MoreThanEach:
		label = "win more tricks than anyone else"
	case MoreThanAllTogether:
		label = "win more tricks than everyone else together"
	case FewerThanEach:
		label = "win fewer tricks than anyone else"
	default:
		return Task{}, invalidTask("unknown mode %d", int(mode))
	}
	return Task{kind: KindWinMoreTricksThanOthers, mode: mode, label: label}, nil
}
