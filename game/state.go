package game

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/remigerme/the-crew-solver/deck"
)

// State is a snapshot of a game: the players and the trick being assembled.
// Turn order and the captain are derived from it, never stored.
type State struct {
	players []Player
	current Trick
}

// NewState builds the initial state of a game. The captain leads the first trick.
func NewState(players ...*Player) (*State, error) {
	s, err := newState(players)
	if err != nil {
		return nil, err
	}
	captain, ok := s.Captain()
	if !ok {
		return nil, ErrMissingCaptain
	}
	s.current.Leader = captain
	if err := s.checkTasks(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewStateLedBy builds a state whose first trick is led by leader. The deal does not
// need to contain the captain card unless a task compares against the captain.
func NewStateLedBy(leader int, players ...*Player) (*State, error) {
	s, err := newState(players)
	if err != nil {
		return nil, err
	}
	if leader < 0 || leader >= len(players) {
		return nil, fmt.Errorf("%w: leader %d", ErrUnknownPlayer, leader)
	}
	s.current.Leader = leader
	if err := s.checkTasks(); err != nil {
		return nil, err
	}
	return s, nil
}

// NewRandomState shuffles the reference deck with rng and deals it to n players.
func NewRandomState(rng *rand.Rand, n int) (*State, error) {
	d := deck.New()
	d.Shuffle(rng)
	hands, err := d.Deal(n)
	if err != nil {
		return nil, err
	}
	players := make([]*Player, n)
	for i, cards := range hands {
		h, err := NewHand(cards...)
		if err != nil {
			return nil, err
		}
		players[i] = NewPlayer(h)
	}
	return NewState(players...)
}

func newState(players []*Player) (*State, error) {
	if len(players) < 2 {
		return nil, ErrTooFewPlayers
	}
	s := &State{players: make([]Player, len(players))}
	next := 0
	seen := map[deck.Card]struct{}{}
	for i, p := range players {
		if p == nil {
			return nil, fmt.Errorf("%w: player %d is nil", ErrUnknownPlayer, i)
		}
		s.players[i] = p.share()
		for _, c := range append(p.hand.Cards(), p.WonCards()...) {
			if _, ok := seen[c]; ok {
				return nil, fmt.Errorf("%w: %s dealt twice", ErrDuplicateCard, c)
			}
			seen[c] = struct{}{}
		}
		if n := len(p.tricks); n > 0 && p.tricks[n-1].Index >= next {
			next = p.tricks[n-1].Index + 1
		}
	}
	s.current = Trick{Index: next}
	return s, nil
}

func (s *State) checkTasks() error {
	var (
		captain int
		found   bool
		checked bool
	)
	for i := range s.players {
		for _, t := range s.players[i].tasks {
			if !t.needsCaptain() {
				continue
			}
			if !checked {
				captain, found = s.Captain()
				checked = true
			}
			if !found {
				return fmt.Errorf("%s: %w", t, ErrMissingCaptain)
			}
			if captain == i {
				return fmt.Errorf("%s: %w", t, ErrCaptainTask)
			}
		}
	}
	return nil
}

func (s *State) NumPlayers() int {
	return len(s.players)
}

// Player returns the player at seat i. Mutating it affects this state only.
func (s *State) Player(i int) *Player {
	return &s.players[i]
}

func (s *State) Players() []*Player {
	ps := make([]*Player, len(s.players))
	for i := range s.players {
		ps[i] = &s.players[i]
	}
	return ps
}

// CurrentTrick returns the trick being assembled. Its cards must not be modified.
func (s *State) CurrentTrick() Trick {
	return s.current
}

// CurrentPlayerIndex is the seat expected to play next.
func (s *State) CurrentPlayerIndex() int {
	return (s.current.Leader + len(s.current.Cards)) % len(s.players)
}

func (s *State) CurrentPlayer() *Player {
	return &s.players[s.CurrentPlayerIndex()]
}

// Captain returns the seat that holds, has played or has won the captain card.
func (s *State) Captain() (int, bool) {
	n := len(s.players)
	for i := range s.players {
		p := &s.players[i]
		if p.hand.Contains(deck.CaptainCard) || p.WonCard(deck.CaptainCard) {
			return i, true
		}
		if c, ok := s.current.PlayedBy(i, n); ok && c == deck.CaptainCard {
			return i, true
		}
	}
	return 0, false
}

// cardsLeft counts the cards seat i can still contribute, including one already in the current trick.
func (s *State) cardsLeft(i int) int {
	n := s.players[i].hand.Len()
	if _, ok := s.current.PlayedBy(i, len(s.players)); ok {
		n++
	}
	return n
}

// TricksLeft is the number of tricks still to be completed, the current one included.
// Cards dealt beyond what every seat can match are never played.
func (s *State) TricksLeft() int {
	left := s.cardsLeft(0)
	for i := 1; i < len(s.players); i++ {
		left = min(left, s.cardsLeft(i))
	}
	return left
}

// IsOver reports whether no further trick can be played.
func (s *State) IsOver() bool {
	return s.TricksLeft() == 0
}

// CardsInPlay lists the cards that have not been won yet: hands and the current trick.
func (s *State) CardsInPlay() []deck.Card {
	var cards []deck.Card
	for i := range s.players {
		cards = append(cards, s.players[i].hand.cards...)
	}
	return append(cards, s.current.Cards...)
}

// Leftover lists the cards that remain in hands once the game is over.
func (s *State) Leftover() []deck.Card {
	if !s.IsOver() {
		return nil
	}
	var cards []deck.Card
	for i := range s.players {
		cards = append(cards, s.players[i].hand.cards...)
	}
	return cards
}

// PlayCard plays card for the current player. When the trick is complete it goes
// to its winner, who leads the next one.
func (s *State) PlayCard(card deck.Card) error {
	if s.IsOver() {
		return ErrGameOver
	}
	ip := s.CurrentPlayerIndex()
	if err := s.players[ip].removeCard(card); err != nil {
		return fmt.Errorf("player %d playing trick %d: %w", ip, s.current.Index, err)
	}
	s.current.Cards = append(s.current.Cards, card)
	if len(s.current.Cards) < len(s.players) {
		return nil
	}

	winner, err := s.current.Winner(len(s.players))
	if err != nil {
		return err
	}
	if err := s.players[winner].AddTrick(s.current); err != nil {
		return fmt.Errorf("player %d winning trick %d: %w", winner, s.current.Index, err)
	}
	s.current = Trick{Index: s.current.Index + 1, Leader: winner}
	return nil
}

// Status combines every player's task verdicts. Open tasks fail once the game is over.
func (s *State) Status() Status {
	status := Done
	for i := range s.players {
		switch s.players[i].TasksStatus(s, i) {
		case Failed:
			return Failed
		case Unknown:
			status = Unknown
		}
	}
	if status == Unknown && s.IsOver() {
		return Failed
	}
	return status
}

// Clone returns an independent copy. Hands, won tricks and tasks are shared
// copy-on-write; only the current trick is copied.
func (s *State) Clone() *State {
	c := &State{
		players: make([]Player, len(s.players)),
		current: s.current.clone(),
	}
	for i := range s.players {
		c.players[i] = s.players[i].share()
	}
	return c
}

// History returns every completed trick ordered by index.
func (s *State) History() []Trick {
	var tricks []Trick
	for i := range s.players {
		tricks = append(tricks, s.players[i].tricks...)
	}
	sort.Slice(tricks, func(i, j int) bool { return tricks[i].Index < tricks[j].Index })
	return tricks
}

// WinnerOf returns the seat that won the trick with the given index.
func (s *State) WinnerOf(index int) (int, bool) {
	for i := range s.players {
		for _, t := range s.players[i].tricks {
			if t.Index == index {
				return i, true
			}
		}
	}
	return 0, false
}

func (s *State) String() string {
	return fmt.Sprintf("trick %d, %d to play, %d left", s.current.Index, s.CurrentPlayerIndex(), s.TricksLeft())
}
