package game

import (
	"fmt"

	"github.com/remigerme/the-crew-solver/deck"
)

// Player owns a hand, the tricks it has won in index order, and its tasks.
type Player struct {
	hand   Hand
	tricks []Trick
	tasks  []Task
}

// NewPlayer constructs a player holding hand.
func NewPlayer(hand Hand, tasks ...Task) *Player {
	return &Player{
		hand:  hand,
		tasks: append([]Task(nil), tasks...),
	}
}

func (p *Player) Hand() Hand {
	return p.hand
}

// Tricks returns the won tricks, ordered by index. The slice must not be modified.
func (p *Player) Tricks() []Trick {
	return p.tricks
}

func (p *Player) Tasks() []Task {
	return append([]Task(nil), p.tasks...)
}

// AddTask assigns a task. Tasks are fixed once the search starts.
func (p *Player) AddTask(t Task) {
	p.tasks = append(p.tasks, t)
}

// AddTrick records a won trick. Its index must be greater than every trick already
// recorded and its size must match theirs.
func (p *Player) AddTrick(t Trick) error {
	if len(p.tricks) > 0 {
		if first := p.tricks[0]; len(first.Cards) != len(t.Cards) {
			return fmt.Errorf("%w: expected %d cards, got %d", ErrTrickSize, len(first.Cards), len(t.Cards))
		}
		if last := p.tricks[len(p.tricks)-1]; last.Index >= t.Index {
			return fmt.Errorf("%w: %d after %d", ErrNonIncreasingTrickIndex, t.Index, last.Index)
		}
	}
	p.tricks = append(p.tricks, t)
	return nil
}

func (p *Player) removeCard(card deck.Card) error {
	h, err := p.hand.Without(card)
	if err != nil {
		return err
	}
	p.hand = h
	return nil
}

// WonCard reports whether card is in one of the player's won tricks.
func (p *Player) WonCard(card deck.Card) bool {
	for _, t := range p.tricks {
		if t.Contains(card) {
			return true
		}
	}
	return false
}

// WonCards lists every card the player has won.
func (p *Player) WonCards() []deck.Card {
	var cards []deck.Card
	for _, t := range p.tricks {
		cards = append(cards, t.Cards...)
	}
	return cards
}

// TasksStatus combines the player's task verdicts: Failed wins over Unknown, which wins over Done.
func (p *Player) TasksStatus(s *State, ip int) Status {
	status := Done
	for _, t := range p.tasks {
		switch t.Eval(s, ip) {
		case Failed:
			return Failed
		case Unknown:
			status = Unknown
		}
	}
	return status
}

func (p Player) share() Player {
	p.tricks = p.tricks[:len(p.tricks):len(p.tricks)]
	p.tasks = p.tasks[:len(p.tasks):len(p.tasks)]
	return p
}
