package protocol

import (
	"errors"
	"fmt"

	"github.com/remigerme/the-crew-solver/deck"
	"github.com/remigerme/the-crew-solver/game"
)

var ErrEmptyDeal = errors.New("deal has no players")

// PlayerSpec is one seat of a deal: its hand in "suit:rank" notation and its tasks
type PlayerSpec struct {
	Hand  []string   `json:"hand" yaml:"hand"`
	Tasks []TaskSpec `json:"tasks,omitempty" yaml:"tasks,omitempty"`
}

// DealSpec describes a complete game to solve. Without Leader, the captain leads.
type DealSpec struct {
	Players []PlayerSpec `json:"players" yaml:"players"`
	Leader  *int         `json:"leader,omitempty" yaml:"leader,omitempty"`
}

// SolveRequest is the body of POST /solve
type SolveRequest struct {
	Deal DealSpec `json:"deal"`
	Mode Mode     `json:"mode"`
}

// Stats mirrors the search counters
type Stats struct {
	Done    int `json:"done"`
	Failed  int `json:"failed"`
	Unknown int `json:"unknown"`
	Nodes   int `json:"nodes"`
}

// TrickView is a completed trick as shown to clients
type TrickView struct {
	Index  int      `json:"index"`
	Leader int      `json:"leader"`
	Winner int      `json:"winner"`
	Cards  []string `json:"cards"`
}

// JobResponse reports a solve job
type JobResponse struct {
	JobID    string      `json:"job_id"`
	Status   JobStatus   `json:"status"`
	Mode     Mode        `json:"mode,omitempty"`
	Feasible *bool       `json:"feasible,omitempty"`
	Stats    *Stats      `json:"stats,omitempty"`
	Tasks    [][]string  `json:"tasks,omitempty"`
	Tricks   []TrickView `json:"tricks,omitempty"`
	Elapsed  string      `json:"elapsed,omitempty"`
	Error    string      `json:"error,omitempty"`
}

// ProgressMessage is pushed on the websocket while a job runs
type ProgressMessage struct {
	JobID   string    `json:"job_id"`
	Command Cmd       `json:"command"`
	Status  JobStatus `json:"status"`
	Stats   Stats     `json:"stats"`
	Error   string    `json:"error,omitempty"`
}

// ParseCards reads cards written in "suit:rank" notation.
func ParseCards(names []string) ([]deck.Card, error) {
	cards := make([]deck.Card, 0, len(names))
	for _, n := range names {
		c, err := deck.ParseCard(n)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// CardNames writes cards in "suit:rank" notation.
func CardNames(cards []deck.Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.String()
	}
	return names
}

// State builds the initial game state of the deal.
func (d DealSpec) State() (*game.State, error) {
	if len(d.Players) == 0 {
		return nil, ErrEmptyDeal
	}
	players := make([]*game.Player, len(d.Players))
	for i, ps := range d.Players {
		cards, err := ParseCards(ps.Hand)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
		hand, err := game.NewHand(cards...)
		if err != nil {
			return nil, fmt.Errorf("player %d: %w", i, err)
		}
		p := game.NewPlayer(hand)
		for _, ts := range ps.Tasks {
			t, err := ts.Build(len(d.Players))
			if err != nil {
				return nil, fmt.Errorf("player %d: %w", i, err)
			}
			p.AddTask(t)
		}
		players[i] = p
	}
	if d.Leader != nil {
		return game.NewStateLedBy(*d.Leader, players...)
	}
	return game.NewState(players...)
}

// DealOf writes the hands of s back as a deal. Tasks are not carried over.
func DealOf(s *game.State) DealSpec {
	d := DealSpec{Players: make([]PlayerSpec, s.NumPlayers())}
	for i, p := range s.Players() {
		d.Players[i].Hand = CardNames(p.Hand().Cards())
	}
	return d
}

// TrickViews lists the completed tricks of s in play order.
func TrickViews(s *game.State) []TrickView {
	history := s.History()
	views := make([]TrickView, len(history))
	for i, t := range history {
		winner, _ := s.WinnerOf(t.Index)
		views[i] = TrickView{
			Index:  t.Index,
			Leader: t.Leader,
			Winner: winner,
			Cards:  CardNames(t.Cards),
		}
	}
	return views
}

// TaskNames describes every player's tasks.
func TaskNames(s *game.State) [][]string {
	names := make([][]string, s.NumPlayers())
	for i, p := range s.Players() {
		for _, t := range p.Tasks() {
			names[i] = append(names[i], t.String())
		}
	}
	return names
}
