// Package solver searches the tree of legal plays from a game state to decide
// whether every player's tasks can be completed.
package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/remigerme/the-crew-solver/deck"
	"github.com/remigerme/the-crew-solver/game"
	"github.com/sirupsen/logrus"
)

var ErrIllegalPlay = errors.New("legal card refused by the game state")

// ctx is polled once per this many nodes
const checkEvery = 1024

// Options tunes a Solver. Zero values fall back to defaults.
type Options struct {
	// Workers is the number of goroutines used by Stats.
	Workers int
	// ProgressEvery is the number of nodes between two OnProgress calls. Zero disables progress.
	ProgressEvery int
	// OnProgress receives running totals. Stats calls it from several goroutines.
	OnProgress func(Stats)
}

// Stats counts the states visited by a search by verdict.
type Stats struct {
	Done    int `json:"done"`
	Failed  int `json:"failed"`
	Unknown int `json:"unknown"`
	Nodes   int `json:"nodes"`
}

func (s Stats) add(o Stats) Stats {
	return Stats{
		Done:    s.Done + o.Done,
		Failed:  s.Failed + o.Failed,
		Unknown: s.Unknown + o.Unknown,
		Nodes:   s.Nodes + o.Nodes,
	}
}

// Result is the outcome of Solve. A nil Solution means no sequence of legal plays completes every task.
type Result struct {
	Solution *game.State
	Stats    Stats
	Elapsed  time.Duration
}

func (r Result) Feasible() bool {
	return r.Solution != nil
}

type Solver struct {
	logger logrus.FieldLogger
	opts   Options
}

func New(logger logrus.FieldLogger, opts Options) *Solver {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Solver{logger: logger, opts: opts}
}

// Solve runs a depth-first search and stops at the first state where every task is done.
// Among the legal cards of a turn the lowest in deck.Less order is explored first, so the
// solution returned for a given state is always the same.
func (sv *Solver) Solve(ctx context.Context, root *game.State) (Result, error) {
	start := time.Now()
	log := sv.logger.WithFields(logrus.Fields{"mode": "solve", "players": root.NumPlayers()})
	log.Debug("search started")

	var (
		stats    Stats
		reported Stats
		stack    = []*game.State{root.Clone()}
	)
	for len(stack) > 0 {
		if stats.Nodes%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{Stats: stats, Elapsed: time.Since(start)}, err
			}
			sv.progress(&reported, stats)
		}

		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stats.Nodes++

		switch s.Status() {
		case game.Done:
			stats.Done++
			res := Result{Solution: s, Stats: stats, Elapsed: time.Since(start)}
			sv.finished(log, res.Stats, res.Elapsed).WithField("feasible", true).Info("search finished")
			return res, nil
		case game.Failed:
			stats.Failed++
			continue
		}

		children, err := expand(s)
		if err != nil {
			return Result{Stats: stats, Elapsed: time.Since(start)}, err
		}
		if len(children) == 0 {
			stats.Unknown++
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	res := Result{Stats: stats, Elapsed: time.Since(start)}
	sv.finished(log, res.Stats, res.Elapsed).WithField("feasible", false).Info("search finished")
	return res, nil
}

// expand returns one state per legal card of the current player, in deck.Less order.
// The last child reuses s.
func expand(s *game.State) ([]*game.State, error) {
	var led *deck.Card
	if lead, ok := s.CurrentTrick().Lead(); ok {
		led = &lead
	}
	legal := s.CurrentPlayer().Hand().Playable(led)

	children := make([]*game.State, 0, len(legal))
	for i, c := range legal {
		child := s
		if i < len(legal)-1 {
			child = s.Clone()
		}
		if err := child.PlayCard(c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIllegalPlay, err)
		}
		children = append(children, child)
	}
	return children, nil
}

func (sv *Solver) progress(reported *Stats, now Stats) {
	every := sv.opts.ProgressEvery
	if every <= 0 || sv.opts.OnProgress == nil {
		return
	}
	if now.Nodes/every > reported.Nodes/every {
		*reported = now
		sv.opts.OnProgress(now)
	}
}

func (sv *Solver) finished(log logrus.FieldLogger, stats Stats, elapsed time.Duration) logrus.FieldLogger {
	return log.WithFields(logrus.Fields{
		"nodes":   stats.Nodes,
		"done":    stats.Done,
		"failed":  stats.Failed,
		"unknown": stats.Unknown,
		"elapsed": elapsed,
	})
}
