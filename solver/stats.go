package solver

import (
	"context"
	"sync"
	"time"

	"github.com/remigerme/the-crew-solver/game"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// frontier items per worker before subtrees are handed out
const splitFactor = 4

// tally merges the counters of concurrent workers
type tally struct {
	mu       sync.Mutex
	total    Stats
	reported Stats
}

func (sv *Solver) flush(t *tally, local *Stats) {
	t.mu.Lock()
	t.total = t.total.add(*local)
	sv.progress(&t.reported, t.total)
	t.mu.Unlock()
	*local = Stats{}
}

// Stats explores the whole tree below root and counts the states where the search stopped:
// Done and Failed verdicts, and Unknown states with no legal continuation.
// Independent subtrees are searched concurrently by Options.Workers goroutines.
func (sv *Solver) Stats(ctx context.Context, root *game.State) (Stats, error) {
	start := time.Now()
	log := sv.logger.WithFields(logrus.Fields{
		"mode":    "stats",
		"players": root.NumPlayers(),
		"workers": sv.opts.Workers,
	})
	log.Debug("search started")

	t := &tally{}
	frontier, err := sv.split(t, root.Clone())
	if err != nil {
		return t.total, err
	}
	log.WithField("frontier", len(frontier)).Debug("frontier expanded")

	work := make(chan *game.State)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(work)
		for _, s := range frontier {
			select {
			case work <- s:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for i := 0; i < sv.opts.Workers; i++ {
		g.Go(func() error {
			for s := range work {
				if err := sv.count(gctx, t, s); err != nil {
					return err
				}
			}
			return nil
		})
	}
	err = g.Wait()

	t.mu.Lock()
	total := t.total
	t.mu.Unlock()
	if err != nil {
		return total, err
	}
	sv.finished(log, total, time.Since(start)).Info("search finished")
	return total, nil
}

// split expands root breadth-first until there are enough open states to keep every worker busy.
// States decided along the way are counted directly.
func (sv *Solver) split(t *tally, root *game.State) ([]*game.State, error) {
	var local Stats
	defer sv.flush(t, &local)

	queue := []*game.State{root}
	for len(queue) > 0 && len(queue) < sv.opts.Workers*splitFactor {
		s := queue[0]
		queue = queue[1:]
		local.Nodes++
		if !visit(s, &local) {
			continue
		}
		children, err := expand(s)
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			local.Unknown++
			continue
		}
		queue = append(queue, children...)
	}
	return queue, nil
}

// visit records a decided state and reports whether s still needs expanding.
func visit(s *game.State, local *Stats) bool {
	switch s.Status() {
	case game.Done:
		local.Done++
		return false
	case game.Failed:
		local.Failed++
		return false
	}
	return true
}

func (sv *Solver) count(ctx context.Context, t *tally, root *game.State) error {
	var local Stats
	defer sv.flush(t, &local)

	stack := []*game.State{root}
	for len(stack) > 0 {
		if local.Nodes >= checkEvery {
			if err := ctx.Err(); err != nil {
				return err
			}
			sv.flush(t, &local)
		}

		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		local.Nodes++
		if !visit(s, &local) {
			continue
		}
		children, err := expand(s)
		if err != nil {
			return err
		}
		if len(children) == 0 {
			local.Unknown++
			continue
		}
		stack = append(stack, children...)
	}
	return nil
}
