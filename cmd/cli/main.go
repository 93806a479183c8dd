package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"time"

	"github.com/remigerme/the-crew-solver/catalog"
	"github.com/remigerme/the-crew-solver/config"
	"github.com/remigerme/the-crew-solver/game"
	"github.com/remigerme/the-crew-solver/protocol"
	"github.com/remigerme/the-crew-solver/report"
	"github.com/remigerme/the-crew-solver/solver"
	"github.com/sirupsen/logrus"
)

type runOptions struct {
	seed    int64
	workers int
	show    io.Writer
}

func main() {
	samples := flag.Int("samples", 1, "random deals per difficulty")
	players := flag.Int("players", 3, "number of players (3 to 5)")
	minDiff := flag.Int("min", 1, "lowest difficulty budget")
	maxDiff := flag.Int("max", 1, "highest difficulty budget")
	out := flag.String("out", "", "CSV output file (defaults to stdout)")
	mode := flag.String("mode", string(protocol.ModeStats), "stats counts every outcome, solve stops at the first solution")
	seed := flag.Int64("seed", 0, "random seed (defaults to CREW_SEED, then the clock)")
	workers := flag.Int("workers", 0, "search goroutines in stats mode (defaults to CREW_WORKERS)")
	configFile := flag.String("config", "", "YAML batch file replacing -samples -players -min -max -out -mode")
	show := flag.Bool("show", false, "print the tasks and tricks of every solution found")
	flag.Parse()

	cfg, err := config.FromEnv()
	if err != nil {
		die("load config: %v", err)
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		die("configure logging: %v", err)
	}

	batch := config.Batch{
		Samples:       *samples,
		Players:       *players,
		DifficultyMin: *minDiff,
		DifficultyMax: *maxDiff,
		Out:           *out,
		Mode:          protocol.Mode(*mode),
	}
	if *configFile != "" {
		batch, err = config.LoadBatch(*configFile)
	} else {
		err = batch.Validate()
	}
	if err != nil {
		die("%v", err)
	}

	opts := runOptions{seed: *seed, workers: *workers}
	if opts.seed == 0 {
		opts.seed = cfg.Seed
	}
	if opts.seed == 0 {
		opts.seed = time.Now().UnixNano()
	}
	if opts.workers == 0 {
		opts.workers = cfg.Workers
	}
	if *show {
		opts.show = os.Stderr
	}

	var w io.Writer = os.Stdout
	if batch.Out != "" {
		f, err := os.Create(batch.Out)
		if err != nil {
			die("create output: %v", err)
		}
		defer f.Close()
		w = f
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger, batch, opts, report.NewWriter(w)); err != nil {
		logger.WithError(err).Error("batch stopped")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logrus.FieldLogger, b config.Batch, opts runOptions, w *report.Writer) error {
	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{
		"seed":    opts.seed,
		"players": b.Players,
		"samples": b.Samples,
		"mode":    b.Mode,
	}).Info("batch started")

	rng := rand.New(rand.NewSource(opts.seed))
	sv := solver.New(logger, solver.Options{Workers: opts.workers})
	for diff := b.DifficultyMin; diff <= b.DifficultyMax; diff++ {
		for i := 0; i < b.Samples; i++ {
			s, err := game.NewRandomState(rng, b.Players)
			if err != nil {
				return err
			}
			if _, err := catalog.Assign(rng, s, diff, cat); err != nil {
				return err
			}

			row := report.Row{Players: b.Players, Difficulty: diff}
			var stats solver.Stats
			switch b.Mode {
			case protocol.ModeSolve:
				res, err := sv.Solve(ctx, s)
				if err != nil {
					return err
				}
				stats, row.Duration, row.Feasible = res.Stats, res.Elapsed, res.Feasible()
				if res.Feasible() && opts.show != nil {
					fmt.Fprintln(opts.show, report.RenderTasks(res.Solution))
					fmt.Fprintln(opts.show, report.RenderSolution(res.Solution))
				}
			default:
				start := time.Now()
				stats, err = sv.Stats(ctx, s)
				if err != nil {
					return err
				}
				row.Duration, row.Feasible = time.Since(start), stats.Done > 0
			}
			row.Done, row.Failed, row.Unknown, row.Nodes = stats.Done, stats.Failed, stats.Unknown, stats.Nodes

			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
