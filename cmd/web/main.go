package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/remigerme/the-crew-solver/catalog"
	"github.com/remigerme/the-crew-solver/config"
	"github.com/remigerme/the-crew-solver/server"
	"github.com/remigerme/the-crew-solver/store"
	"golang.org/x/sync/errgroup"
)

const shutdownGrace = 10 * time.Second

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cfg.Logger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cat, err := catalog.Load()
	if err != nil {
		logger.WithError(err).Fatal("could not load the task catalog")
	}

	s := server.NewServer(logger, store.NewInMemoryJobStore(), cat, server.Options{
		Workers:       cfg.Workers,
		ProgressEvery: cfg.ProgressEvery,
		JobTimeout:    cfg.JobTimeout,
	})
	s.Addr = cfg.Addr

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.WithField("addr", cfg.Addr).Info("listening")
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		logger.Info("shutting down")
		return s.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
