package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"

	"promptyoself/internal/api"
	"promptyoself/internal/config"
	"promptyoself/internal/scheduler"
)

// runLoop blocks until SIGINT/SIGTERM. The in-flight tick finishes before
// the process exits.
func runLoop(executor *scheduler.Executor, interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := scheduler.NewLoop(executor, interval)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		log.Info().Msg("shutting down")
		cancel()
	}()

	loop.Start(ctx)
}

// serve runs the poll loop alongside the HTTP API until interrupted.
func serve(ctx *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	repo, db, err := openRepo(cfg)
	if err != nil {
		return fail(err)
	}
	defer db.Close()

	gw, err := newGateway(cfg)
	if err != nil {
		return fail(err)
	}
	executor := scheduler.NewExecutor(repo, gw)

	addr := cfg.HTTPAddr
	if serveAddr != "" {
		addr = serveAddr
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	loop := scheduler.NewLoop(executor, cfg.PollInterval)
	go loop.Start(loopCtx)

	srv := &http.Server{Addr: addr, Handler: api.NewServer(repo, executor)}
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	log.Info().Msg("shutting down")
	cancel()
	shutdownCtx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()
	_ = srv.Shutdown(shutdownCtx)
	return nil
}
