package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/noah-isme/backend-teller/internal/app"
	"github.com/noah-isme/backend-teller/internal/cli"
	"github.com/noah-isme/backend-teller/internal/config"
	"github.com/noah-isme/backend-teller/internal/health"
	"github.com/noah-isme/backend-teller/internal/obs"
)

func main() {
	seed := flag.Bool("seed", false, "start with a demo catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel, nil).With().Str("env", cfg.AppEnv).Logger()

	deps, err := app.New(cfg, logger, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := deps.StartTracing(ctx, "teller-api")
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown tracer")
		}
	}()

	if *seed {
		n, err := cli.Seed(deps.Catalog)
		if err != nil {
			logger.Fatal().Err(err).Msg("seed catalog")
		}
		logger.Info().Int("products", n).Msg("demo catalog loaded")
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           deps.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-ctx.Done()
		health.SetReady(false)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown server")
		}
	}()

	logger.Info().Str("addr", srv.Addr).Msg("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server exited unexpectedly")
	}
	<-drained
	logger.Info().Msg("server stopped")
}
