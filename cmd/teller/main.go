package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/noah-isme/backend-teller/internal/app"
	"github.com/noah-isme/backend-teller/internal/cli"
	"github.com/noah-isme/backend-teller/internal/config"
	"github.com/noah-isme/backend-teller/internal/obs"
)

func main() {
	seed := flag.Bool("seed", false, "start with a demo catalog")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// stdout belongs to the till, so logs go to stderr.
	logger := obs.NewLogger(cfg.Obs.LogFormat, cfg.Obs.LogLevel, os.Stderr).With().Str("env", cfg.AppEnv).Logger()

	deps, err := app.New(cfg, logger, nil)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise session")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing := deps.StartTracing(ctx, "teller-cli")
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

	till, err := cli.New(cli.Config{Session: deps.Session, In: os.Stdin, Out: os.Stdout, Logger: &logger})
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise cli")
	}
	if err := till.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("cli exited")
		os.Exit(1)
	}
}
