package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/checkout"
	"github.com/noah-isme/backend-teller/internal/config"
	"github.com/noah-isme/backend-teller/internal/events"
	"github.com/noah-isme/backend-teller/internal/obs"
	"github.com/noah-isme/backend-teller/internal/receipt"
	"github.com/noah-isme/backend-teller/internal/teller"
)

// Dependencies holds the services shared by the terminal and HTTP entrypoints.
type Dependencies struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Catalog *catalog.Catalog
	Teller  *teller.Teller
	Printer *receipt.Printer
	Session *checkout.Session
	Journal *events.MemoryStore
	Events  *events.Bus
	// Registerer receives domain and HTTP metrics. Nil means the default registry.
	Registerer prometheus.Registerer
}

// New builds one session: an empty catalog, a teller and a printer sized from cfg.
func New(cfg *config.Config, logger zerolog.Logger, reg prometheus.Registerer) (*Dependencies, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	obs.MustRegisterDomainMetrics(cfg.Obs.MetricsNamespace, reg)

	cat := catalog.New()
	t, err := teller.New(teller.Config{Catalog: cat, Logger: &logger})
	if err != nil {
		return nil, fmt.Errorf("initialise teller: %w", err)
	}
	printer := receipt.NewPrinter(cfg.ReceiptColumns)
	journal := events.NewMemoryStore(cfg.EventJournalSize)
	bus := &events.Bus{
		Store:     journal,
		Notifiers: []events.Notifier{events.LogNotifier{Logger: logger}},
	}
	session, err := checkout.NewSession(checkout.SessionConfig{Catalog: cat, Teller: t, Printer: printer, Events: bus})
	if err != nil {
		return nil, fmt.Errorf("initialise session: %w", err)
	}
	return &Dependencies{
		Config:     cfg,
		Logger:     logger,
		Catalog:    cat,
		Teller:     t,
		Printer:    printer,
		Session:    session,
		Journal:    journal,
		Events:     bus,
		Registerer: reg,
	}, nil
}

// StartTracing installs the global tracer provider when tracing is enabled.
// The returned function is always safe to call.
func (d *Dependencies) StartTracing(ctx context.Context, serviceName string) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if !d.Config.Obs.EnableTracing {
		return noop
	}
	shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName:   serviceName,
		Endpoint:      d.Config.Obs.OTLPEndpoint,
		Exporter:      d.Config.Obs.TracingExporter,
		SamplingRatio: d.Config.Obs.SamplingRatio,
		Environment:   d.Config.AppEnv,
	})
	if err != nil {
		d.Logger.Error().Err(err).Msg("initialise tracing")
		d.Config.Obs.EnableTracing = false
		return noop
	}
	return shutdown
}
