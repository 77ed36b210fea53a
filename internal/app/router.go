package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/backend-teller/internal/catalog"
	"github.com/noah-isme/backend-teller/internal/checkout"
	"github.com/noah-isme/backend-teller/internal/events"
	"github.com/noah-isme/backend-teller/internal/health"
	"github.com/noah-isme/backend-teller/internal/obs"
	"github.com/noah-isme/backend-teller/internal/ratelimit"
	"github.com/noah-isme/backend-teller/internal/security"
)

// Router mounts the JSON API, health probes and metrics.
func (d *Dependencies) Router() http.Handler {
	cfg := d.Config

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if cfg.Obs.EnableTracing {
		r.Use(obs.TracingMiddleware)
	}
	if cfg.Obs.EnablePrometheus {
		buckets := obs.ParseBucketsCSV(cfg.Obs.MetricsBuckets)
		httpMetrics := obs.NewHTTPMetrics(cfg.Obs.MetricsNamespace, buckets, d.Registerer)
		r.Use(obs.HTTPObs{Metrics: httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.Logger}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(security.Headers{Enable: cfg.SecurityHeaders, EnableHSTS: true}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.BodyLimitBytes}.Middleware)

	if cfg.Obs.EnablePrometheus {
		r.Handle("/metrics", d.metricsHandler())
	}

	healthHandler := health.Handler{Probes: map[string]health.Probe{
		"catalog": d.catalogProbe,
	}}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	catalogHandler := catalog.NewHandler(catalog.HandlerConfig{Catalog: d.Catalog, Events: d.Events})
	eventsHandler := events.Handler{Store: d.Journal}
	checkoutHandler := &checkout.Handler{Session: d.Session}

	r.Route("/api/v1", func(v chi.Router) {
		if cfg.RateLimitRequests > 0 {
			v.Use(ratelimit.Handler{
				Limiter: ratelimit.NewMemoryLimiter(cfg.RateLimitWindow, cfg.RateLimitRequests),
				Config:  ratelimit.Config{Key: ratelimit.ClientIP, Max: cfg.RateLimitRequests},
				OnError: func(err error) { d.Logger.Warn().Err(err).Msg("rate limiter unavailable") },
			}.Middleware)
		}
		v.Get("/products", catalogHandler.Products)
		v.Post("/products", catalogHandler.Create)

		v.Route("/cart", func(c chi.Router) {
			c.Get("/", checkoutHandler.Cart)
			c.Delete("/", checkoutHandler.ResetCart)
			c.Post("/items", checkoutHandler.AddItem)
		})

		v.Post("/offers", checkoutHandler.RegisterOffer)
		v.Delete("/offers/{name}", checkoutHandler.RemoveOffer)
		v.Post("/checkout", checkoutHandler.Checkout)
		v.Get("/events", eventsHandler.List)
	})
	return r
}

func (d *Dependencies) metricsHandler() http.Handler {
	if g, ok := d.Registerer.(prometheus.Gatherer); ok {
		return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func (d *Dependencies) catalogProbe(context.Context) error {
	if d.Catalog == nil || d.Session == nil {
		return errors.New("session not initialised")
	}
	return nil
}
