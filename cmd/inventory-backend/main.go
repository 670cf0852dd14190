package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/secassets/inventory-backend/internal/backend"
	"github.com/secassets/inventory-backend/internal/config"
	"github.com/secassets/inventory-backend/internal/export"
	"github.com/secassets/inventory-backend/internal/graph"
	"github.com/secassets/inventory-backend/internal/logger"
	"github.com/secassets/inventory-backend/internal/patch"
	"github.com/secassets/inventory-backend/internal/search"
	"github.com/secassets/inventory-backend/internal/session"
	"github.com/secassets/inventory-backend/internal/store"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/sdk/metric"
)

func main() {
	cfg := config.New()

	log, err := logger.New(cfg.Logger, os.Stdout)
	if err != nil {
		logrus.WithError(err).Fatal("setting up logger")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.WithError(err).Fatal("running inventory backend")
	}
}

func run(ctx context.Context, cfg *config.Config, log *logrus.Logger) error {
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	exporter, err := prometheus.New()
	if err != nil {
		return err
	}
	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter("github.com/secassets/inventory-backend")

	errors, err := meter.Int64Counter("errors")
	if err != nil {
		return err
	}

	client := backend.New(cfg.Backend, errors, log.WithField("client", "backend"))
	st := store.New(client, policy, log.WithField("component", "store"), store.WithRefreshInterval(cfg.RefreshInterval))

	metrics, err := graph.NewMetrics(meter)
	if err != nil {
		return err
	}

	schema, err := graph.NewSchema(&graph.Resolver{
		Store:        st,
		Searcher:     search.New(st),
		Patcher:      client,
		PatchBuilder: patch.NewBuilder(cfg.PatchIncludeDate),
		Metrics:      metrics,
		Log:          log.WithField("component", "graph"),
	})
	if err != nil {
		return err
	}

	sessionMW, err := sessionMiddleware(cfg, st, log)
	if err != nil {
		return err
	}

	corsMW := cors.New(
		cors.Options{
			AllowedOrigins:   []string{"https://*", "http://*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Content-Type", session.HeaderRole, session.HeaderAnalyst},
			AllowCredentials: true,
			Debug:            cfg.Logger.Level == "debug",
		})

	exports := export.New(st, log.WithField("component", "export"))

	mux := http.NewServeMux()
	mux.Handle("/query", corsMW.Handler(sessionMW(graph.NewHandler(schema, log.WithField("component", "graphql")))))
	mux.Handle("/export/workstations", corsMW.Handler(sessionMW(exports.Workstations())))
	mux.Handle("/export/ips", corsMW.Handler(sessionMW(exports.IPs())))
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              cfg.BindHost + ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Error("shutting down HTTP server")
		}
	}()

	log.WithField("backend", cfg.Backend.Endpoint).Infof("GraphQL endpoint available at http://%s/query", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// sessionMiddleware pins every request to the configured selection when running locally, otherwise the scope is
// read from the request headers, after IAP validation when an audience is configured
func sessionMiddleware(cfg *config.Config, dir session.Directory, log logrus.FieldLogger) (session.Middleware, error) {
	log = log.WithField("component", "session")

	if cfg.RunAs != "" && cfg.IAPAudience == "" {
		sel, err := session.ParseSelection(cfg.RunAs)
		if err != nil {
			return nil, err
		}
		log.Infof("Running as %s", cfg.RunAs)
		return session.StaticScope(sel, dir, log), nil
	}

	headers := session.Headers(dir, log)
	if cfg.IAPAudience == "" {
		log.Warn("no IAP audience configured, session headers are trusted as sent")
		return headers, nil
	}

	iap := session.ValidateIAPJWT(cfg.IAPAudience)
	return func(next http.Handler) http.Handler {
		return iap(headers(next))
	}, nil
}
