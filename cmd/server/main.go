package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/settleup/internal/config"
	"github.com/mmynk/settleup/internal/currency"
	"github.com/mmynk/settleup/internal/debts"
	"github.com/mmynk/settleup/internal/metrics"
	rpcmiddleware "github.com/mmynk/settleup/internal/middleware"
	"github.com/mmynk/settleup/internal/notify"
	"github.com/mmynk/settleup/internal/service"
	"github.com/mmynk/settleup/internal/storage/sqlite"
	"github.com/mmynk/settleup/pkg/api/apiconnect"
	"github.com/mmynk/settleup/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logging.SetupWith(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DB.Path)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	conv := currency.NewConverter(rateSource(cfg), cfg.Rates.CacheTTL, currency.WithObserver(m))
	engine := debts.Engine{Converter: conv, DisplayCurrency: cfg.Debts.DisplayCurrency}

	bus := notify.NewBus()
	registry := debts.NewRegistry(bus, store, engine,
		debts.WithMetrics(m),
		debts.WithTimeout(cfg.Debts.RecomputeTimeout),
	)

	interceptors := connect.WithInterceptors(
		rpcmiddleware.LoggingInterceptor(slog.Default()),
		rpcmiddleware.MetricsInterceptor(m),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.App.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Connect-Protocol-Version", "Connect-Timeout-Ms"},
		ExposedHeaders: []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
	}))

	// Register Connect services
	eventPath, eventHandler := apiconnect.NewEventServiceHandler(service.NewEventService(store, bus), interceptors)
	r.Handle(eventPath+"*", eventHandler)

	debtPath, debtHandler := apiconnect.NewDebtServiceHandler(service.NewDebtService(store, bus, registry), interceptors)
	r.Handle(debtPath+"*", debtHandler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(r, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting",
			"address", srv.Addr,
			"display_currency", cfg.Debts.DisplayCurrency,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// rateSource picks the exchange rate backend. Without RATES_URL only
// conversions between identical currencies succeed.
func rateSource(cfg *config.Config) currency.Source {
	if cfg.Rates.URL == "" {
		slog.Warn("RATES_URL not set, running with offline rates")
		return currency.FixedSource{}
	}
	slog.Info("Using exchange rate API", "url", cfg.Rates.URL, "per_second", cfg.Rates.PerSecond)
	return currency.NewHTTPSource(cfg.Rates.URL, cfg.Rates.Timeout, cfg.Rates.PerSecond, cfg.Rates.Burst)
}

// requestLogger logs all incoming requests
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		slog.Debug("Request completed",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
