package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/SohithNarnavaram/BeautyHub/internal/app"
	"github.com/SohithNarnavaram/BeautyHub/internal/cart"
	"github.com/SohithNarnavaram/BeautyHub/internal/catalog"
	"github.com/SohithNarnavaram/BeautyHub/internal/config"
	"github.com/SohithNarnavaram/BeautyHub/internal/events"
	"github.com/SohithNarnavaram/BeautyHub/internal/latency"
	"github.com/SohithNarnavaram/BeautyHub/internal/metrics"
	"github.com/SohithNarnavaram/BeautyHub/internal/models"
	"github.com/SohithNarnavaram/BeautyHub/internal/registry"
	"github.com/SohithNarnavaram/BeautyHub/internal/storage"
	"github.com/SohithNarnavaram/BeautyHub/internal/wizard"
)

func main() {
	// .env is optional, real deployments set the environment directly.
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("BEAUTYHUB_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		logger = logger.Level(level)
	}

	database, err := storage.NewDB(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var sim *latency.Simulator
	if delays, fallback := cfg.LatencyDelays(); delays != nil || fallback > 0 {
		sim = latency.New(delays, fallback)
	}

	bus := events.NewBus()
	bus.Subscribe(events.TypeBookingCreated, func(e events.Event) {
		if b, ok := e.Payload.(*models.Booking); ok {
			logger.Info().Str("code", b.BookingCode).Str("vendor", b.VendorName).Msg("booking created")
		}
	})
	bus.Subscribe(events.TypeOrderPlaced, func(e events.Event) {
		if o, ok := e.Payload.(*models.Order); ok {
			logger.Info().Str("code", o.OrderCode).Float64("total", o.Total).Msg("order placed")
		}
	})

	vendors := catalog.New(nil, sim, logger)
	if err := vendors.Watch(ctx, cfg.Catalog.Path, cfg.CatalogReloadInterval()); err != nil {
		logger.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("load vendor catalog")
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled && cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		vendors.UseRedisCache(rdb, cfg.CacheTTL())
	}

	bookings := registry.New(database, sim, logger, registry.WithEventBus(bus))
	carts := cart.New(database, sim, logger, cart.WithEventBus(bus))
	sessions := wizard.NewSessionStore(cfg.SessionTimeout())
	marketplace := app.New(vendors, bookings, carts, sessions, logger)
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sessions.Cleanup(); n > 0 {
					logger.Debug().Int("expired", n).Msg("wizard sessions cleaned up")
				}
			}
		}
	}()

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, database, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		metrics.Register()
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	all, err := marketplace.Catalog().ListVendors(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("list vendors")
	}
	logger.Info().Int("vendors", len(all)).Msg("beautyhub core started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")
}

func startHealthServer(ctx context.Context, port int, database *storage.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := database.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
