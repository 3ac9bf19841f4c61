package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitmate/internal/config"
	"github.com/mmynk/splitmate/internal/idempotency"
	"github.com/mmynk/splitmate/internal/metrics"
	"github.com/mmynk/splitmate/internal/middleware"
	"github.com/mmynk/splitmate/internal/service"
	"github.com/mmynk/splitmate/internal/storage"
	"github.com/mmynk/splitmate/internal/storage/memory"
	"github.com/mmynk/splitmate/internal/storage/postgres"
	"github.com/mmynk/splitmate/internal/storage/sqlite"
	"github.com/mmynk/splitmate/pkg/api/apiconnect"
	"github.com/mmynk/splitmate/pkg/logging"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	if cfg.SeedSampleData {
		groups, seeded, err := storage.SeedIfEmpty(ctx, store)
		if err != nil {
			return fmt.Errorf("failed to seed sample data: %w", err)
		}
		if seeded {
			slog.Info("Sample data seeded", "groups", len(groups))
		} else {
			slog.Info("Sample data skipped, store already has users")
		}
	}

	m := metrics.New()
	opts := []service.Option{service.WithMetrics(m)}

	if cfg.IdempotencyDBPath != "" {
		claims, err := idempotency.Open(cfg.IdempotencyDBPath)
		if err != nil {
			return fmt.Errorf("failed to open idempotency store: %w", err)
		}
		defer claims.Close()
		opts = append(opts, service.WithIdempotency(claims))
		slog.Info("Idempotency keys enabled", "database", cfg.IdempotencyDBPath)
	} else {
		slog.Warn("Idempotency keys disabled")
	}

	interceptors := connect.WithInterceptors(
		middleware.LoggingInterceptor(),
		middleware.MetricsInterceptor(m),
	)

	mux := http.NewServeMux()

	// Register Connect services
	mux.Handle(apiconnect.NewUserServiceHandler(service.NewUserService(store), interceptors))
	mux.Handle(apiconnect.NewGroupServiceHandler(service.NewGroupService(store), interceptors))
	mux.Handle(apiconnect.NewExpenseServiceHandler(service.NewExpenseService(store, opts...), interceptors))
	mux.Handle(apiconnect.NewSettlementServiceHandler(service.NewSettlementService(store, opts...), interceptors))
	mux.Handle(apiconnect.NewBalanceServiceHandler(service.NewBalanceService(store, opts...), interceptors))

	mux.Handle(cfg.MetricsPath, m.Handler())

	if cfg.StaticPath != "" {
		handler, err := staticHandler(cfg.StaticPath)
		if err != nil {
			return err
		}
		mux.Handle("/", handler)
	}

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggingMiddleware(corsMiddleware(mux)), &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr(), "url", fmt.Sprintf("http://localhost%s", cfg.Addr()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.StorageDriver)
		return store, nil
	case config.DriverMemory:
		slog.Info("Storage initialized", "driver", cfg.StorageDriver)
		return memory.New(), nil
	default:
		store, err := sqlite.New(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		slog.Info("Storage initialized", "driver", cfg.StorageDriver, "database", cfg.DBPath)
		return store, nil
	}
}

// staticHandler serves the web frontend, falling back to index.html for
// unknown paths.
func staticHandler(staticPath string) (http.Handler, error) {
	staticDir, err := filepath.Abs(staticPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	slog.Info("Serving static files", "path", staticDir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown Connect procedures must not fall through to index.html
		if strings.HasPrefix(r.URL.Path, "/splitmate.v1.") {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean(urlPath))
		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}), nil
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers",
			"Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms, "+middleware.IdempotencyKeyHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
