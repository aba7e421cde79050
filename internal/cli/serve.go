package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/eshaffer321/room-allocation-backend/internal/api"
	"github.com/eshaffer321/room-allocation-backend/internal/application/service"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/config"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/idempotency"
	"github.com/eshaffer321/room-allocation-backend/internal/infrastructure/logging"
	"github.com/eshaffer321/room-allocation-backend/internal/observability"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	Port int // overrides server.port when > 0
}

func newServeCommand(global *GlobalFlags) *cobra.Command {
	flags := &ServeFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the occupancy HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunServe(global.loadConfig(), flags)
		},
	}
	cmd.Flags().IntVar(&flags.Port, "port", 0, "Port to listen on (default from config)")

	return cmd
}

// Application is the wired service graph behind the HTTP API.
type Application struct {
	Server   *api.Server
	Store    *idempotency.MemoryStore[service.Result]
	Registry *prometheus.Registry
}

// NewApplication wires metrics, the idempotency cache, the allocation
// service and the HTTP server from cfg.
func NewApplication(cfg *config.Config, logger *slog.Logger) *Application {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	store := idempotency.NewMemoryStore[service.Result](idempotency.Config{
		MaxEntries: cfg.Idempotency.MaxEntries,
		TTL:        cfg.Idempotency.TTL(),
	})
	store.OnEviction(func(_, reason string) {
		metrics.IdempotencyEviction(reason)
	})

	cache := idempotency.NewCache[service.Result](store, logger.With("system", "idempotency"), func(o idempotency.Outcome) {
		metrics.IdempotencyOutcome(string(o))
	})
	svc := service.NewAllocationService(cache, metrics, logger.With("system", "allocator"))

	return &Application{
		Server:   api.NewServer(api.ConfigFrom(cfg), svc, reg, logger.With("system", "api")),
		Store:    store,
		Registry: reg,
	}
}

// RunServe runs the API server until SIGINT or SIGTERM.
func RunServe(cfg *config.Config, flags *ServeFlags) error {
	if flags.Port > 0 {
		cfg.Server.Port = flags.Port
	}

	logger := logging.NewLogger(cfg.Observability.Logging)
	app := NewApplication(cfg, logger)

	app.Store.Start()
	defer app.Store.Stop()

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	logger.Info("idempotency cache ready",
		"max_entries", cfg.Idempotency.MaxEntries,
		"expire_after", cfg.Idempotency.TTL(),
	)

	// Start server (blocks until shutdown)
	if err := app.Server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
