// Package nutriservice wires configuration, storage, the language model and the HTTP API into a running service.
package nutriservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/ryan-kosiba/nutriclaude/internal/aggregate"
	"github.com/ryan-kosiba/nutriclaude/internal/api"
	"github.com/ryan-kosiba/nutriclaude/internal/config"
	"github.com/ryan-kosiba/nutriclaude/internal/extract"
	"github.com/ryan-kosiba/nutriclaude/internal/factory"
	"github.com/ryan-kosiba/nutriclaude/internal/health"
	"github.com/ryan-kosiba/nutriclaude/internal/llm"
	"github.com/ryan-kosiba/nutriclaude/internal/logger"
	"github.com/ryan-kosiba/nutriclaude/internal/services"
	"github.com/ryan-kosiba/nutriclaude/internal/store"
	"github.com/ryan-kosiba/nutriclaude/internal/store/sqlstore"
)

// Run starts the nutriclaude HTTP service and blocks until shutdown or error.
// A non-empty buildTarget overrides NUTRICLAUDE_BUILD_TARGET.
func Run(buildTarget string) error {
	log := logger.New("nutriclaude-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	if buildTarget != "" {
		cfg.BuildTarget = buildTarget
		cfg.DBDriver = "auto"
		if err := cfg.ResolveDefaults(); err != nil {
			log.Error().Err(err).Msg("Invalid build-target override")
			return err
		}
	}
	logger.SetLevel(cfg.LogLevel)
	// respond and recovery log through the global logger
	zlog.Logger = log

	log.Info().
		Str("build_target", cfg.BuildTarget).
		Str("db_driver", cfg.DBDriver).
		Int("http_port", cfg.HTTPPort).
		Str("llm_provider", cfg.LLMProvider).
		Msg("Nutriclaude service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st, gen, closeStore, err := initDependencies(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	router := buildRouter(st, gen, cfg, log)

	svcHealth := startHealthCheckers(ctx, cfg, log, st, gen)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			return err
		}
		log.Info().Msg("Server exited")
		return nil
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// initDependencies constructs the store and the language model and fails fast on either.
func initDependencies(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sqlstore.Store, llm.Generator, func(), error) {
	st, err := factory.NewStore(ctx, cfg, log)
	if err != nil {
		log.Error().Stack().Err(err).Msg("Store adapter unavailable")
		return nil, nil, nil, err
	}
	closeStore := func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("store close failed")
		}
	}

	gen, err := factory.NewGenerator(ctx, cfg, log)
	if err != nil {
		closeStore()
		log.Error().Stack().Err(err).Msg("Language model provider unavailable")
		return nil, nil, nil, err
	}
	return st, gen, closeStore, nil
}

// buildRouter wires services to HTTP handlers.
func buildRouter(st store.Store, gen llm.Generator, cfg *config.Config, log zerolog.Logger) *mux.Router {
	loc := cfg.Location()
	ext := extract.New(gen, loc, log)
	staging := services.NewStagingService(st, log)

	return api.NewRouter(api.Handlers{
		Intake: api.NewIntakeHandler(
			services.NewIntakeService(ext, staging, cfg.AllowedUserID, log),
			staging,
			services.NewConfirmationService(st, log),
		),
		Dashboard: api.NewDashboardHandler(aggregate.New(st, ext, loc, log)),
		Entries:   api.NewEntryHandler(services.NewEntryService(st, loc), services.NewGoalsService(st)),
		Health:    api.NewHealthHandler(),
	})
}

// startHealthCheckers starts component checkers and service-level aggregator; binds health.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store, gen llm.Generator) *health.ServiceHealthChecker {
	var checkers []health.HealthChecker
	probeTimeout := time.Duration(cfg.HealthProbeTimeoutSeconds) * time.Second
	interval := time.Duration(cfg.HealthIntervalSeconds) * time.Second

	storeChecker := store.NewStoreHealthChecker(st, log, probeTimeout)
	go storeChecker.Start(ctx, interval)
	checkers = append(checkers, storeChecker)

	llmChecker := llm.NewProviderHealthChecker(gen, log, probeTimeout)
	go llmChecker.Start(ctx, interval)
	checkers = append(checkers, llmChecker)

	svcHealth := health.NewServiceHealthChecker(log, checkers...)
	go svcHealth.Start(ctx, interval)
	api.BindServiceHealth(svcHealth.IsHealthy)
	api.BindComponentHealth(svcHealth.Components)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		// intake waits on a model call
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()
	return errCh
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 60 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 60 {
		return 60
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.IsHealthy() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
