package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/infrastructure/httpapi"
	"NewsDigest/internal/infrastructure/llm"
	"NewsDigest/internal/infrastructure/scheduler"
	"NewsDigest/internal/infrastructure/source"
	"NewsDigest/internal/infrastructure/telegram"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/metrics"
	"NewsDigest/internal/ports"
	"NewsDigest/internal/scoring"
	"NewsDigest/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	digest  *usecase.Digest
	router  *gin.Engine
}

// New builds a runnable application instance. It performs no network I/O.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	collector := metrics.NewCollector()
	providerClient := &http.Client{Timeout: cfg.Provider.Timeout}
	sourceLogger := baseLogger.With("component", "source")

	sources := func(pc config.ProviderConfig) (ports.ArticleSource, error) {
		return source.New(pc, providerClient, sourceLogger, collector)
	}
	completers := func(sc config.ScoringConfig) (ports.ChatCompleter, error) {
		return llm.NewCompleter(sc, nil)
	}

	digest := usecase.NewDigest(usecase.DigestDeps{
		Sources: sources,
		Scorer:  scoring.NewStrategy(completers, baseLogger.With("component", "scoring"), collector),
		Metrics: collector,
		Logger:  baseLogger.With("component", "digest"),
	})

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Assembler:    digest,
		Settings:     cfg.Settings(),
		ServiceToken: cfg.Server.ServiceToken,
		Metrics:      collector,
		Logger:       baseLogger.With("component", "http"),
	})

	return &Application{
		cfg:     cfg,
		logger:  baseLogger,
		metrics: collector,
		digest:  digest,
		router:  router,
	}
}

// Handler exposes the HTTP surface, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.router
}

// RunOnce assembles a single digest with overrides layered on the configured defaults.
func (a *Application) RunOnce(ctx context.Context, overrides config.Overrides) (domain.DigestResponse, error) {
	return a.digest.Assemble(ctx, a.cfg.Settings().Override(overrides))
}

// Serve runs the HTTP endpoint and, when configured, scheduled delivery until ctx is cancelled.
func (a *Application) Serve(ctx context.Context) error {
	delivery, err := a.newDelivery()
	if err != nil {
		return err
	}
	if delivery != nil {
		if err := delivery.Start(ctx); err != nil {
			return fmt.Errorf("start scheduled delivery: %w", err)
		}
		a.logger.Info("scheduled delivery enabled",
			"cron", a.cfg.Scheduler.CronExpression,
			"timezone", a.cfg.Scheduler.Location().String(),
		)
	}

	server := httpapi.NewServer(a.cfg.Server.Addr, a.router, a.logger.With("component", "http"))
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	var serveErr error
	select {
	case serveErr = <-errCh:
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if delivery != nil {
		if err := delivery.Stop(shutdownCtx); err != nil {
			a.logger.Warn("scheduled delivery did not stop cleanly", "error", err)
		}
	}
	if serveErr != nil {
		return fmt.Errorf("http server: %w", serveErr)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	a.logger.Info("application stopped")
	return nil
}

func (a *Application) newDelivery() (*usecase.Delivery, error) {
	if a.cfg.Scheduler.CronExpression == "" {
		return nil, nil
	}
	if !a.cfg.Notifications.Telegram.Enabled() {
		a.logger.Warn("cron expression set but telegram is not configured, scheduled delivery disabled")
		return nil, nil
	}

	driver, err := scheduler.NewCronScheduler(a.cfg.Scheduler.CronExpression, a.cfg.Scheduler.Location())
	if err != nil {
		return nil, err
	}

	notifier, err := telegram.NewNotifier(a.cfg.Notifications.Telegram, "", nil, a.logger.With("component", "telegram"))
	if err != nil {
		return nil, err
	}

	return usecase.NewDelivery(driver, a.digest, notifier, a.cfg.Settings(), a.logger.With("component", "delivery")), nil
}
