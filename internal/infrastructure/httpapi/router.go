package httpapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/metrics"
)

// Assembler builds one digest for the effective settings of a request.
type Assembler interface {
	Assemble(ctx context.Context, settings config.Settings) (domain.DigestResponse, error)
}

// RouterDeps wires the digest use case into the HTTP surface.
type RouterDeps struct {
	Assembler    Assembler
	Settings     config.Settings
	ServiceToken string
	Metrics      *metrics.Collector
	Logger       *slog.Logger
}

// NewRouter registers /health, /run and /metrics on a fresh gin engine.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := logging.OrDiscard(deps.Logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), deps.Metrics.Middleware(), requestLogger(logger))

	h := &handler{
		assembler: deps.Assembler,
		base:      deps.Settings,
		logger:    logger,
	}

	engine.GET("/health", h.health)
	engine.POST("/run", bearerAuth(deps.ServiceToken), h.run)
	engine.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	return engine
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
