package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
)

type handler struct {
	assembler Assembler
	base      config.Settings
	logger    *slog.Logger
}

// runRequest carries optional per-request overrides; absent fields keep the configured defaults.
type runRequest struct {
	Topic        *string `json:"topic"`
	Country      *string `json:"country"`
	MaxHeadlines *int    `json:"max_headlines"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) run(c *gin.Context) {
	var req runRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body"})
			return
		}
	}

	overrides := config.Overrides{}
	if req.Topic != nil {
		overrides.Topic = *req.Topic
	}
	if req.Country != nil {
		overrides.Country = *req.Country
	}
	if req.MaxHeadlines != nil {
		if *req.MaxHeadlines < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "max_headlines must be positive"})
			return
		}
		overrides.MaxHeadlines = *req.MaxHeadlines
	}

	response, err := h.assembler.Assemble(c.Request.Context(), h.base.Override(overrides))
	if err != nil {
		status := statusFor(err)
		h.logger.Error("digest request failed", "status", status, "error", err)
		c.JSON(status, gin.H{"detail": detailFor(err, status)})
		return
	}

	c.JSON(http.StatusOK, response)
}

// statusFor maps digest failures onto HTTP statuses.
func statusFor(err error) int {
	var (
		cfgErr    *domain.ConfigurationError
		httpErr   *domain.ProviderHTTPError
		statusErr *domain.ProviderStatusError
		netErr    net.Error
	)
	switch {
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError
	case errors.As(err, &httpErr), errors.As(err, &statusErr):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// detailFor exposes only configuration and upstream provider errors; anything else gets a fixed message.
func detailFor(err error, status int) string {
	var cfgErr *domain.ConfigurationError
	switch {
	case status == http.StatusBadGateway:
		return err.Error()
	case errors.As(err, &cfgErr):
		return cfgErr.Error()
	case status == http.StatusGatewayTimeout:
		return "Headline provider timed out"
	default:
		return "Internal server error"
	}
}
