package source

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/metrics"
	"NewsDigest/internal/ports"
)

const defaultTimeout = 15 * time.Second

// New selects the fixture when a sample path is configured, otherwise the remote provider.
// It fails before any I/O when neither is usable.
func New(cfg config.ProviderConfig, client *http.Client, logger *slog.Logger, collector *metrics.Collector) (ports.ArticleSource, error) {
	if path := strings.TrimSpace(cfg.SamplePath); path != "" {
		return NewFixtureSource(path, logger, collector), nil
	}

	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, &domain.ConfigurationError{
			Setting: "NEWSAPI_KEY",
			Reason:  "must be configured when not using sample data",
		}
	}

	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return NewNewsAPISource(cfg.Endpoint, cfg.APIKey, client, logger, collector), nil
}
