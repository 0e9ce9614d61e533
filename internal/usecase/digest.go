package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/metrics"
	"NewsDigest/internal/ports"
)

// SourceFactory resolves the article source for the provider settings of one request.
type SourceFactory func(cfg config.ProviderConfig) (ports.ArticleSource, error)

// DigestDeps wires the driven adapters into the digest assembler.
type DigestDeps struct {
	Sources SourceFactory
	Scorer  ports.Scorer
	Metrics *metrics.Collector
	Logger  *slog.Logger
	Clock   func() time.Time
}

// Digest assembles one ranked, size-bounded digest per request.
// It holds no per-request state and is safe for concurrent use.
type Digest struct {
	sources SourceFactory
	scorer  ports.Scorer
	metrics *metrics.Collector
	logger  *slog.Logger
	clock   func() time.Time
}

// NewDigest constructs the assembler.
func NewDigest(deps DigestDeps) *Digest {
	clock := deps.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Digest{
		sources: deps.Sources,
		scorer:  deps.Scorer,
		metrics: deps.Metrics,
		logger:  logging.OrDiscard(deps.Logger),
		clock:   clock,
	}
}

// Assemble fetches, scores and truncates headlines for the effective settings.
// Configuration and provider errors are returned unchanged; no partial digest is produced.
func (d *Digest) Assemble(ctx context.Context, settings config.Settings) (domain.DigestResponse, error) {
	if err := settings.Validate(); err != nil {
		d.metrics.ObserveDigest("", resultLabel(err))
		return domain.DigestResponse{}, err
	}
	if d.sources == nil {
		err := &domain.ConfigurationError{Reason: "no article source configured"}
		d.metrics.ObserveDigest("", resultLabel(err))
		return domain.DigestResponse{}, err
	}

	source, err := d.sources(settings.Provider)
	if err != nil {
		d.metrics.ObserveDigest("", resultLabel(err))
		return domain.DigestResponse{}, err
	}

	articles, err := source.Fetch(ctx, ports.FetchRequest{
		Country:  settings.Digest.Country,
		Topic:    settings.Digest.Topic,
		PageSize: settings.Digest.MaxHeadlines,
	})
	if err != nil {
		d.logger.Error("fetch headlines failed",
			"topic", settings.Digest.Topic,
			"country", settings.Digest.Country,
			"error", err,
		)
		d.metrics.ObserveDigest("", resultLabel(err))
		return domain.DigestResponse{}, err
	}

	outcome := domain.ScoringOutcome{Mode: domain.ModeNone, Items: articles}
	if d.scorer != nil {
		outcome = d.scorer.Score(ctx, articles, settings.ScoringConfig())
	}

	items := outcome.Items
	if len(items) > settings.Digest.MaxHeadlines {
		items = items[:settings.Digest.MaxHeadlines]
	}
	if items == nil {
		items = []domain.Article{}
	}

	response := domain.DigestResponse{
		GeneratedAt: d.clock(),
		Topic:       settings.Digest.Topic,
		Country:     settings.Digest.Country,
		ScoringMode: outcome.ResponseMode(),
		Items:       items,
	}

	d.metrics.ObserveDigest(outcome.Mode.String(), "ok")
	d.logger.Debug("digest assembled",
		"topic", response.Topic,
		"country", response.Country,
		"scoring_mode", outcome.Mode,
		"fetched", len(articles),
		"returned", len(items),
	)

	return response, nil
}

func resultLabel(err error) string {
	var (
		cfgErr    *domain.ConfigurationError
		httpErr   *domain.ProviderHTTPError
		statusErr *domain.ProviderStatusError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "config_error"
	case errors.As(err, &httpErr), errors.As(err, &statusErr):
		return "provider_error"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "error"
	}
}

