package scoring

import (
	"context"
	"log/slog"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/metrics"
	"NewsDigest/internal/ports"
)

// CompleterFactory builds the remote chat backend for one scoring configuration.
type CompleterFactory func(cfg config.ScoringConfig) (ports.ChatCompleter, error)

// Strategy decides between the remote scorer and the keyword heuristic.
// Remote scoring is best effort: any failure falls back to keywords exactly once.
type Strategy struct {
	newCompleter CompleterFactory
	logger       *slog.Logger
	metrics      *metrics.Collector
}

var _ ports.Scorer = (*Strategy)(nil)

// NewStrategy wires the remote backend factory; a nil factory disables remote scoring.
func NewStrategy(factory CompleterFactory, logger *slog.Logger, collector *metrics.Collector) *Strategy {
	return &Strategy{
		newCompleter: factory,
		logger:       logging.OrDiscard(logger),
		metrics:      collector,
	}
}

// Score annotates articles according to cfg. It never fails and never reorders.
func (s *Strategy) Score(ctx context.Context, articles []domain.Article, cfg config.ScoringConfig) domain.ScoringOutcome {
	if !cfg.Enabled {
		return domain.ScoringOutcome{Mode: domain.ModeNone, Items: articles}
	}

	if cfg.HasCredential() {
		outcome, err := s.scoreRemote(ctx, articles, cfg)
		if err == nil {
			return outcome
		}
		s.logger.Warn("remote scoring failed, falling back to keyword heuristic",
			"provider", cfg.Provider,
			"articles", len(articles),
			"error", err,
		)
		s.metrics.IncScoringFallback(providerLabel(cfg.Provider))
	}

	return KeywordScores(articles, cfg.Topic)
}

func (s *Strategy) scoreRemote(ctx context.Context, articles []domain.Article, cfg config.ScoringConfig) (domain.ScoringOutcome, error) {
	var completer ports.ChatCompleter
	if s.newCompleter != nil {
		c, err := s.newCompleter(cfg)
		if err != nil {
			return domain.ScoringOutcome{}, err
		}
		completer = c
	}
	return RemoteScores(ctx, completer, articles, cfg)
}

func providerLabel(provider string) string {
	if provider == "" {
		return config.ProviderOpenAI
	}
	return provider
}
