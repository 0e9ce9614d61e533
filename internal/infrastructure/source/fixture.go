package source

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/metrics"
	"NewsDigest/internal/ports"
)

// FixtureSource serves headlines from a local provider-shaped JSON document.
type FixtureSource struct {
	path    string
	logger  *slog.Logger
	metrics *metrics.Collector
}

var _ ports.ArticleSource = (*FixtureSource)(nil)

// NewFixtureSource reads articles from path on every fetch.
func NewFixtureSource(path string, logger *slog.Logger, collector *metrics.Collector) *FixtureSource {
	return &FixtureSource{path: path, logger: logger, metrics: collector}
}

// Fetch parses the fixture and normalizes its "articles" array.
// The fixture is not capped by page size; the assembler truncates after scoring.
func (f *FixtureSource) Fetch(ctx context.Context, req ports.FetchRequest) ([]domain.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", f.path, err)
	}
	if !json.Valid(payload) {
		return nil, fmt.Errorf("parse fixture %s: invalid JSON", f.path)
	}

	articles, skipped := normalizeRecords(extractRecords(payload))
	f.metrics.AddSkippedArticles(skipped)
	f.debug("fixture loaded", "path", f.path, "articles", len(articles), "skipped", skipped)

	return articles, nil
}

func (f *FixtureSource) debug(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Debug(msg, args...)
	}
}
