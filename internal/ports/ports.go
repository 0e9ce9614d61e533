package ports

import (
	"context"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
)

// FetchRequest carries the effective query for one headline fetch.
type FetchRequest struct {
	Country  string
	Topic    string
	PageSize int
}

// ArticleSource pulls raw headlines from a fixture or the upstream provider.
type ArticleSource interface {
	Fetch(ctx context.Context, req FetchRequest) ([]domain.Article, error)
}

// Scorer annotates articles with relevance scores. It never fails.
type Scorer interface {
	Score(ctx context.Context, articles []domain.Article, cfg config.ScoringConfig) domain.ScoringOutcome
}

// ChatRequest is a single system+user exchange sent to an LLM backend.
type ChatRequest struct {
	Model        string
	System       string
	User         string
	Temperature  float64
	JSONResponse bool
}

// ChatCompleter sends one chat completion and returns the text of the reply.
type ChatCompleter interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
}

// Notifier streams rendered digests to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when scheduled digests execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
