package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/metrics"
	"NewsDigest/internal/ports"
)

// NewsAPISource fetches a single page of top headlines from a NewsAPI-compatible endpoint.
type NewsAPISource struct {
	endpoint string
	apiKey   string
	client   *http.Client
	logger   *slog.Logger
	metrics  *metrics.Collector
}

var _ ports.ArticleSource = (*NewsAPISource)(nil)

type topHeadlinesResponse struct {
	Status   string          `json:"status"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Articles json.RawMessage `json:"articles"`
}

// NewNewsAPISource wires an HTTP client; a nil client gets a 15s timeout.
func NewNewsAPISource(endpoint, apiKey string, client *http.Client, logger *slog.Logger, collector *metrics.Collector) *NewsAPISource {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &NewsAPISource{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   client,
		logger:   logger,
		metrics:  collector,
	}
}

// Fetch issues one GET and returns the normalized articles in provider order.
func (n *NewsAPISource) Fetch(ctx context.Context, req ports.FetchRequest) ([]domain.Article, error) {
	pageURL, err := buildHeadlinesURL(n.endpoint, n.apiKey, req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("User-Agent", "NewsDigest/1.0")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(httpReq)
	if err != nil {
		n.metrics.IncProviderError("transport")
		return nil, fmt.Errorf("request headlines: %w", redactKey(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		n.metrics.IncProviderError("http_status")
		return nil, &domain.ProviderHTTPError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var payload topHeadlinesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		n.metrics.IncProviderError("decode")
		return nil, fmt.Errorf("decode headlines: %w", err)
	}

	if payload.Status != "ok" {
		n.metrics.IncProviderError("status")
		return nil, &domain.ProviderStatusError{
			Status:  payload.Status,
			Code:    payload.Code,
			Message: payload.Message,
		}
	}

	articles, skipped := normalizeRecords(recordsFrom(payload.Articles))
	n.metrics.AddSkippedArticles(skipped)
	n.debug("headlines fetched", "country", req.Country, "topic", req.Topic, "articles", len(articles), "skipped", skipped)

	return articles, nil
}

func buildHeadlinesURL(endpoint, apiKey string, req ports.FetchRequest) (string, error) {
	parsed, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid headlines endpoint %s: %w", endpoint, err)
	}

	query := parsed.Query()
	query.Set("apiKey", apiKey)
	query.Set("country", req.Country)
	query.Set("pageSize", strconv.Itoa(req.PageSize))
	query.Set("q", req.Topic)
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}

// redactKey masks the apiKey query parameter in transport errors, which otherwise carry the full request URL.
func redactKey(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}

	parsed, perr := url.Parse(urlErr.URL)
	if perr != nil {
		return &url.Error{Op: urlErr.Op, URL: "[redacted]", Err: urlErr.Err}
	}
	query := parsed.Query()
	if query.Has("apiKey") {
		query.Set("apiKey", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return &url.Error{Op: urlErr.Op, URL: parsed.String(), Err: urlErr.Err}
}

func (n *NewsAPISource) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}
