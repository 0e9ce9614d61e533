package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	remoteReasoning = "LLM assessment"

	systemPromptTemplate = "You are a news analyst. Score each headline for relevance to the" +
		" topic '%s'. Return JSON with a 'scores' array where each" +
		` element is {"title": string, "score": number between 0 and 1,` +
		` "reasoning": short string}.`
)

var errEmptyCompletion = errors.New("remote scorer returned an empty completion")

type promptHeadline struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

type scoreEntry struct {
	score     float64
	scored    bool
	reasoning string
}

// RemoteScores sends the whole batch in one completion call and annotates
// articles whose title matches a returned entry exactly.
func RemoteScores(ctx context.Context, completer ports.ChatCompleter, articles []domain.Article, cfg config.ScoringConfig) (domain.ScoringOutcome, error) {
	if completer == nil {
		return domain.ScoringOutcome{}, errors.New("remote scorer is not configured")
	}
	if !cfg.HasCredential() {
		return domain.ScoringOutcome{}, errors.New("remote scorer credential is missing")
	}

	user, err := buildUserPrompt(articles)
	if err != nil {
		return domain.ScoringOutcome{}, err
	}

	content, err := completer.Complete(ctx, ports.ChatRequest{
		Model:        cfg.Model,
		System:       fmt.Sprintf(systemPromptTemplate, cfg.Topic),
		User:         user,
		Temperature:  0,
		JSONResponse: true,
	})
	if err != nil {
		return domain.ScoringOutcome{}, fmt.Errorf("remote completion: %w", err)
	}

	lookup, err := parseScores(content)
	if err != nil {
		return domain.ScoringOutcome{}, err
	}

	items := make([]domain.Article, len(articles))
	for i, article := range articles {
		items[i] = article
		entry, ok := lookup[article.Title]
		if !ok || !entry.scored {
			continue
		}
		items[i] = article.WithScore(entry.score, entry.reasoning)
	}

	return domain.ScoringOutcome{Mode: domain.ModeRemote, Items: items}, nil
}

func buildUserPrompt(articles []domain.Article) (string, error) {
	headlines := make([]promptHeadline, 0, len(articles))
	for _, article := range articles {
		headlines = append(headlines, promptHeadline{
			Title:       article.Title,
			Description: article.DescriptionText(),
			URL:         article.URL,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any{"headlines": headlines}); err != nil {
		return "", fmt.Errorf("marshal headlines: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// parseScores decodes the scorer reply into a title lookup. A reply that is
// valid JSON but not shaped as expected yields an empty lookup.
func parseScores(content string) (map[string]scoreEntry, error) {
	content = stripCodeFence(content)
	if content == "" {
		return nil, errEmptyCompletion
	}

	var parsed any
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("parse remote scores: %w", err)
	}

	lookup := map[string]scoreEntry{}
	doc, ok := parsed.(map[string]any)
	if !ok {
		return lookup, nil
	}
	entries, ok := doc["scores"].([]any)
	if !ok {
		return lookup, nil
	}

	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		title, ok := entry["title"].(string)
		if !ok {
			continue
		}

		score, scored := coerceScore(entry["score"])
		reasoning, _ := entry["reasoning"].(string)
		if reasoning == "" {
			reasoning = remoteReasoning
		}
		lookup[title] = scoreEntry{score: score, scored: scored, reasoning: reasoning}
	}

	return lookup, nil
}

// coerceScore accepts JSON numbers and numeric strings; anything else leaves the article unscored.
func coerceScore(value any) (float64, bool) {
	var score float64
	switch v := value.(type) {
	case float64:
		score = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		score = parsed
	default:
		return 0, false
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, false
	}
	return score, true
}

func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```")
	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[nl+1:]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
