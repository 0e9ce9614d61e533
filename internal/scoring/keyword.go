package scoring

import (
	"strings"

	"NewsDigest/internal/domain"
)

const (
	keywordFloor     = 0.1
	keywordCeiling   = 1.0
	neutralScore     = 0.5
	keywordReasoning = "Keyword heuristic score"
)

// KeywordScores rates each article by the share of distinct topic words found
// in its title and description. It performs no I/O and cannot fail.
func KeywordScores(articles []domain.Article, topic string) domain.ScoringOutcome {
	words := topicWords(topic)
	items := make([]domain.Article, len(articles))
	for i, article := range articles {
		items[i] = article.WithScore(keywordScore(article, words), keywordReasoning)
	}
	return domain.ScoringOutcome{Mode: domain.ModeKeyword, Items: items}
}

func keywordScore(article domain.Article, words map[string]struct{}) float64 {
	if len(words) == 0 {
		return neutralScore
	}

	haystack := strings.ToLower(article.Title + " " + article.DescriptionText())
	matches := 0
	for word := range words {
		if strings.Contains(haystack, word) {
			matches++
		}
	}

	score := float64(matches) / float64(max(1, len(words)))
	return min(keywordCeiling, max(keywordFloor, score))
}

func topicWords(topic string) map[string]struct{} {
	fields := strings.Fields(strings.ToLower(topic))
	words := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		words[field] = struct{}{}
	}
	return words
}
