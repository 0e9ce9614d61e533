package domain

import "time"

// Article is a single headline normalized from a provider record.
// Score and Reasoning stay nil until a scorer annotates the article.
type Article struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	URL         string     `json:"url"`
	PublishedAt *time.Time `json:"published_at"`
	SourceName  *string    `json:"source"`
	Score       *float64   `json:"score"`
	Reasoning   *string    `json:"reasoning"`
}

// DescriptionText returns the description or an empty string when absent.
func (a Article) DescriptionText() string {
	if a.Description == nil {
		return ""
	}
	return *a.Description
}

// Scored reports whether a scorer assigned a score to the article.
func (a Article) Scored() bool {
	return a.Score != nil
}

// WithScore returns a copy of the article annotated with score and reasoning.
func (a Article) WithScore(score float64, reasoning string) Article {
	a.Score = &score
	a.Reasoning = &reasoning
	return a
}

// DigestResponse is the envelope returned for one digest request.
type DigestResponse struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Topic       string       `json:"topic"`
	Country     string       `json:"country"`
	ScoringMode *ScoringMode `json:"scoring_mode"`
	Items       []Article    `json:"items"`
}
