package config

import (
	"strings"

	"NewsDigest/internal/domain"
)

// Settings is the effective configuration for one digest request.
// It is built fresh per request and never shared between requests.
type Settings struct {
	Provider ProviderConfig
	Digest   DigestConfig
	Scoring  ScoringConfig
}

// Overrides carries caller-supplied values; empty or zero fields keep the base value.
type Overrides struct {
	Topic        string
	Country      string
	MaxHeadlines int
}

// Override returns a copy of s with the non-empty overrides applied.
func (s Settings) Override(o Overrides) Settings {
	if topic := strings.TrimSpace(o.Topic); topic != "" {
		s.Digest.Topic = topic
	}
	if country := strings.TrimSpace(o.Country); country != "" {
		s.Digest.Country = country
	}
	if o.MaxHeadlines != 0 {
		s.Digest.MaxHeadlines = o.MaxHeadlines
	}
	return s
}

// ScoringConfig returns the scoring configuration bound to the effective topic.
func (s Settings) ScoringConfig() ScoringConfig {
	sc := s.Scoring
	sc.Topic = s.Digest.Topic
	return sc
}

// Validate checks the preconditions that must hold before any I/O is attempted.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Provider.SamplePath) == "" && strings.TrimSpace(s.Provider.APIKey) == "" {
		return &domain.ConfigurationError{
			Setting: newsAPIKeyEnv,
			Reason:  "set " + newsAPIKeyEnv + " or " + newsAPISampleEnv + " to load news headlines",
		}
	}
	if s.Digest.MaxHeadlines <= 0 {
		return &domain.ConfigurationError{Setting: maxHeadlinesEnv, Reason: "must be positive"}
	}
	return nil
}
