package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"NewsDigest/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, newsAPIKeyEnv, newsAPIEndpointEnv, newsAPISampleEnv, newsAPICountryEnv,
		newsTopicEnv, maxHeadlinesEnv, scoringEnabledEnv, scoringProviderEnv, openAIKeyEnv,
		openAIModelEnv, openAIEndpointEnv, anthropicKeyEnv, anthropicModelEnv, serviceTokenEnv,
		httpAddrEnv, logLevelEnv, logFormatEnv, digestCronEnv, digestTimezoneEnv,
		telegramTokenEnv, telegramChatIDEnv,
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_MissingSourceIsConfigurationError(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, newsAPIKeyEnv, cfgErr.Setting)
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(newsAPIKeyEnv, "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "key", cfg.Provider.APIKey)
	assert.Equal(t, defaultNewsEndpoint, cfg.Provider.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "us", cfg.Digest.Country)
	assert.Equal(t, "technology", cfg.Digest.Topic)
	assert.Equal(t, 5, cfg.Digest.MaxHeadlines)
	assert.False(t, cfg.Scoring.Enabled)
	assert.Equal(t, ProviderOpenAI, cfg.Scoring.Provider)
	assert.Equal(t, defaultOpenAIModel, cfg.Scoring.Model)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "UTC", cfg.Scheduler.Location().String())
}

func TestLoad_MaxHeadlinesValidation(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "zero", value: "0"},
		{name: "negative", value: "-3"},
		{name: "not a number", value: "five"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(newsAPISampleEnv, "/tmp/sample.json")
			t.Setenv(maxHeadlinesEnv, tt.value)

			_, err := Load()
			var cfgErr *domain.ConfigurationError
			require.True(t, errors.As(err, &cfgErr), "got %v", err)
			assert.Equal(t, maxHeadlinesEnv, cfgErr.Setting)
		})
	}
}

func TestLoad_ScoringFlag(t *testing.T) {
	for value, want := range map[string]bool{
		"1": true, "true": true, "YES": true, "on": true,
		"0": false, "false": false, "nope": false,
	} {
		t.Run(value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(newsAPIKeyEnv, "key")
			t.Setenv(scoringEnabledEnv, value)

			cfg, err := Load()
			require.NoError(t, err)
			assert.Equal(t, want, cfg.Scoring.Enabled)
		})
	}
}

func TestLoad_AnthropicProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv(newsAPIKeyEnv, "key")
	t.Setenv(scoringProviderEnv, "Anthropic")
	t.Setenv(anthropicKeyEnv, "sk-ant")
	t.Setenv(openAIKeyEnv, "sk-openai")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderAnthropic, cfg.Scoring.Provider)
	assert.Equal(t, "sk-ant", cfg.Scoring.APIKey)
	assert.Equal(t, defaultClaudeModel, cfg.Scoring.Model)
	assert.Empty(t, cfg.Scoring.Endpoint)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "newsdigest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  samplePath: /data/sample.json
  timeout: 3s
digest:
  country: gb
  topic: custody
  maxHeadlines: 8
scoring:
  enabled: true
scheduler:
  cronExpression: "0 7 * * *"
  timezone: Europe/London
`), 0o600))

	t.Setenv(configPathEnv, path)
	t.Setenv(newsTopicEnv, "bitcoin")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/sample.json", cfg.Provider.SamplePath)
	assert.Equal(t, 3*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, "gb", cfg.Digest.Country)
	assert.Equal(t, "bitcoin", cfg.Digest.Topic)
	assert.Equal(t, 8, cfg.Digest.MaxHeadlines)
	assert.True(t, cfg.Scoring.Enabled)
	assert.Equal(t, "0 7 * * *", cfg.Scheduler.CronExpression)
	assert.Equal(t, "Europe/London", cfg.Scheduler.Location().String())
}

func TestLoad_UnparsableFileFallsBackToDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("digest: [unclosed"), 0o600))
	t.Setenv(configPathEnv, path)
	t.Setenv(newsAPIKeyEnv, "key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "technology", cfg.Digest.Topic)
}

func TestSettingsOverride(t *testing.T) {
	base := Settings{
		Provider: ProviderConfig{APIKey: "key"},
		Digest:   DigestConfig{Country: "us", Topic: "technology", MaxHeadlines: 5},
		Scoring:  ScoringConfig{Enabled: true, APIKey: "sk"},
	}

	got := base.Override(Overrides{Topic: "  custody ", MaxHeadlines: 2})
	assert.Equal(t, "custody", got.Digest.Topic)
	assert.Equal(t, "us", got.Digest.Country)
	assert.Equal(t, 2, got.Digest.MaxHeadlines)
	assert.Equal(t, "technology", base.Digest.Topic, "base must not change")

	sc := got.ScoringConfig()
	assert.Equal(t, "custody", sc.Topic)
	assert.True(t, sc.HasCredential())
}

func TestSettingsValidate(t *testing.T) {
	valid := Settings{
		Provider: ProviderConfig{SamplePath: "sample.json"},
		Digest:   DigestConfig{MaxHeadlines: 1},
	}
	require.NoError(t, valid.Validate())

	negative := valid.Override(Overrides{MaxHeadlines: -1})
	var cfgErr *domain.ConfigurationError
	require.ErrorAs(t, negative.Validate(), &cfgErr)

	noSource := Settings{Digest: DigestConfig{MaxHeadlines: 1}}
	require.ErrorAs(t, noSource.Validate(), &cfgErr)
}
