package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"NewsDigest/internal/domain"
)

const (
	defaultTimezone     = "UTC"
	defaultNewsEndpoint = "https://newsapi.org/v2/top-headlines"
	defaultChatEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultOpenAIModel  = "gpt-4o-mini"
	defaultClaudeModel  = "claude-haiku-4-5"

	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	configPathEnv      = "NEWSDIGEST_CONFIG"
	newsAPIKeyEnv      = "NEWSAPI_KEY"
	newsAPIEndpointEnv = "NEWSAPI_ENDPOINT"
	newsAPISampleEnv   = "NEWSAPI_SAMPLE_PATH"
	newsAPICountryEnv  = "NEWSAPI_COUNTRY"
	newsTopicEnv       = "NEWS_TOPIC"
	maxHeadlinesEnv    = "MAX_HEADLINES"
	scoringEnabledEnv  = "LLM_SCORING_ENABLED"
	scoringProviderEnv = "SCORING_PROVIDER"
	openAIKeyEnv       = "OPENAI_API_KEY"
	openAIModelEnv     = "OPENAI_MODEL"
	openAIEndpointEnv  = "OPENAI_ENDPOINT"
	anthropicKeyEnv    = "ANTHROPIC_API_KEY"
	anthropicModelEnv  = "ANTHROPIC_MODEL"
	serviceTokenEnv    = "SERVICE_TOKEN"
	httpAddrEnv        = "HTTP_ADDR"
	logLevelEnv        = "LOG_LEVEL"
	logFormatEnv       = "LOG_FORMAT"
	digestCronEnv      = "DIGEST_CRON"
	digestTimezoneEnv  = "DIGEST_TIMEZONE"
	telegramTokenEnv   = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Server        ServerConfig       `yaml:"server"`
	Provider      ProviderConfig     `yaml:"provider"`
	Digest        DigestConfig       `yaml:"digest"`
	Scoring       ScoringConfig      `yaml:"scoring"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
	Notifications NotificationConfig `yaml:"notifications"`
}

// LoggingConfig selects slog level and handler format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig describes the inbound HTTP endpoint.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	ServiceToken string `yaml:"serviceToken"`
}

// ProviderConfig groups settings for the headline source.
type ProviderConfig struct {
	APIKey     string        `yaml:"apiKey"`
	Endpoint   string        `yaml:"endpoint"`
	SamplePath string        `yaml:"samplePath"`
	Timeout    time.Duration `yaml:"timeout"`
}

// DigestConfig holds the default query and size of a digest.
type DigestConfig struct {
	Country      string `yaml:"country"`
	Topic        string `yaml:"topic"`
	MaxHeadlines int    `yaml:"maxHeadlines"`
}

// ScoringConfig defines whether and how headlines are scored.
// Topic is filled per request from the effective digest topic.
type ScoringConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Provider string `yaml:"provider"`
	APIKey   string `yaml:"apiKey"`
	Model    string `yaml:"model"`
	Endpoint string `yaml:"endpoint"`
	Topic    string `yaml:"-"`
}

// HasCredential reports whether a remote scorer credential is configured.
func (s ScoringConfig) HasCredential() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// SchedulerConfig defines when scheduled digests are delivered.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// NotificationConfig encapsulates outbound channels (Telegram, etc.).
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// Enabled reports whether both bot token and chat are configured.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Load reads YAML configuration (if present), applies environment overrides and validates the result.
func Load() (Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.bindTimezone()

	if err := cfg.Settings().Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Settings returns the effective per-request configuration derived from c.
func (c Config) Settings() Settings {
	return Settings{
		Provider: c.Provider,
		Digest:   c.Digest,
		Scoring:  c.Scoring,
	}
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Provider.APIKey, newsAPIKeyEnv)
	setString(&c.Provider.Endpoint, newsAPIEndpointEnv)
	setString(&c.Provider.SamplePath, newsAPISampleEnv)
	setString(&c.Digest.Country, newsAPICountryEnv)
	setString(&c.Digest.Topic, newsTopicEnv)

	if v := strings.TrimSpace(os.Getenv(maxHeadlinesEnv)); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return &domain.ConfigurationError{Setting: maxHeadlinesEnv, Reason: "must be an integer"}
		}
		c.Digest.MaxHeadlines = n
	}

	if v, ok := os.LookupEnv(scoringEnabledEnv); ok {
		c.Scoring.Enabled = parseBool(v)
	}

	setString(&c.Scoring.Provider, scoringProviderEnv)
	c.Scoring.Provider = strings.ToLower(strings.TrimSpace(c.Scoring.Provider))

	switch c.Scoring.Provider {
	case ProviderAnthropic:
		setString(&c.Scoring.APIKey, anthropicKeyEnv)
		setString(&c.Scoring.Model, anthropicModelEnv)
		if c.Scoring.Model == "" || c.Scoring.Model == defaultOpenAIModel {
			c.Scoring.Model = defaultClaudeModel
		}
		if c.Scoring.Endpoint == defaultChatEndpoint {
			c.Scoring.Endpoint = ""
		}
	default:
		setString(&c.Scoring.APIKey, openAIKeyEnv)
		setString(&c.Scoring.Model, openAIModelEnv)
		setString(&c.Scoring.Endpoint, openAIEndpointEnv)
	}

	setString(&c.Server.ServiceToken, serviceTokenEnv)
	setString(&c.Server.Addr, httpAddrEnv)
	setString(&c.Logging.Level, logLevelEnv)
	setString(&c.Logging.Format, logFormatEnv)
	setString(&c.Scheduler.CronExpression, digestCronEnv)
	setString(&c.Scheduler.Timezone, digestTimezoneEnv)
	setString(&c.Notifications.Telegram.BotToken, telegramTokenEnv)
	setString(&c.Notifications.Telegram.ChatID, telegramChatIDEnv)

	return nil
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func setString(dst *string, env string) {
	if v := os.Getenv(env); v != "" {
		*dst = v
	}
}

func parseBool(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.ServiceToken != "" {
		base.Server.ServiceToken = override.Server.ServiceToken
	}

	if override.Provider.APIKey != "" {
		base.Provider.APIKey = override.Provider.APIKey
	}
	if override.Provider.Endpoint != "" {
		base.Provider.Endpoint = override.Provider.Endpoint
	}
	if override.Provider.SamplePath != "" {
		base.Provider.SamplePath = override.Provider.SamplePath
	}
	if override.Provider.Timeout > 0 {
		base.Provider.Timeout = override.Provider.Timeout
	}

	if override.Digest.Country != "" {
		base.Digest.Country = override.Digest.Country
	}
	if override.Digest.Topic != "" {
		base.Digest.Topic = override.Digest.Topic
	}
	if override.Digest.MaxHeadlines != 0 {
		base.Digest.MaxHeadlines = override.Digest.MaxHeadlines
	}

	if override.Scoring.Enabled {
		base.Scoring.Enabled = true
	}
	if override.Scoring.Provider != "" {
		base.Scoring.Provider = override.Scoring.Provider
	}
	if override.Scoring.APIKey != "" {
		base.Scoring.APIKey = override.Scoring.APIKey
	}
	if override.Scoring.Model != "" {
		base.Scoring.Model = override.Scoring.Model
	}
	if override.Scoring.Endpoint != "" {
		base.Scoring.Endpoint = override.Scoring.Endpoint
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Server:  ServerConfig{Addr: ":8080"},
		Provider: ProviderConfig{
			Endpoint: defaultNewsEndpoint,
			Timeout:  15 * time.Second,
		},
		Digest: DigestConfig{
			Country:      "us",
			Topic:        "technology",
			MaxHeadlines: 5,
		},
		Scoring: ScoringConfig{
			Provider: ProviderOpenAI,
			Model:    defaultOpenAIModel,
			Endpoint: defaultChatEndpoint,
		},
		Scheduler: SchedulerConfig{Timezone: defaultTimezone, location: tz},
	}
}
