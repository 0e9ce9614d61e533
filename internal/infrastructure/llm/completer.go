package llm

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go/option"

	"NewsDigest/internal/config"
	"NewsDigest/internal/ports"
)

// NewCompleter picks the chat backend for the configured scoring provider.
func NewCompleter(cfg config.ScoringConfig, client *http.Client) (ports.ChatCompleter, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", config.ProviderOpenAI:
		return NewChatGPTClient(cfg, client), nil
	case config.ProviderAnthropic:
		var opts []option.RequestOption
		if client != nil {
			opts = append(opts, option.WithHTTPClient(client))
		}
		return NewAnthropicClient(cfg, opts...), nil
	default:
		return nil, fmt.Errorf("unknown scoring provider %q", cfg.Provider)
	}
}
