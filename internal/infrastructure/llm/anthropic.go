package llm

import (
	"context"
	"fmt"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"NewsDigest/internal/config"
	"NewsDigest/internal/ports"
)

const anthropicMaxTokens = 4096

// AnthropicClient implements ports.ChatCompleter with the Anthropic Messages API.
type AnthropicClient struct {
	client sdk.Client
	apiKey string
}

var _ ports.ChatCompleter = (*AnthropicClient)(nil)

// NewAnthropicClient builds an SDK-backed client. Retries are disabled so that
// one digest request issues at most one scoring call.
func NewAnthropicClient(cfg config.ScoringConfig, opts ...option.RequestOption) *AnthropicClient {
	base := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		base = append(base, option.WithBaseURL(cfg.Endpoint))
	}
	return &AnthropicClient{
		client: sdk.NewClient(append(base, opts...)...),
		apiKey: cfg.APIKey,
	}
}

// Complete sends one message and joins the text blocks of the reply.
func (c *AnthropicClient) Complete(ctx context.Context, req ports.ChatRequest) (string, error) {
	if c == nil {
		return "", fmt.Errorf("anthropic client is nil")
	}
	if c.apiKey == "" || req.Model == "" {
		return "", fmt.Errorf("anthropic client misconfigured")
	}

	params := sdk.MessageNewParams{
		Model:       sdk.Model(req.Model),
		MaxTokens:   anthropicMaxTokens,
		Messages:    []sdk.MessageParam{sdk.NewUserMessage(sdk.NewTextBlock(req.User))},
		Temperature: sdk.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []sdk.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic: create message: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}
