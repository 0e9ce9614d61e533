package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"NewsDigest/internal/config"
	"NewsDigest/internal/logging"
	"NewsDigest/internal/ports"
)

// maxMessageLen is the Telegram limit for a single text message.
const maxMessageLen = 4096

// Notifier sends digests to a Telegram chat via bot API.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier authenticates the bot and binds the target chat.
// An empty endpoint selects the public Telegram API.
func NewNotifier(cfg config.TelegramConfig, endpoint string, client *http.Client, logger *slog.Logger) (*Notifier, error) {
	if !cfg.Enabled() {
		return nil, errors.New("telegram notifier misconfigured")
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(cfg.ChatID), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse telegram chat id: %w", err)
	}

	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.BotToken, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}

	return &Notifier{api: api, chatID: chatID, logger: logging.OrDiscard(logger)}, nil
}

// PublishDigest posts the digest as plain text, split to fit the message limit.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if strings.TrimSpace(digest) == "" {
		return nil
	}

	for i, chunk := range splitMessage(digest, maxMessageLen) {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(n.chatID, chunk)
		msg.DisableWebPagePreview = true
		sent, err := n.api.Send(msg)
		if err != nil {
			return fmt.Errorf("send message part %d: %w", i+1, err)
		}
		n.logger.Debug("telegram message sent", "chat_id", n.chatID, "message_id", sent.MessageID)
	}

	return nil
}

// splitMessage cuts text on line boundaries so that no part exceeds limit runes.
func splitMessage(text string, limit int) []string {
	var parts []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if part := strings.TrimRight(current.String(), "\n"); part != "" {
			parts = append(parts, part)
		}
		current.Reset()
		currentLen = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		runes := []rune(line)
		for len(runes) > limit {
			flush()
			parts = append(parts, string(runes[:limit]))
			runes = runes[limit:]
		}
		if currentLen+len(runes) > limit {
			flush()
		}
		current.WriteString(string(runes))
		currentLen += len(runes)
	}
	flush()

	return parts
}
