package bot

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"life-dashboard/internal/logger"
	"life-dashboard/internal/service"
)

// Notifier delivers notifications to one Telegram chat. A second notification
// with the same key deletes the earlier message first, so the chat holds at
// most one message per key.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger

	mu       sync.Mutex
	messages map[uint]int
}

// New connects to the Bot API with token.
func New(token string, chatID int64, log *logger.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newNotifier(api, chatID, log), nil
}

// NewWithEndpoint is New against a custom Bot API endpoint, e.g. a local Bot API server.
func NewWithEndpoint(token, endpoint string, client tgbotapi.HTTPClient, chatID int64, log *logger.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}
	return newNotifier(api, chatID, log), nil
}

func newNotifier(api *tgbotapi.BotAPI, chatID int64, log *logger.Logger) *Notifier {
	log.Infow("bot authorized", "account", api.Self.UserName)
	return &Notifier{
		api:      api,
		chatID:   chatID,
		log:      log,
		messages: make(map[uint]int),
	}
}

var _ service.Notifier = (*Notifier)(nil)

func (n *Notifier) Notify(_ context.Context, key uint, msg service.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if prev, ok := n.messages[key]; ok {
		if _, err := n.api.Request(tgbotapi.NewDeleteMessage(n.chatID, prev)); err != nil {
			// Old messages can no longer be deleted after 48h; send anyway.
			n.log.Warnw("delete previous notification", "key", key, "message_id", prev, "error", err)
		}
		delete(n.messages, key)
	}

	out := tgbotapi.NewMessage(n.chatID, formatNotification(msg))
	out.ParseMode = tgbotapi.ModeHTML
	sent, err := n.api.Send(out)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	n.messages[key] = sent.MessageID
	return nil
}

func formatNotification(msg service.Notification) string {
	var sb strings.Builder
	if title := strings.TrimSpace(msg.Title); title != "" {
		sb.WriteString("🔔 <b>")
		sb.WriteString(html.EscapeString(title))
		sb.WriteString("</b>\n")
	}
	sb.WriteString(html.EscapeString(strings.TrimSpace(msg.Text)))
	return sb.String()
}
