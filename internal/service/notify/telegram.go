package notify

import (
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"

	"NovaChat/entity"
	"NovaChat/internal/config"
	"NovaChat/internal/lib/sl"
)

// Notifier pushes operational alerts to the support team's Telegram chat.
type Notifier struct {
	api    *tgbotapi.Bot
	chatId int64
	log    *slog.Logger
}

// NewNotifier creates the Telegram notifier, or returns nil when disabled.
func NewNotifier(conf *config.Config, logger *slog.Logger) (*Notifier, error) {
	if !conf.Telegram.Enabled {
		return nil, nil
	}

	api, err := tgbotapi.NewBot(conf.Telegram.ApiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}

	return &Notifier{
		api:    api,
		chatId: conf.Telegram.ChatId,
		log:    logger.With(sl.Module("notify")),
	}, nil
}

// NotifyHandoff alerts the team that a visitor asked for a human agent.
func (n *Notifier) NotifyHandoff(sess entity.ChatSession) {
	if n == nil {
		return
	}

	name := sess.VisitorName
	if name == "" {
		name = sess.VisitorID
	}
	n.send(fmt.Sprintf(
		"*Human agent requested*\nVisitor: %s\nTenant: %s\nSession: `%s`",
		name, sess.TenantID, sess.ID,
	))
}

// NotifySessionStarted alerts the team that a new conversation opened.
func (n *Notifier) NotifySessionStarted(sess entity.ChatSession) {
	if n == nil {
		return
	}

	name := sess.VisitorName
	if name == "" {
		name = sess.VisitorID
	}
	n.send(fmt.Sprintf(
		"*New chat session*\nVisitor: %s\nTenant: %s\nSession: `%s`",
		name, sess.TenantID, sess.ID,
	))
}

func (n *Notifier) send(text string) {
	// Telegram's legacy markdown chokes on double asterisks
	text = strings.ReplaceAll(text, "**", "*")

	_, err := n.api.SendMessage(n.chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "Markdown",
	})
	if err != nil {
		n.log.Error("send telegram notification", sl.Err(err))
	}
}
