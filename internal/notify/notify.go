// internal/notify/notify.go
// Package notify pushes annotation-activity notifications to a Telegram
// chat. It subscribes to the DataManager event bus and forwards a short
// summary for each submit, skip and queue-exhaustion event.
package notify

import (
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/types"
)

const maxTelegramMessage = 4096

// sender is the slice of the bot API the notifier needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier forwards labeling activity from the event bus to Telegram.
type Notifier struct {
	bot    sender
	chatID int64
	subs   []subscription
}

type subscription struct {
	event string
	token string
	bus   *events.Emitter
}

// New dials the bot API with the given token.
func New(token string, chatID int64) (*Notifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// NewWithSender wires an existing sender, mainly for tests.
func NewWithSender(s sender, chatID int64) *Notifier {
	return &Notifier{bot: s, chatID: chatID}
}

// Attach subscribes the notifier to the bus events it reports on.
func (n *Notifier) Attach(bus *events.Emitter) {
	on := func(event string, fn events.Handler) {
		n.subs = append(n.subs, subscription{event, bus.On(event, fn), bus})
	}

	on("sf:submitAnnotation", func(args ...any) {
		if a, ok := firstAnnotation(args); ok {
			n.send(fmt.Sprintf("Annotation %s submitted", a.PK))
			return
		}
		n.send("Annotation submitted")
	})
	on("sf:skipTask", func(args ...any) {
		n.send("Task skipped")
	})
	on("sf:queueEmpty", func(args ...any) {
		n.send("Labeling queue exhausted")
	})
}

// Detach removes every bus subscription.
func (n *Notifier) Detach() {
	for _, s := range n.subs {
		s.bus.Off(s.event, s.token)
	}
	n.subs = nil
}

func (n *Notifier) send(text string) {
	for _, part := range splitMessage(text) {
		msg := tgbotapi.NewMessage(n.chatID, part)
		if _, err := n.bot.Send(msg); err != nil {
			slog.Warn("telegram notify failed", "error", err)
		}
	}
}

func splitMessage(text string) []string {
	if len(text) <= maxTelegramMessage {
		return []string{text}
	}
	var parts []string
	for len(text) > 0 {
		end := maxTelegramMessage
		if end > len(text) {
			end = len(text)
		}
		parts = append(parts, text[:end])
		text = text[end:]
	}
	return parts
}

func firstAnnotation(args []any) (*types.Annotation, bool) {
	if len(args) == 0 {
		return nil, false
	}
	a, ok := args[0].(*types.Annotation)
	return a, ok && a != nil
}
