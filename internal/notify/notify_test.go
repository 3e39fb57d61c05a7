// internal/notify/notify_test.go
package notify

import (
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/akashkhedar/datamanager/internal/events"
	"github.com/akashkhedar/datamanager/internal/types"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, nil
}

func TestSubmitNotification(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(sender, 42)
	bus := events.NewEmitter()
	n.Attach(bus)
	defer n.Detach()

	bus.Emit("sf:submitAnnotation", &types.Annotation{PK: "30"})
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}
	msg := sender.sent[0]
	if msg.ChatID != 42 {
		t.Fatalf("ChatID = %d", msg.ChatID)
	}
	if msg.Text != "Annotation 30 submitted" {
		t.Fatalf("Text = %q", msg.Text)
	}
}

func TestSubmitWithoutAnnotationArg(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(sender, 1)
	bus := events.NewEmitter()
	n.Attach(bus)

	bus.Emit("sf:submitAnnotation")
	if len(sender.sent) != 1 || sender.sent[0].Text != "Annotation submitted" {
		t.Fatalf("sent = %+v", sender.sent)
	}
}

func TestSkipAndQueueEmpty(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(sender, 1)
	bus := events.NewEmitter()
	n.Attach(bus)

	bus.Emit("sf:skipTask")
	bus.Emit("sf:queueEmpty")
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sender.sent))
	}
	if sender.sent[0].Text != "Task skipped" {
		t.Fatalf("first = %q", sender.sent[0].Text)
	}
	if sender.sent[1].Text != "Labeling queue exhausted" {
		t.Fatalf("second = %q", sender.sent[1].Text)
	}
}

func TestDetachStopsNotifications(t *testing.T) {
	sender := &fakeSender{}
	n := NewWithSender(sender, 1)
	bus := events.NewEmitter()
	n.Attach(bus)
	n.Detach()

	bus.Emit("sf:skipTask")
	if len(sender.sent) != 0 {
		t.Fatalf("sent after detach: %+v", sender.sent)
	}
}

func TestSplitMessage(t *testing.T) {
	short := splitMessage("hello")
	if len(short) != 1 || short[0] != "hello" {
		t.Fatalf("short = %v", short)
	}

	long := strings.Repeat("x", maxTelegramMessage+10)
	parts := splitMessage(long)
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	if len(parts[0]) != maxTelegramMessage || len(parts[1]) != 10 {
		t.Fatalf("part lengths = %d, %d", len(parts[0]), len(parts[1]))
	}
}
