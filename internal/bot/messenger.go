// Package bot connects the conversation engine to Telegram.
package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	"github.com/Jahongir0126/notificate-bot/core/telegram/keyboard"
	"github.com/Jahongir0126/notificate-bot/core/telegram/middleware"
	"github.com/Jahongir0126/notificate-bot/core/telegram/sender"
	"github.com/Jahongir0126/notificate-bot/internal/messaging"
)

// API is the part of *tele.Bot used to deliver messages.
type API interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Messenger delivers engine replies through the ordered outbound dispatcher.
type Messenger struct {
	api        API
	dispatcher *sender.Dispatcher
}

var _ messaging.Messenger = (*Messenger)(nil)

// NewMessenger wraps api; every send goes through d.
func NewMessenger(api API, d *sender.Dispatcher) *Messenger {
	return &Messenger{api: api, dispatcher: d}
}

// Send waits until Telegram accepted the message, retries are exhausted or ctx ends.
func (m *Messenger) Send(ctx context.Context, chatID int64, text string, kb *messaging.Keyboard) error {
	markup := Markup(kb)
	err := m.dispatcher.Send(ctx, chatID, "send_message", func() error {
		var opts []interface{}
		if markup != nil {
			opts = append(opts, markup)
		}
		_, err := m.api.Send(tele.ChatID(chatID), text, opts...)
		return err
	})
	if err != nil {
		return err
	}
	middleware.CountSent(ctx, markup != nil)
	return nil
}

// Markup converts a keyboard description into telebot markup. Inline rows
// win when both kinds are set; nil means no markup.
func Markup(kb *messaging.Keyboard) *tele.ReplyMarkup {
	if kb == nil {
		return nil
	}
	if len(kb.Inline) > 0 {
		rows := make([][]keyboard.InlineBtn, 0, len(kb.Inline))
		for _, row := range kb.Inline {
			r := make([]keyboard.InlineBtn, 0, len(row))
			for _, b := range row {
				r = append(r, keyboard.InlineBtn{Text: b.Text, Data: b.Token})
			}
			rows = append(rows, r)
		}
		return keyboard.Inline(rows...)
	}
	if len(kb.Reply) > 0 {
		rows := make([][]keyboard.ReplyBtn, 0, len(kb.Reply))
		for _, row := range kb.Reply {
			r := make([]keyboard.ReplyBtn, 0, len(row))
			for _, b := range row {
				r = append(r, keyboard.ReplyBtn{Text: b.Text, Contact: b.RequestContact})
			}
			rows = append(rows, r)
		}
		return keyboard.Reply(kb.OneTime, rows...)
	}
	return nil
}
