package keyboard

import tele "gopkg.in/telebot.v4"

// ReplyBtn is a reply keyboard button; Contact asks the client to share the user's phone.
type ReplyBtn struct {
	Text    string
	Contact bool
}

// InlineBtn is an inline button carrying raw callback data.
type InlineBtn struct {
	Text string
	Data string
}

// Reply builds a resized reply keyboard; oneTime hides it after the first press.
func Reply(oneTime bool, rows ...[]ReplyBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: oneTime}
	keyboard := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.Btn, 0, len(row))
		for _, b := range row {
			if b.Contact {
				buttons = append(buttons, markup.Contact(b.Text))
			} else {
				buttons = append(buttons, markup.Text(b.Text))
			}
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// Inline builds an inline keyboard whose buttons send their Data verbatim.
// Telegram caps callback data at 64 bytes.
func Inline(rows ...[]InlineBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, 0, len(rows))
	for _, row := range rows {
		r := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			r = append(r, tele.InlineButton{Text: b.Text, Data: b.Data})
		}
		inline = append(inline, r)
	}
	markup.InlineKeyboard = inline
	return markup
}
