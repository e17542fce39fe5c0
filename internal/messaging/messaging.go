// Package messaging is the contract between the conversation engine and a chat transport.
package messaging

import "context"

// Button is a reply keyboard button. RequestContact asks the client to share
// the user's phone number instead of sending Text.
type Button struct {
	Text           string
	RequestContact bool
}

// InlineButton carries an opaque token that comes back as a Callback.
type InlineButton struct {
	Text  string
	Token string
}

// Keyboard describes the markup attached to an outgoing message. A zero
// Keyboard leaves the client keyboard unchanged.
type Keyboard struct {
	Reply   [][]Button
	OneTime bool
	Inline  [][]InlineButton
}

// ReplyRows builds a one-button-per-row reply keyboard.
func ReplyRows(labels ...string) *Keyboard {
	rows := make([][]Button, 0, len(labels))
	for _, l := range labels {
		rows = append(rows, []Button{{Text: l}})
	}
	return &Keyboard{Reply: rows}
}

// Messenger delivers text to a chat. Send returns once the transport has
// acknowledged the message or ctx is done.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, kb *Keyboard) error
}

// Contact is a shared phone number.
type Contact struct {
	Phone  string
	UserID int64
}

// Message is an inbound text or contact message.
type Message struct {
	ChatID  int64
	UserID  int64
	Text    string
	Contact *Contact
}

// Callback is an inline button press.
type Callback struct {
	ChatID int64
	UserID int64
	Token  string
}
