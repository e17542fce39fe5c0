package callbacks

import (
	"strings"

	tele "gopkg.in/telebot.v4"
)

// ParseCallbackData splits Telebot's \f<unique>|<payload> encoding.
// Raw data without the marker is returned whole as the key.
func ParseCallbackData(cb *tele.Callback) (string, string) {
	if cb == nil {
		return "", ""
	}
	if cb.Unique != "" {
		return cb.Unique, cb.Data
	}
	raw := cb.Data
	if !strings.HasPrefix(raw, "\f") {
		return strings.TrimSpace(raw), ""
	}
	parts := strings.SplitN(strings.TrimPrefix(raw, "\f"), "|", 2)
	key := strings.TrimSpace(parts[0])
	payload := ""
	if len(parts) == 2 {
		payload = parts[1]
	}
	return key, payload
}

// Token returns the opaque callback token of the update, or "" for non-callback updates.
func Token(c tele.Context) string {
	key, payload := ParseCallbackData(c.Callback())
	if payload == "" {
		return key
	}
	return key + "|" + payload
}
