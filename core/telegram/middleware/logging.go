package middleware

import (
	"log/slog"
	"time"

	"github.com/Jahongir0126/notificate-bot/core/logger"
	"github.com/Jahongir0126/notificate-bot/core/telegram/callbacks"
	tghelpers "github.com/Jahongir0126/notificate-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// LoggerMiddleware sets the rid and request context and logs one receipt line per update.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		chatID, userID := tghelpers.IDs(c)

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())
		ctx := tghelpers.BuildContext(c)

		if !logger.L.Enabled(ctx, slog.LevelDebug) {
			return next(c)
		}

		attrs := []slog.Attr{slog.String("status", "ok")}
		if chat := c.Chat(); chat != nil {
			attrs = append(attrs, slog.String("chat_type", string(chat.Type)))
		}
		if user := c.Sender(); user != nil {
			if user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
			if user.LanguageCode != "" {
				attrs = append(attrs, slog.String("lang", user.LanguageCode))
			}
		}

		switch {
		case upd.Callback != nil:
			if token := callbacks.Token(c); token != "" {
				attrs = append(attrs, slog.String("token", logger.SanitizeLimit(token, 128)))
			}
		case upd.Message != nil && upd.Message.Contact != nil:
			attrs = append(attrs, slog.String("payload", "contact"))
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.LogEvent(ctx, logger.TG, slog.LevelDebug, "update.received", attrs...)

		return next(c)
	}
}
