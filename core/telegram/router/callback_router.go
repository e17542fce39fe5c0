package router

import (
	"log/slog"
	"time"

	tg "github.com/Jahongir0126/notificate-bot/core/telegram"
	"github.com/Jahongir0126/notificate-bot/core/telegram/callbacks"

	tele "gopkg.in/telebot.v4"
)

// CallbackOptions customises fallback behaviour for callbacks.
type CallbackOptions struct {
	NotFound tele.HandlerFunc
}

// CallbackRoute acknowledges every callback and routes it through the registry by token.
func CallbackRoute(reg *tg.Registry, opts CallbackOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		token := callbacks.Token(c)
		// stops the client spinner even when the handler fails
		_ = c.Respond()

		key, cbHandler, ok := reg.ResolveCallback(token)
		name := "callback." + normalizeHandlerName(key)
		extras := []slog.Attr{slog.String("token", token)}
		if !ok {
			fallback := reg.CallbackNotFound()
			if fallback == nil {
				fallback = opts.NotFound
			}
			extras = append(extras, slog.String("reason", "not_found"))
			return handleWithSummary(c, "callback.unknown", start, func() error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, extras...)
		}

		return handleWithSummary(c, name, start, func() error {
			return cbHandler(c)
		}, extras...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}
