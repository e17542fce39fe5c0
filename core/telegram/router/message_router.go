package router

import (
	"log/slog"
	"time"

	tg "github.com/Jahongir0126/notificate-bot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// MessageOptions supplies handlers for message updates that are not commands.
type MessageOptions struct {
	// OnContact receives shared contacts.
	OnContact tele.HandlerFunc
}

// MessageRoutes routes plain text through registered command aliases and then the
// registry's text fallback, and shared contacts to opts.OnContact.
func MessageRoutes(reg *tg.Registry, opts MessageOptions) []tg.Route {
	text := func(c tele.Context) error {
		start := time.Now()

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(c.Text()); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(key), start, func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "text", start, func() error {
					return fb(c)
				})
			}
		}

		logHandlerSummary(c, "unknown_text", start, "skip", nil)
		return nil
	}

	routes := []tg.Route{{Endpoint: tele.OnText, Handler: text}}
	if opts.OnContact != nil {
		routes = append(routes, tg.Route{
			Endpoint: tele.OnContact,
			Handler: func(c tele.Context) error {
				return handleWithSummary(c, "contact", time.Now(), func() error {
					return opts.OnContact(c)
				}, slog.Bool("contact", true))
			},
		})
	}
	return routes
}
