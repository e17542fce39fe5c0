package router

import (
	"log/slog"
	"time"

	"github.com/Jahongir0126/notificate-bot/core/logger"
	tg "github.com/Jahongir0126/notificate-bot/core/telegram"

	tele "gopkg.in/telebot.v4"
)

// CommandRoutes binds every registered slash command to its handler with a summary log.
// Role checks belong to the handlers; AdminOnly only hides a command from the menu.
func CommandRoutes(reg *tg.Registry) []tg.Route {
	if reg == nil {
		return nil
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for name, def := range reg.Commands() {
		h := def.Handler
		handlerName := normalizeHandlerName(name)
		routes = append(routes, tg.Route{
			Endpoint: name,
			Handler: func(c tele.Context) error {
				return handleWithSummary(c, handlerName, time.Now(), func() error {
					return h(c)
				})
			},
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
