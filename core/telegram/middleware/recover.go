package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/Jahongir0126/notificate-bot/core/logger"
	tghelpers "github.com/Jahongir0126/notificate-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Recover catches handler panics, logs them and runs onPanic so the user still gets a reply.
func Recover(onPanic tele.HandlerFunc) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				ctx := tghelpers.BuildContext(c)
				logger.LogEvent(ctx, logger.TG, slog.LevelError, "tg.panic",
					slog.String("status", "fail"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
				err = fmt.Errorf("panic in handler: %v", r)
				if onPanic != nil {
					_ = onPanic(c)
				}
			}()
			return next(c)
		}
	}
}

// RecoverMiddleware is Recover without a user-facing reply.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return Recover(nil)(next)
}
