package middleware

import (
	"context"
	"sync/atomic"

	tghelpers "github.com/Jahongir0126/notificate-bot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

type countersKey struct{}

// Counters tracks outbound messages produced while handling one update.
type Counters struct {
	messages atomic.Int32
	keyboard atomic.Bool
}

// WithCounters returns ctx carrying counters.
func WithCounters(ctx context.Context, counters *Counters) context.Context {
	return context.WithValue(ctx, countersKey{}, counters)
}

// CountSent records one delivered message on the counters carried by ctx, if any.
func CountSent(ctx context.Context, withKeyboard bool) {
	counters, _ := ctx.Value(countersKey{}).(*Counters)
	if counters == nil {
		return
	}
	counters.messages.Add(1)
	if withKeyboard {
		counters.keyboard.Store(true)
	}
}

// MessageMetricsMiddleware attaches fresh counters to the request context.
func MessageMetricsMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		ctx := tghelpers.BuildContext(c)
		tghelpers.StoreContext(c, WithCounters(ctx, &Counters{}))
		return next(c)
	}
}

// GetCounters reads message count and keyboard presence for the current update.
func GetCounters(c tele.Context) (int, bool) {
	ctx, ok := tghelpers.ContextFrom(c)
	if !ok {
		return 0, false
	}
	counters, _ := ctx.Value(countersKey{}).(*Counters)
	if counters == nil {
		return 0, false
	}
	return int(counters.messages.Load()), counters.keyboard.Load()
}
