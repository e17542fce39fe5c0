package telegram

import (
	"time"

	coreconfig "github.com/Jahongir0126/notificate-bot/core/config"
	"github.com/Jahongir0126/notificate-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// MiddlewareHooks supplies the user-facing replies of the shared middleware chain.
type MiddlewareHooks struct {
	OnPanic   tele.HandlerFunc
	OnLimited tele.HandlerFunc
}

// DefaultMiddlewares builds the shared chain: request context and receipt log,
// outbound counters, panic recovery and the optional per-user rate limit.
func DefaultMiddlewares(cfg *coreconfig.Config, hooks MiddlewareHooks) []Middleware {
	mws := []Middleware{
		{Name: "logger", Use: middleware.LoggerMiddleware},
		{Name: "metrics", Use: middleware.MessageMetricsMiddleware},
		{Name: "recover", Use: middleware.Recover(hooks.OnPanic)},
	}

	if cfg != nil && cfg.RateLimit.IntervalMS > 0 {
		ex := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
		for _, t := range cfg.RateLimit.ExcludeUpdates {
			ex[t] = struct{}{}
		}
		mws = append(mws, Middleware{
			Name: "rate_limit",
			Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
				Interval:  time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
				Exclude:   ex,
				OnLimited: hooks.OnLimited,
			}),
		})
	}
	return mws
}
