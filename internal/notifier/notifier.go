// Package notifier sends the daily visa expiry alert to the admin chat.
package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Jahongir0126/notificate-bot/core/logger"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
	"github.com/Jahongir0126/notificate-bot/internal/messaging"
	"github.com/Jahongir0126/notificate-bot/internal/report"
)

const (
	DefaultSchedule  = "0 9 * * *"
	DefaultTimezone  = "Asia/Tashkent"
	DefaultDaysAhead = 3

	runTimeout = 2 * time.Minute
)

// Lister is the read side of the record store the notifier needs.
type Lister interface {
	ListExpiring(ctx context.Context, days int) ([]domain.UserRecord, error)
}

// Config controls when and where alerts go.
type Config struct {
	// Schedule is a five-field cron expression or a cron descriptor.
	Schedule  string
	Location  *time.Location
	DaysAhead int
	ChatID    int64
}

// Notifier runs the expiry check on a cron schedule. It only reads the store
// and writes to the messenger.
type Notifier struct {
	store  Lister
	out    messaging.Messenger
	render report.Renderer
	cfg    Config
	cron   *cron.Cron
}

// New validates cfg and builds a stopped Notifier.
func New(store Lister, out messaging.Messenger, cfg Config) (*Notifier, error) {
	if store == nil || out == nil {
		return nil, errors.New("notifier: store and messenger are required")
	}
	if cfg.ChatID == 0 {
		return nil, errors.New("notifier: admin chat id is required")
	}
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("notifier: schedule %q: %w", cfg.Schedule, err)
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DaysAhead <= 0 {
		cfg.DaysAhead = DefaultDaysAhead
	}
	return &Notifier{store: store, out: out, render: report.NewRenderer(cfg.Location), cfg: cfg}, nil
}

// RunOnce queries records expiring within DaysAhead and, when there are any,
// sends the alert. It reports how many records were announced.
func (n *Notifier) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	recs, err := n.store.ListExpiring(ctx, n.cfg.DaysAhead)
	if err != nil {
		n.logRun(ctx, start, 0, err)
		return 0, fmt.Errorf("notifier: list expiring: %w", err)
	}
	if len(recs) == 0 {
		n.logRun(ctx, start, 0, nil)
		return 0, nil
	}
	for _, text := range n.render.Notification(recs) {
		if err := n.out.Send(ctx, n.cfg.ChatID, text, nil); err != nil {
			n.logRun(ctx, start, len(recs), err)
			return 0, fmt.Errorf("notifier: send: %w", err)
		}
	}
	n.logRun(ctx, start, len(recs), nil)
	return len(recs), nil
}

func (n *Notifier) logRun(ctx context.Context, start time.Time, count int, err error) {
	level := slog.LevelInfo
	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.Int("days_ahead", n.cfg.DaysAhead),
		slog.Int("count", count),
		slog.Int64("chat_id", n.cfg.ChatID),
		slog.Duration("duration", logger.Took(start)),
	}
	if err != nil {
		level = slog.LevelError
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.LogEvent(ctx, logger.Notify, level, "notify.run", attrs...)
}

// Start schedules RunOnce. Each run gets its own timeout derived from ctx.
// Overlapping runs are skipped and panics are recovered.
func (n *Notifier) Start(ctx context.Context) error {
	if n.cron != nil {
		return errors.New("notifier: already started")
	}
	cl := cronLogger{log: logger.Notify}
	c := cron.New(
		cron.WithLocation(n.cfg.Location),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	base := context.WithoutCancel(ctx)
	if _, err := c.AddFunc(n.cfg.Schedule, func() {
		runCtx, cancel := context.WithTimeout(base, runTimeout)
		defer cancel()
		_, _ = n.RunOnce(runCtx)
	}); err != nil {
		return fmt.Errorf("notifier: schedule: %w", err)
	}
	c.Start()
	n.cron = c
	logger.LogEvent(ctx, logger.Notify, slog.LevelInfo, "notify.start",
		slog.String("schedule", n.cfg.Schedule),
		slog.String("timezone", n.cfg.Location.String()),
		slog.Int("days_ahead", n.cfg.DaysAhead),
	)
	return nil
}

// Stop halts the scheduler and waits for a running check or ctx.
func (n *Notifier) Stop(ctx context.Context) error {
	if n.cron == nil {
		return nil
	}
	done := n.cron.Stop().Done()
	n.cron = nil
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the next scheduled run, or the zero time when stopped.
func (n *Notifier) Next() time.Time {
	if n.cron == nil {
		return time.Time{}
	}
	entries := n.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	log *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	args := append([]interface{}{"err", err}, keysAndValues...)
	l.log.Error("cron "+msg, args...)
}
