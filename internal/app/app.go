package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	tele "gopkg.in/telebot.v4"

	"github.com/Jahongir0126/notificate-bot/core/bootstrap"
	coreconfig "github.com/Jahongir0126/notificate-bot/core/config"
	"github.com/Jahongir0126/notificate-bot/core/logger"
	tg "github.com/Jahongir0126/notificate-bot/core/telegram"
	"github.com/Jahongir0126/notificate-bot/core/telegram/sender"
	"github.com/Jahongir0126/notificate-bot/core/telegram/state"
	"github.com/Jahongir0126/notificate-bot/internal/bot"
	"github.com/Jahongir0126/notificate-bot/internal/conversation"
	"github.com/Jahongir0126/notificate-bot/internal/messaging"
	"github.com/Jahongir0126/notificate-bot/internal/notifier"
	"github.com/Jahongir0126/notificate-bot/internal/storage"
	"github.com/Jahongir0126/notificate-bot/internal/storage/migrations"
)

// App owns the database and the long-lived in-process state of the bot.
type App struct {
	cfg      *Config
	db       *sqlx.DB
	repo     *storage.Repository
	sessions *state.Memory[int64, conversation.Session]

	// NewBot builds the Telegram client; replaced in tests.
	NewBot func(*coreconfig.Config) (*tele.Bot, error)
}

// Bootstrap initializes logging, connects and migrates the database and
// seeds the bootstrap admin.
func Bootstrap(ctx context.Context, cfg *Config) (*App, error) {
	return bootstrapWith(ctx, cfg, bootstrap.Options{})
}

func bootstrapWith(ctx context.Context, cfg *Config, opts bootstrap.Options) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	opts.Config = &cfg.Config
	opts.Database = cfg.Database
	opts.Migrations = migrations.FS
	opts.Seeders = append(opts.Seeders, adminSeeder(cfg.Telegram.AdminID)...)

	res, err := bootstrap.Run(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:      cfg,
		db:       res.DB,
		repo:     storage.NewRepository(res.DB, storage.WithLocation(cfg.Location())),
		sessions: state.NewMemory[int64, conversation.Session](),
		NewBot:   tg.NewBot,
	}, nil
}

// adminSeeder grants the configured identity admin rights while no admin exists.
func adminSeeder(adminID int64) []bootstrap.Seeder {
	if adminID <= 0 {
		return nil
	}
	return []bootstrap.Seeder{bootstrap.SeederFunc{
		Label: "bootstrap_admin",
		Fn: func(ctx context.Context, db *sqlx.DB) error {
			seeded, err := storage.NewRepository(db).SeedAdmin(ctx, adminID)
			if err != nil {
				return err
			}
			status := "skip"
			if seeded {
				status = "ok"
			}
			logger.SEED.LogAttrs(ctx, slog.LevelInfo, "bootstrap admin",
				slog.String("event", "db.seed.admin"),
				slog.String("status", status),
				slog.Int64("admin_id", adminID),
			)
			return nil
		},
	}}
}

// Store exposes the record store.
func (a *App) Store() storage.Store {
	return a.repo
}

// TelegramRunOptions wires the engine, routes, middleware and the notifier
// lifecycle for the shared Telegram runner.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	client, err := a.NewBot(&a.cfg.Config)
	if err != nil {
		return tg.RunOptions{}, err
	}
	dispatcher := sender.NewDispatcher(sender.Options{MaxRetries: 2})
	messenger := bot.NewMessenger(client, dispatcher)

	engine, err := conversation.New(conversation.Options{
		Store:     a.repo,
		Sessions:  a.sessions,
		Messenger: messenger,
		Location:  a.cfg.Location(),
		CheckDays: a.cfg.Report.CheckDays,
	})
	if err != nil {
		dispatcher.Close()
		return tg.RunOptions{}, err
	}

	reg := tg.NewRegistry()
	if err := bot.Register(reg, engine); err != nil {
		dispatcher.Close()
		return tg.RunOptions{}, fmt.Errorf("app: register handlers: %w", err)
	}

	alerts, err := a.buildNotifier(messenger)
	if err != nil {
		dispatcher.Close()
		return tg.RunOptions{}, err
	}

	opts := tg.RunOptions{
		Config:      &a.cfg.Config,
		Bot:         client,
		Registry:    reg,
		Dispatcher:  dispatcher,
		Middlewares: tg.DefaultMiddlewares(&a.cfg.Config, bot.Hooks()),
		Routes:      bot.Routes(reg, engine),
	}
	if alerts != nil {
		opts.OnStart = func(ctx context.Context, _ tg.Runtime) error {
			return alerts.Start(ctx)
		}
		opts.OnStop = func(ctx context.Context, _ tg.Runtime) error {
			return alerts.Stop(ctx)
		}
	}
	return opts, nil
}

func (a *App) buildNotifier(out messaging.Messenger) (*notifier.Notifier, error) {
	n := a.cfg.Notifier
	if !n.IsEnabled() {
		logger.Info(context.Background(), "notify", "notify.disabled")
		return nil, nil
	}
	return notifier.New(a.repo, out, notifier.Config{
		Schedule:  n.Schedule,
		Location:  n.Location(),
		DaysAhead: n.DaysAhead,
		ChatID:    n.ChatID,
	})
}

// Close releases the database.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
