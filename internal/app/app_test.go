package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"

	"github.com/Jahongir0126/notificate-bot/core/bootstrap"
	coreconfig "github.com/Jahongir0126/notificate-bot/core/config"
	coredatabase "github.com/Jahongir0126/notificate-bot/core/database"
	tg "github.com/Jahongir0126/notificate-bot/core/telegram"
)

const sampleYAML = `
telegram:
  token: "123:abc"
  admin_id: 555
database:
  driver: sqlite
  path: %s
notifier:
  days_ahead: 5
`

func fmtYAML(dbPath string) string {
	return fmt.Sprintf(sampleYAML, dbPath)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "bot.db")
	cfg, err := Load(writeConfig(t, fmtYAML(dbPath)))
	require.NoError(t, err)

	assert.Equal(t, coreconfig.RunModeLongpoll, cfg.Telegram.RunMode)
	assert.Equal(t, coredatabase.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "Asia/Tashkent", cfg.Location().String())
	assert.Equal(t, 7, cfg.Report.CheckDays)
	assert.True(t, cfg.Notifier.IsEnabled())
	assert.Equal(t, "0 9 * * *", cfg.Notifier.Schedule)
	assert.Equal(t, 5, cfg.Notifier.DaysAhead)
	assert.Equal(t, int64(555), cfg.Notifier.ChatID)
	assert.Equal(t, "Asia/Tashkent", cfg.Notifier.Location().String())
	assert.Same(t, &cfg.Config, cfg.CoreConfig())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("BOT_TOKEN", "999:zzz")
	t.Setenv("ADMIN_CHAT_ID", "-100123")
	t.Setenv("NOTIFIER_TIMEZONE", "UTC")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "env.db"))

	cfg, err := Load(writeConfig(t, fmtYAML("/nonexistent/bot.db")))
	require.NoError(t, err)
	assert.Equal(t, "999:zzz", cfg.Telegram.Token)
	assert.Equal(t, int64(-100123), cfg.Notifier.ChatID)
	assert.Equal(t, "UTC", cfg.Notifier.Location().String())
	assert.Equal(t, os.Getenv("DB_PATH"), cfg.Database.Path)
}

func TestNormalizeErrors(t *testing.T) {
	base := func() Config {
		var c Config
		c.Telegram.Token = "1:a"
		c.Database = coredatabase.Config{Driver: "sqlite", Path: "bot.db"}
		c.Notifier.ChatID = 1
		return c
	}

	c := base()
	c.Timezone = "Mars/Olympus"
	assert.Error(t, Normalize(&c))

	c = base()
	c.Notifier.ChatID = 0
	assert.Error(t, Normalize(&c), "enabled notifier without a chat")

	off := false
	c = base()
	c.Notifier.ChatID = 0
	c.Notifier.Enabled = &off
	assert.NoError(t, Normalize(&c))

	c = base()
	c.Report.CheckDays = -1
	assert.Error(t, Normalize(&c))

	c = base()
	c.Database = coredatabase.Config{Driver: "sqlite"}
	assert.Error(t, Normalize(&c))
}

func testApp(t *testing.T) *App {
	t.Helper()
	cfg, err := Load(writeConfig(t, fmtYAML(filepath.Join(t.TempDir(), "bot.db"))))
	require.NoError(t, err)
	a, err := bootstrapWith(context.Background(), cfg, bootstrap.Options{
		LoggerInit: func(*coreconfig.Config) error { return nil },
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestBootstrapSeedsAdminOnce(t *testing.T) {
	a := testApp(t)
	ctx := context.Background()

	admins, err := a.Store().ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, int64(555), admins[0].TelegramID)
	assert.Equal(t, int64(555), admins[0].AddedBy)

	for _, s := range adminSeeder(777) {
		require.NoError(t, s.Seed(ctx, a.db))
	}
	admins, err = a.Store().ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, admins, 1)

	assert.Empty(t, adminSeeder(0))
}

func TestTelegramRunOptions(t *testing.T) {
	a := testApp(t)
	a.NewBot = func(*coreconfig.Config) (*tele.Bot, error) {
		return tele.NewBot(tele.Settings{Offline: true})
	}

	opts, err := a.TelegramRunOptions()
	require.NoError(t, err)
	defer opts.Dispatcher.Close()

	assert.NotNil(t, opts.Bot)
	assert.NotNil(t, opts.OnStart)
	assert.NotNil(t, opts.OnStop)
	assert.NotEmpty(t, opts.Middlewares)
	assert.GreaterOrEqual(t, len(opts.Routes), 8)
	assert.Len(t, opts.Registry.ListCommands(true), 2)

	ctx := context.Background()
	require.NoError(t, opts.OnStart(ctx, tg.Runtime{}))
	require.NoError(t, opts.OnStop(ctx, tg.Runtime{}))
}
