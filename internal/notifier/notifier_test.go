package notifier

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jahongir0126/notificate-bot/internal/calendar"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
	"github.com/Jahongir0126/notificate-bot/internal/messaging"
)

type fakeLister struct {
	mu    sync.Mutex
	recs  []domain.UserRecord
	err   error
	days  []int
	calls int
}

func (f *fakeLister) ListExpiring(_ context.Context, days int) ([]domain.UserRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.days = append(f.days, days)
	return f.recs, f.err
}

func (f *fakeLister) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeMessenger struct {
	mu    sync.Mutex
	chats []int64
	texts []string
}

func (f *fakeMessenger) Send(_ context.Context, chatID int64, text string, _ *messaging.Keyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chats = append(f.chats, chatID)
	f.texts = append(f.texts, text)
	return nil
}

func sample() domain.UserRecord {
	return domain.UserRecord{TelegramID: 1, UserFields: domain.UserFields{
		Phone: "+998942052525", FirstName: "Ali", LastName: "Valiev", Passport: "AA12345",
		VisaExpiry: calendar.New(2024, time.June, 3),
	}}
}

func TestNewValidates(t *testing.T) {
	_, err := New(&fakeLister{}, &fakeMessenger{}, Config{})
	assert.Error(t, err, "chat id is required")

	_, err = New(&fakeLister{}, &fakeMessenger{}, Config{ChatID: 1, Schedule: "every morning"})
	assert.Error(t, err)

	n, err := New(&fakeLister{}, &fakeMessenger{}, Config{ChatID: 1})
	require.NoError(t, err)
	assert.Equal(t, DefaultSchedule, n.cfg.Schedule)
	assert.Equal(t, DefaultDaysAhead, n.cfg.DaysAhead)
}

func TestRunOnceSendsAlert(t *testing.T) {
	store := &fakeLister{recs: []domain.UserRecord{sample(), sample()}}
	out := &fakeMessenger{}
	n, err := New(store, out, Config{ChatID: 77})
	require.NoError(t, err)

	count, err := n.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, []int{3}, store.days)
	require.Len(t, out.texts, 1)
	assert.Equal(t, []int64{77}, out.chats)
	assert.Contains(t, out.texts[0], "⌛️Внимание! Истекает виза пользователя:\nТелефон: +998942052525")
	assert.Contains(t, out.texts[0], "Истекает: 3 июня 2024\n\n⌛️Внимание!")
}

func TestRunOnceQuietWhenNothingExpires(t *testing.T) {
	out := &fakeMessenger{}
	n, err := New(&fakeLister{}, out, Config{ChatID: 77, DaysAhead: 5})
	require.NoError(t, err)

	count, err := n.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, out.texts)
}

func TestRunOncePropagatesStoreError(t *testing.T) {
	out := &fakeMessenger{}
	n, err := New(&fakeLister{err: errors.New("db down")}, out, Config{ChatID: 77})
	require.NoError(t, err)

	_, err = n.RunOnce(context.Background())
	assert.ErrorContains(t, err, "db down")
	assert.Empty(t, out.texts)
}

func TestScheduleUsesLocation(t *testing.T) {
	loc := time.FixedZone("UZT", 5*3600)
	n, err := New(&fakeLister{}, &fakeMessenger{}, Config{ChatID: 1, Location: loc})
	require.NoError(t, err)
	require.NoError(t, n.Start(context.Background()))
	defer func() { _ = n.Stop(context.Background()) }()

	next := n.Next().In(loc)
	assert.Equal(t, 9, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.Error(t, n.Start(context.Background()), "second start")
}

func TestStartRunsOnSchedule(t *testing.T) {
	store := &fakeLister{}
	n, err := New(store, &fakeMessenger{}, Config{ChatID: 1, Schedule: "@every 1s"})
	require.NoError(t, err)
	require.NoError(t, n.Start(context.Background()))

	assert.Eventually(t, func() bool { return store.callCount() > 0 }, 5*time.Second, 50*time.Millisecond)
	require.NoError(t, n.Stop(context.Background()))
	assert.True(t, n.Next().IsZero())
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	l := cronLogger{log: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}
	l.Info("wake", "now", "x")
	l.Error(errors.New("boom"), "panic", "job", 1)
	out := buf.String()
	assert.Contains(t, out, `msg="cron wake" now=x`)
	assert.Contains(t, out, `msg="cron panic" err=boom job=1`)
}
