package logger

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emit(t *testing.T, format logFormat, fn func(*slog.Logger)) string {
	t.Helper()
	buf := &bytes.Buffer{}
	aw := newAsyncWriter([]io.Writer{buf}, 1024)
	handler := newStructuredHandler(handlerConfig{
		level:  slog.LevelDebug,
		writer: aw,
		format: format,
	})
	fn(slog.New(handler).With("component", "fsm"))
	require.NoError(t, aw.Flush())
	require.NoError(t, aw.Close())
	return strings.TrimSpace(buf.String())
}

func TestStructuredHandlerKVOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-123"), 42, 7, 9)
	line := emit(t, formatKV, func(log *slog.Logger) {
		LogEvent(ctx, log, slog.LevelInfo, "fsm.transition",
			slog.String("status", "OK"),
			slog.String("next_step", "awaiting_phone"),
			slog.String("step", "idle"),
		)
	})

	tokens := strings.Split(line, " ")
	require.GreaterOrEqual(t, len(tokens), 8, line)
	expected := []string{"ts=", "level=INFO", "component=fsm", "event=fsm.transition", "status=ok", "rid=rid-123", "update_id=42", "user_id=7"}
	for i, prefix := range expected {
		assert.Truef(t, strings.HasPrefix(tokens[i], prefix), "token %d = %s, expected prefix %s", i, tokens[i], prefix)
	}
	assert.Less(t, strings.Index(line, "step=idle"), strings.Index(line, "next_step=awaiting_phone"))
}

func TestStructuredHandlerJSONOrder(t *testing.T) {
	ctx := WithUpdateMeta(WithRID(context.Background(), "rid-json"), 11, 22, 33)
	line := emit(t, formatJSON, func(log *slog.Logger) {
		LogEvent(ctx, log, slog.LevelError, "store.upsert",
			slog.String("status", "fail"),
			slog.Any("err", errors.New("boom")),
			slog.Duration("duration", 1500*time.Microsecond),
		)
	})

	require.True(t, strings.HasPrefix(line, "{"), line)
	prefixes := []string{`{"ts":`, `"level":"ERROR"`, `"component":"fsm"`, `"event":"store.upsert"`, `"status":"fail"`, `"rid":"rid-json"`, `"duration_ms":2`}
	pos := -1
	for _, pref := range prefixes {
		idx := strings.Index(line, pref)
		require.Truef(t, idx > pos, "prefix %s not found in order within %s", pref, line)
		pos = idx
	}
	assert.Contains(t, line, `"err":"boom"`)
}

func TestStructuredHandlerDropsUnknownOutcome(t *testing.T) {
	ctx := context.Background()
	line := emit(t, formatKV, func(log *slog.Logger) {
		LogEvent(ctx, log, slog.LevelInfo, "notify.run",
			slog.String("outcome", "exploded"),
			slog.String("username", ""),
		)
	})
	assert.NotContains(t, line, "outcome=")
	assert.NotContains(t, line, "username=")
}

func TestStructuredHandlerCompactRID(t *testing.T) {
	cases := []struct {
		name     string
		format   logFormat
		contains []string
		absent   []string
	}{
		{
			name:     "kv",
			format:   formatKV,
			contains: []string{"rid=" + CompactRID("123:456:789")},
			absent:   []string{"rid_full="},
		},
		{
			name:     "json",
			format:   formatJSON,
			contains: []string{`"rid":"` + CompactRID("123:456:789") + `"`, `"rid_full":"123:456:789"`, `"ts_unix_nano"`},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := WithRID(context.Background(), "123:456:789")
			line := emit(t, tc.format, func(log *slog.Logger) {
				LogEvent(ctx, log, slog.LevelInfo, "rid.test", slog.String("status", "ok"))
			})
			for _, s := range tc.contains {
				assert.Contains(t, line, s)
			}
			for _, s := range tc.absent {
				assert.NotContains(t, line, s)
			}
		})
	}
}

func TestCompactRID(t *testing.T) {
	assert.Equal(t, "3f.co.lx", CompactRID(BuildRID(123, 456, 789)))
	assert.Equal(t, "not-a-rid", CompactRID("not-a-rid"))
	assert.Equal(t, "1:x:3", CompactRID("1:x:3"))
}

func TestSanitizeLimit(t *testing.T) {
	assert.Equal(t, "Иван\tП", SanitizeLimit("Иван\u200b\tП\x00етров", 6))
	assert.Equal(t, "", SanitizeLimit("anything", 0))
}

func TestContextDefaultsToBaseLogger(t *testing.T) {
	assert.Same(t, L, FromContext(context.Background()))
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.Same(t, custom, FromContext(WithLogger(context.Background(), custom)))
	assert.Equal(t, int64(0), ChatIDFrom(context.Background()))
	assert.Equal(t, int64(55), ChatIDFrom(WithChatID(context.Background(), 55)))
}
