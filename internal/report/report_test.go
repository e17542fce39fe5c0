package report

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jahongir0126/notificate-bot/internal/calendar"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
)

func record(id int64, expiry calendar.Date) domain.UserRecord {
	return domain.UserRecord{
		ID:         id,
		TelegramID: id,
		UserFields: domain.UserFields{
			Phone:      "+998942052525",
			FirstName:  "Ali",
			LastName:   "Karimov",
			Passport:   "AA1234567",
			VisaExpiry: expiry,
		},
		CreatedAt: time.Date(2024, time.January, 2, 3, 0, 0, 0, time.UTC),
	}
}

func TestGroupByWeekPartitions(t *testing.T) {
	recs := []domain.UserRecord{
		record(1, calendar.New(2024, time.June, 9)),  // Sunday
		record(2, calendar.New(2024, time.June, 3)),  // Monday, same week
		record(3, calendar.New(2024, time.June, 10)), // next Monday
		record(4, calendar.New(2024, time.December, 31)),
		record(5, calendar.New(2025, time.January, 5)),
	}
	g := GroupByWeek(recs)

	assert.Equal(t, []string{"3.6.2024 - 9.6.2024", "10.6.2024 - 16.6.2024", "30.12.2024 - 5.1.2025"}, g.Keys)

	seen := map[int64]int{}
	for _, key := range g.Keys {
		group, ok := g.Week(key)
		require.True(t, ok)
		for _, r := range group {
			seen[r.TelegramID]++
			start, end := parseWeekKey(t, key)
			assert.Equal(t, time.Monday, start.Weekday(), key)
			assert.Equal(t, start.AddDays(6), end, key)
			assert.True(t, r.VisaExpiry.Within(start, end), "record %d outside %s", r.TelegramID, key)
		}
	}
	require.Len(t, seen, len(recs))
	for id, n := range seen {
		assert.Equal(t, 1, n, "record %d must appear once", id)
	}
}

func parseWeekKey(t *testing.T, key string) (calendar.Date, calendar.Date) {
	t.Helper()
	from, to, ok := strings.Cut(key, " - ")
	require.True(t, ok, key)
	start, err := time.Parse("2.1.2006", from)
	require.NoError(t, err, key)
	end, err := time.Parse("2.1.2006", to)
	require.NoError(t, err, key)
	return calendar.Of(start), calendar.Of(end)
}

func TestGroupByWeekEmpty(t *testing.T) {
	g := GroupByWeek(nil)
	assert.Empty(t, g.Keys)
	_, ok := g.Week("1.1.2024 - 7.1.2024")
	assert.False(t, ok)
}

func TestTokens(t *testing.T) {
	key := "3.6.2024 - 9.6.2024"
	tok := WeekToken(key)
	assert.Equal(t, "week_3.6.2024 - 9.6.2024", tok)

	week, all, ok := ParseToken(tok)
	assert.True(t, ok)
	assert.False(t, all)
	assert.Equal(t, key, week)

	_, all, ok = ParseToken(TokenAll)
	assert.True(t, ok)
	assert.True(t, all)

	for _, bad := range []string{"", "week_", "all_data", "month_1"} {
		_, _, ok = ParseToken(bad)
		assert.False(t, ok, bad)
	}
}

func TestRenderMyData(t *testing.T) {
	r := NewRenderer(time.UTC)
	text := r.MyData(record(1, calendar.New(2025, time.March, 8)))
	assert.Equal(t, "Ваши данные:\n\n"+
		"Телефон: +998942052525\n"+
		"Имя: Ali\n"+
		"Фамилия: Karimov\n"+
		"Паспорт: AA1234567\n"+
		"Срок визы: 8 марта 2025\n"+
		"Дата добавления: 2 января 2024\n\n"+
		`Чтобы обновить данные, нажмите "📝 Добавить данные"`, text)
}

func TestRenderCreatedAtInLocation(t *testing.T) {
	loc := time.FixedZone("UZT", 5*3600)
	rec := record(1, calendar.New(2025, time.March, 8))
	rec.CreatedAt = time.Date(2024, time.January, 2, 20, 0, 0, 0, time.UTC)
	assert.Contains(t, NewRenderer(loc).MyData(rec), "Дата добавления: 3 января 2024")
}

func TestRenderReports(t *testing.T) {
	r := NewRenderer(time.UTC)
	recs := []domain.UserRecord{record(1, calendar.New(2024, time.June, 3)), record(2, calendar.New(2024, time.June, 4))}

	all := r.AllRecords(recs)
	require.Len(t, all, 1)
	assert.True(t, strings.HasPrefix(all[0], "👥Все данные пользователей:\n\nТелефон:"))
	assert.Equal(t, 2, strings.Count(all[0], "Дата добавления:"))
	assert.Contains(t, all[0], "Дата добавления: 2 января 2024\n\nТелефон:")

	week := r.Week("3.6.2024 - 9.6.2024", recs)
	require.Len(t, week, 1)
	assert.True(t, strings.HasPrefix(week[0], "Визы, истекающие на неделе 3.6.2024 - 9.6.2024:\n\n"))
	assert.NotContains(t, week[0], "Дата добавления")

	assert.Equal(t, []string{"На ближайшие 7 дней нет виз, которые истекают."}, r.Expiring(7, nil))
	exp := r.Expiring(7, recs)
	require.Len(t, exp, 1)
	assert.True(t, strings.HasPrefix(exp[0], "📨 Визы, истекающие в ближайшие 7 дней:\n\n"))
	assert.Contains(t, exp[0], "Истекает: 3 июня 2024\n")

	note := r.Notification(recs[:1])
	assert.Equal(t, []string{"⌛️Внимание! Истекает виза пользователя:\n" +
		"Телефон: +998942052525\nИмя: Ali\nФамилия: Karimov\nПаспорт: AA1234567\n" +
		"Истекает: 3 июня 2024"}, note)
}

func TestRenderAdmins(t *testing.T) {
	r := NewRenderer(time.UTC)
	assert.Equal(t, []string{"Список администраторов пуст."}, r.Admins(nil))

	name := "boss"
	out := r.Admins([]domain.AdminRecord{
		{TelegramID: 10, Username: &name, AddedBy: 10, AddedAt: time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)},
		{TelegramID: 11, AddedBy: 10, AddedAt: time.Date(2024, time.May, 2, 0, 0, 0, 0, time.UTC)},
	})
	require.Len(t, out, 1)
	assert.Equal(t, "Список администраторов:\n\n"+
		"ID: 10\nUsername: boss\nДобавлен: 1 мая 2024\n\n"+
		"ID: 11\nUsername: не указан\nДобавлен: 2 мая 2024\n", out[0])
}

func TestChunkRespectsLimit(t *testing.T) {
	entries := []string{strings.Repeat("а", 40), strings.Repeat("б", 40), strings.Repeat("в", 40)}
	out := Chunk("head:\n", entries, "\n", 100)
	require.Len(t, out, 2)
	assert.Equal(t, "head:\n"+entries[0]+"\n"+entries[1], out[0])
	assert.Equal(t, entries[2], out[1])
	for _, m := range out {
		assert.LessOrEqual(t, utf8.RuneCountInString(m), 100)
	}
}

func TestChunkSplitsOversizedEntry(t *testing.T) {
	out := Chunk("", []string{"ok", strings.Repeat("x", 25)}, "\n", 10)
	assert.Equal(t, []string{"ok", strings.Repeat("x", 10), strings.Repeat("x", 10), strings.Repeat("x", 5)}, out)
}

func TestChunkKeepsHeaderWithFirstEntry(t *testing.T) {
	out := Chunk("head:\n", []string{strings.Repeat("x", 12), "ok"}, "\n", 10)
	assert.Equal(t, []string{"head:\n" + "xxxx", strings.Repeat("x", 8), "ok"}, out)

	out = Chunk("head:\n", []string{strings.Repeat("x", 8)}, "\n", 10)
	assert.Equal(t, []string{"head:\n" + "xxxx", "xxxx"}, out)
	for _, m := range out {
		assert.NotEqual(t, "head:\n", m)
		assert.LessOrEqual(t, utf8.RuneCountInString(m), 10)
	}
}

func TestChunkEmpty(t *testing.T) {
	assert.Empty(t, Chunk("", nil, "\n", 10))
	assert.Equal(t, []string{"head"}, Chunk("head", nil, "\n", 10))
}
