package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Jahongir0126/notificate-bot/core/telegram/format"
	"github.com/Jahongir0126/notificate-bot/internal/calendar"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
)

// MaxMessageRunes is the Telegram limit for one text message.
const MaxMessageRunes = 4096

const noUsername = "не указан"

// Renderer turns records into reply texts. Loc is the timezone used to show
// creation timestamps.
type Renderer struct {
	Loc   *time.Location
	Limit int
}

// NewRenderer returns a Renderer for loc with the Telegram message limit.
func NewRenderer(loc *time.Location) Renderer {
	if loc == nil {
		loc = time.UTC
	}
	return Renderer{Loc: loc, Limit: MaxMessageRunes}
}

func (r Renderer) stamp(t time.Time) string {
	loc := r.Loc
	if loc == nil {
		loc = time.UTC
	}
	return calendar.FormatDisplay(calendar.Of(t.In(loc)))
}

func (r Renderer) limit() int {
	if r.Limit <= 0 {
		return MaxMessageRunes
	}
	return r.Limit
}

func identity(b *strings.Builder, rec domain.UserRecord) {
	fmt.Fprintf(b, "Телефон: %s\n", rec.Phone)
	fmt.Fprintf(b, "Имя: %s\n", rec.FirstName)
	fmt.Fprintf(b, "Фамилия: %s\n", rec.LastName)
	fmt.Fprintf(b, "Паспорт: %s\n", rec.Passport)
}

// MyData renders the owner's card.
func (r Renderer) MyData(rec domain.UserRecord) string {
	var b strings.Builder
	b.WriteString("Ваши данные:\n\n")
	identity(&b, rec)
	fmt.Fprintf(&b, "Срок визы: %s\n", calendar.FormatDisplay(rec.VisaExpiry))
	fmt.Fprintf(&b, "Дата добавления: %s\n\n", r.stamp(rec.CreatedAt))
	b.WriteString(`Чтобы обновить данные, нажмите "📝 Добавить данные"`)
	return b.String()
}

// AllRecords renders the full record set of a report session.
func (r Renderer) AllRecords(recs []domain.UserRecord) []string {
	entries := make([]string, 0, len(recs))
	for _, rec := range recs {
		var b strings.Builder
		identity(&b, rec)
		fmt.Fprintf(&b, "Срок визы: %s\n", calendar.FormatDisplay(rec.VisaExpiry))
		fmt.Fprintf(&b, "Дата добавления: %s\n", r.stamp(rec.CreatedAt))
		entries = append(entries, b.String())
	}
	return Chunk("👥Все данные пользователей:\n\n", entries, "\n", r.limit())
}

// Week renders the records of one week bucket.
func (r Renderer) Week(key string, recs []domain.UserRecord) []string {
	if len(recs) == 0 {
		return []string{fmt.Sprintf("На неделю %s нет виз, которые истекают.", key)}
	}
	entries := make([]string, 0, len(recs))
	for _, rec := range recs {
		var b strings.Builder
		identity(&b, rec)
		fmt.Fprintf(&b, "Срок визы: %s\n", calendar.FormatDisplay(rec.VisaExpiry))
		entries = append(entries, b.String())
	}
	return Chunk(fmt.Sprintf("Визы, истекающие на неделе %s:\n\n", key), entries, "\n", r.limit())
}

// Expiring renders the on-demand expiry check for the next days.
func (r Renderer) Expiring(days int, recs []domain.UserRecord) []string {
	if len(recs) == 0 {
		return []string{fmt.Sprintf("На ближайшие %d дней нет виз, которые истекают.", days)}
	}
	entries := make([]string, 0, len(recs))
	for _, rec := range recs {
		var b strings.Builder
		identity(&b, rec)
		fmt.Fprintf(&b, "Истекает: %s\n", calendar.FormatDisplay(rec.VisaExpiry))
		entries = append(entries, b.String())
	}
	return Chunk(fmt.Sprintf("📨 Визы, истекающие в ближайшие %d дней:\n\n", days), entries, "\n", r.limit())
}

// Notification renders the daily expiry alert, one block per record.
func (r Renderer) Notification(recs []domain.UserRecord) []string {
	entries := make([]string, 0, len(recs))
	for _, rec := range recs {
		var b strings.Builder
		b.WriteString("⌛️Внимание! Истекает виза пользователя:\n")
		identity(&b, rec)
		fmt.Fprintf(&b, "Истекает: %s", calendar.FormatDisplay(rec.VisaExpiry))
		entries = append(entries, b.String())
	}
	return Chunk("", entries, "\n\n", r.limit())
}

// Admins renders the admin list.
func (r Renderer) Admins(admins []domain.AdminRecord) []string {
	if len(admins) == 0 {
		return []string{"Список администраторов пуст."}
	}
	entries := make([]string, 0, len(admins))
	for _, a := range admins {
		entries = append(entries, fmt.Sprintf("ID: %d\nUsername: %s\nДобавлен: %s\n",
			a.TelegramID, format.DerefString(a.Username, noUsername), r.stamp(a.AddedAt)))
	}
	return Chunk("Список администраторов:\n\n", entries, "\n", r.limit())
}

// Chunk joins entries with sep after header, starting a new message whenever
// the next entry would push it past limit runes. An entry that does not fit
// is split hard, and the header never goes out as a message of its own.
func Chunk(header string, entries []string, sep string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageRunes
	}
	var (
		out   []string
		cur   strings.Builder
		runes int
		empty = true
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
		}
		cur.Reset()
		runes = 0
		empty = true
	}
	cur.WriteString(header)
	runes = utf8.RuneCountInString(header)
	sepRunes := utf8.RuneCountInString(sep)

	for _, e := range entries {
		n := utf8.RuneCountInString(e)
		extra := n
		if !empty {
			extra += sepRunes
		}
		if runes+extra <= limit {
			if !empty {
				cur.WriteString(sep)
			}
			cur.WriteString(e)
			runes += extra
			empty = false
			continue
		}
		if !empty {
			flush()
			if n <= limit {
				cur.WriteString(e)
				runes = n
				empty = false
				continue
			}
		}
		// fill whatever room is left, then continue in fresh messages
		rs := []rune(e)
		for len(rs) > 0 {
			room := limit - runes
			if room <= 0 {
				flush()
				room = limit
			}
			k := min(room, len(rs))
			cur.WriteString(string(rs[:k]))
			runes += k
			rs = rs[k:]
			empty = false
		}
	}
	flush()
	return out
}
