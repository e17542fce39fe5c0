// Package report groups records by week of expiry and renders the texts the
// bot sends for them.
package report

import (
	"strings"

	"github.com/Jahongir0126/notificate-bot/internal/calendar"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
)

const (
	// TokenAll selects the full record set of a report session.
	TokenAll = "all"
	// WeekPrefix prefixes week selection tokens.
	WeekPrefix = "week_"
)

// Grouping buckets records by the Monday..Sunday week containing their expiry.
// Keys keep the order in which weeks were first seen.
type Grouping struct {
	Keys   []string
	Groups map[string][]domain.UserRecord
}

// GroupByWeek partitions records into week buckets. Every record lands in
// exactly one group and the group's week contains its expiry date.
func GroupByWeek(records []domain.UserRecord) Grouping {
	g := Grouping{Groups: make(map[string][]domain.UserRecord)}
	for _, r := range records {
		key := calendar.WeekKey(r.VisaExpiry)
		if _, ok := g.Groups[key]; !ok {
			g.Keys = append(g.Keys, key)
		}
		g.Groups[key] = append(g.Groups[key], r)
	}
	return g
}

// Week returns the records of a week key.
func (g Grouping) Week(key string) ([]domain.UserRecord, bool) {
	recs, ok := g.Groups[key]
	return recs, ok
}

// WeekToken builds the selection token of a week key.
func WeekToken(key string) string {
	return WeekPrefix + key
}

// ParseToken splits a selection token. all is true for TokenAll; otherwise
// week holds the week key and ok reports whether the token is recognized.
func ParseToken(tok string) (week string, all bool, ok bool) {
	if tok == TokenAll {
		return "", true, true
	}
	if key, found := strings.CutPrefix(tok, WeekPrefix); found && key != "" {
		return key, false, true
	}
	return "", false, false
}
