package conversation

import (
	"github.com/Jahongir0126/notificate-bot/internal/domain"
	"github.com/Jahongir0126/notificate-bot/internal/report"
)

// Draft accumulates the values of a flow before they are persisted.
type Draft struct {
	Phone     string
	FirstName string
	LastName  string
	Passport  string
	AdminID   int64
}

// ReportCache is the data a report session paginates over. It is built once
// and never mutated.
type ReportCache struct {
	Weeks report.Grouping
	All   []domain.UserRecord
}

// Session is the per-chat conversation state. Report is set only in
// StepViewWeeks.
type Session struct {
	Step   Step
	Draft  Draft
	Report *ReportCache
}
