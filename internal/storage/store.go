// Package storage persists visa holders and admins.
package storage

import (
	"context"

	"github.com/Jahongir0126/notificate-bot/internal/calendar"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
)

// Store is the record store used by the conversation engine and the notifier.
// Every mutation is atomic per identity.
type Store interface {
	// UpsertUser inserts the record or overwrites every field except identity and creation time.
	UpsertUser(ctx context.Context, telegramID int64, fields domain.UserFields) (domain.UserRecord, error)
	// GetUser returns domain.ErrNotFound when the identity has no record.
	GetUser(ctx context.Context, telegramID int64) (domain.UserRecord, error)
	// ListUsers returns all records, newest first.
	ListUsers(ctx context.Context) ([]domain.UserRecord, error)
	// ListExpiring returns records whose visa expires in [today, today+days].
	ListExpiring(ctx context.Context, days int) ([]domain.UserRecord, error)
	// ListByDateRange returns records expiring in [start, end], soonest first.
	ListByDateRange(ctx context.Context, start, end calendar.Date) ([]domain.UserRecord, error)

	// AddAdmin grants admin rights; for an existing admin only the username changes.
	AddAdmin(ctx context.Context, telegramID int64, username *string, addedBy int64) (domain.AdminRecord, error)
	// RemoveAdmin returns the removed row or domain.ErrNotFound.
	RemoveAdmin(ctx context.Context, telegramID int64) (domain.AdminRecord, error)
	IsAdmin(ctx context.Context, telegramID int64) (bool, error)
	// ListAdmins returns admins, newest first.
	ListAdmins(ctx context.Context) ([]domain.AdminRecord, error)
}
