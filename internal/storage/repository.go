package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Jahongir0126/notificate-bot/core/logger"
	"github.com/Jahongir0126/notificate-bot/internal/calendar"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
)

const (
	userColumns  = `id, telegram_id, phone_number, first_name, last_name, passport_number, visa_expiry_date, created_at, updated_at`
	adminColumns = `telegram_id, username, added_by, added_at`
)

// Option customizes a Repository.
type Option func(*Repository)

// WithClock replaces time.Now for creation timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLocation sets the timezone that defines "today" for expiry queries.
func WithLocation(loc *time.Location) Option {
	return func(r *Repository) {
		if loc != nil {
			r.loc = loc
		}
	}
}

// Repository implements Store on sqlx for PostgreSQL and SQLite.
// Queries are written with '?' and rebound for the connected driver.
type Repository struct {
	db  *sqlx.DB
	now func() time.Time
	loc *time.Location
}

var _ Store = (*Repository)(nil)

// NewRepository wraps an open database whose schema is migrated.
func NewRepository(db *sqlx.DB, opts ...Option) *Repository {
	r := &Repository{db: db, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) timestamp() time.Time {
	return r.now().UTC().Truncate(time.Microsecond)
}

func (r *Repository) q(query string) string {
	return r.db.Rebind(query)
}

// UpsertUser writes the record in one statement so racing upserts on the same
// identity never mix their fields.
func (r *Repository) UpsertUser(ctx context.Context, telegramID int64, f domain.UserFields) (rec domain.UserRecord, err error) {
	defer r.observe(ctx, "upsert_user", time.Now(), &err)
	now := r.timestamp()
	err = r.db.GetContext(ctx, &rec, r.q(`
		INSERT INTO users (telegram_id, phone_number, first_name, last_name, passport_number, visa_expiry_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET
			phone_number = excluded.phone_number,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			passport_number = excluded.passport_number,
			visa_expiry_date = excluded.visa_expiry_date,
			updated_at = excluded.updated_at
		RETURNING `+userColumns),
		telegramID, f.Phone, f.FirstName, f.LastName, f.Passport, f.VisaExpiry, now, now,
	)
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("upsert user %d: %w", telegramID, err)
	}
	return rec, nil
}

// GetUser returns the record for telegramID or domain.ErrNotFound.
func (r *Repository) GetUser(ctx context.Context, telegramID int64) (rec domain.UserRecord, err error) {
	defer r.observe(ctx, "get_user", time.Now(), &err)
	err = r.db.GetContext(ctx, &rec, r.q(`SELECT `+userColumns+` FROM users WHERE telegram_id = ?`), telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.UserRecord{}, fmt.Errorf("get user %d: %w", telegramID, err)
	}
	return rec, nil
}

// ListUsers returns every record, newest first.
func (r *Repository) ListUsers(ctx context.Context) (recs []domain.UserRecord, err error) {
	defer r.observe(ctx, "list_users", time.Now(), &err)
	err = r.db.SelectContext(ctx, &recs, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return recs, nil
}

// ListExpiring returns records expiring between today and today+days inclusive,
// where today is taken in the repository's timezone.
func (r *Repository) ListExpiring(ctx context.Context, days int) ([]domain.UserRecord, error) {
	if days < 0 {
		return nil, fmt.Errorf("list expiring: negative window %d", days)
	}
	today := calendar.Today(r.now(), r.loc)
	return r.ListByDateRange(ctx, today, today.AddDays(days))
}

// ListByDateRange returns records expiring in [start, end], soonest first.
func (r *Repository) ListByDateRange(ctx context.Context, start, end calendar.Date) (recs []domain.UserRecord, err error) {
	defer r.observe(ctx, "list_by_date_range", time.Now(), &err)
	err = r.db.SelectContext(ctx, &recs, r.q(`
		SELECT `+userColumns+` FROM users
		WHERE visa_expiry_date BETWEEN ? AND ?
		ORDER BY visa_expiry_date ASC, id ASC`), start, end)
	if err != nil {
		return nil, fmt.Errorf("list users expiring %s..%s: %w", start, end, err)
	}
	return recs, nil
}

// AddAdmin inserts an admin; re-adding an existing admin updates only the username.
func (r *Repository) AddAdmin(ctx context.Context, telegramID int64, username *string, addedBy int64) (rec domain.AdminRecord, err error) {
	defer r.observe(ctx, "add_admin", time.Now(), &err)
	err = r.db.GetContext(ctx, &rec, r.q(`
		INSERT INTO admins (telegram_id, username, added_by, added_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (telegram_id) DO UPDATE SET username = excluded.username
		RETURNING `+adminColumns),
		telegramID, username, addedBy, r.timestamp(),
	)
	if err != nil {
		return domain.AdminRecord{}, fmt.Errorf("add admin %d: %w", telegramID, err)
	}
	return rec, nil
}

// RemoveAdmin deletes the admin and returns the removed row, or domain.ErrNotFound.
func (r *Repository) RemoveAdmin(ctx context.Context, telegramID int64) (rec domain.AdminRecord, err error) {
	defer r.observe(ctx, "remove_admin", time.Now(), &err)
	err = r.db.GetContext(ctx, &rec, r.q(`DELETE FROM admins WHERE telegram_id = ? RETURNING `+adminColumns), telegramID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.AdminRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AdminRecord{}, fmt.Errorf("remove admin %d: %w", telegramID, err)
	}
	return rec, nil
}

// IsAdmin reports whether telegramID has an admin row.
func (r *Repository) IsAdmin(ctx context.Context, telegramID int64) (ok bool, err error) {
	defer r.observe(ctx, "is_admin", time.Now(), &err)
	err = r.db.GetContext(ctx, &ok, r.q(`SELECT EXISTS (SELECT 1 FROM admins WHERE telegram_id = ?)`), telegramID)
	if err != nil {
		return false, fmt.Errorf("is admin %d: %w", telegramID, err)
	}
	return ok, nil
}

// ListAdmins returns admins, newest first.
func (r *Repository) ListAdmins(ctx context.Context) (recs []domain.AdminRecord, err error) {
	defer r.observe(ctx, "list_admins", time.Now(), &err)
	err = r.db.SelectContext(ctx, &recs, `SELECT `+adminColumns+` FROM admins ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	return recs, nil
}

// SeedAdmin inserts the bootstrap admin, added by itself, only while the admins
// table is empty. It reports whether a row was written.
func (r *Repository) SeedAdmin(ctx context.Context, telegramID int64) (seeded bool, err error) {
	defer r.observe(ctx, "seed_admin", time.Now(), &err)
	if telegramID <= 0 {
		return false, fmt.Errorf("seed admin: invalid telegram id %d", telegramID)
	}
	// added_at comes from the column default: untyped timestamp parameters in a
	// SELECT list do not convert on postgres.
	res, err := r.db.ExecContext(ctx, r.q(`
		INSERT INTO admins (telegram_id, added_by)
		SELECT CAST(? AS BIGINT), CAST(? AS BIGINT)
		WHERE NOT EXISTS (SELECT 1 FROM admins)`), telegramID, telegramID)
	if err != nil {
		return false, fmt.Errorf("seed admin %d: %w", telegramID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("seed admin %d: %w", telegramID, err)
	}
	return n == 1, nil
}

func (r *Repository) observe(ctx context.Context, op string, start time.Time, errp *error) {
	err := *errp
	level := slog.LevelDebug
	status := logger.Status(err)
	if errors.Is(err, domain.ErrNotFound) {
		status = "not_found"
		err = nil
	} else if err != nil {
		level = slog.LevelError
	}
	attrs := []slog.Attr{
		slog.String("op", op),
		slog.String("status", status),
		slog.Duration("duration", time.Since(start)),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}
	logger.LogEvent(ctx, logger.Store, level, "store.op", attrs...)
}
