// Package domain defines the records kept by the bot.
package domain

import (
	"errors"
	"time"

	"github.com/Jahongir0126/notificate-bot/internal/calendar"
)

// ErrNotFound is returned when a keyed lookup or removal finds no row.
var ErrNotFound = errors.New("not found")

// UserFields are the values collected by a data-entry flow.
type UserFields struct {
	Phone      string        `db:"phone_number"`
	FirstName  string        `db:"first_name"`
	LastName   string        `db:"last_name"`
	Passport   string        `db:"passport_number"`
	VisaExpiry calendar.Date `db:"visa_expiry_date"`
}

// UserRecord is a stored visa holder. TelegramID is unique; CreatedAt is set
// on first insert and never changes.
type UserRecord struct {
	ID         int64 `db:"id"`
	TelegramID int64 `db:"telegram_id"`
	UserFields
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// AdminRecord grants admin rights to a chat identity. Username may be unset.
type AdminRecord struct {
	TelegramID int64     `db:"telegram_id"`
	Username   *string   `db:"username"`
	AddedBy    int64     `db:"added_by"`
	AddedAt    time.Time `db:"added_at"`
}
