// Package validate checks and normalizes the fields typed into the bot.
// Every validator is pure: a rejection carries the message shown to the user.
package validate

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Jahongir0126/notificate-bot/internal/calendar"
)

// Rejection is a user-correctable input error; Message is sent back verbatim.
type Rejection struct {
	Field   string
	Message string
}

func (r *Rejection) Error() string {
	return "validate: " + r.Field + ": " + r.Message
}

// Code names the error kind in handler logs.
func (r *Rejection) Code() string { return "rejected" }

// AsRejection returns the rejection wrapped in err, if any.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	ok := errors.As(err, &r)
	return r, ok
}

// Messages shown on rejection.
const (
	MsgPhone       = "Неверный формат номера телефона. Пожалуйста, введите номер в формате: +998 94 205 25 25 или 94 205 25 25"
	MsgName        = "Имя должно содержать только буквы, пробелы и дефис. Длина от 2 до 50 символов."
	MsgPassport    = "Неверный формат паспорта. Пожалуйста, введите номер паспорта (от 5 до 15 символов, буквы и цифры)"
	MsgDateFormat  = "Неверный формат даты. Пожалуйста, введите в формате: ГГГГ-ММ-ДД"
	MsgDateInvalid = "Неверная дата. Пожалуйста, введите корректную дату."
	MsgDatePast    = "Дата не может быть в прошлом. Пожалуйста, введите будущую дату."
	MsgTelegramID  = "Пожалуйста, введите корректный Telegram ID (только цифры)"
)

const (
	countryCode = "+998"

	nameMinRunes = 2
	nameMaxRunes = 50
)

var (
	phoneRe    = regexp.MustCompile(`^(?:\+?998)?(\d{9})$`)
	passportRe = regexp.MustCompile(`^[A-Za-z0-9]{5,15}$`)
	dateRe     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	telegramRe = regexp.MustCompile(`^\d{1,19}$`)
)

func reject(field, msg string) *Rejection {
	return &Rejection{Field: field, Message: msg}
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// Phone accepts nine national digits with an optional 998 or +998 prefix,
// ignoring whitespace, and returns "+998" followed by the nine digits.
func Phone(raw string) (string, error) {
	m := phoneRe.FindStringSubmatch(stripSpace(raw))
	if m == nil {
		return "", reject("phone", MsgPhone)
	}
	return countryCode + m[1], nil
}

// ContactPhone normalizes a number shared through the contact button, which
// Telegram sends with or without the leading plus.
func ContactPhone(raw string) (string, error) {
	phone := stripSpace(raw)
	if phone == "" {
		return "", reject("phone", MsgPhone)
	}
	if normalized, err := Phone(phone); err == nil {
		return normalized, nil
	}
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	if _, err := strconv.ParseUint(phone[1:], 10, 64); err != nil {
		return "", reject("phone", MsgPhone)
	}
	return phone, nil
}

// Name accepts 2 to 50 Latin or Cyrillic letters, spaces and hyphens and returns the trimmed value.
func Name(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(name)
	if n < nameMinRunes || n > nameMaxRunes {
		return "", reject("name", MsgName)
	}
	for _, r := range name {
		if !nameRune(r) {
			return "", reject("name", MsgName)
		}
	}
	return name, nil
}

// nameRune excludes symbols and combining marks that share the Cyrillic and Latin blocks.
func nameRune(r rune) bool {
	if r == ' ' || r == '-' {
		return true
	}
	return unicode.IsLetter(r) && unicode.In(r, unicode.Latin, unicode.Cyrillic)
}

// Passport accepts exactly 5 to 15 ASCII letters and digits and returns them upper-cased.
func Passport(raw string) (string, error) {
	p := raw
	if !passportRe.MatchString(p) {
		return "", reject("passport", MsgPassport)
	}
	return strings.ToUpper(p), nil
}

// Date accepts a bare YYYY-MM-DD calendar date that is not before today.
func Date(raw string, today calendar.Date) (calendar.Date, error) {
	s := raw
	if !dateRe.MatchString(s) {
		return calendar.Date{}, reject("date", MsgDateFormat)
	}
	d, err := calendar.Parse(s)
	if err != nil {
		return calendar.Date{}, reject("date", MsgDateInvalid)
	}
	if d.Before(today) {
		return calendar.Date{}, reject("date", MsgDatePast)
	}
	return d, nil
}

// TelegramID accepts a positive numeric chat identity.
func TelegramID(raw string) (int64, error) {
	s := strings.TrimSpace(raw)
	if !telegramRe.MatchString(s) {
		return 0, reject("telegram_id", MsgTelegramID)
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, reject("telegram_id", MsgTelegramID)
	}
	return id, nil
}
