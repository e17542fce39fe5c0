package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jahongir0126/notificate-bot/internal/calendar"
)

func requireRejected(t *testing.T, err error, msg string) {
	t.Helper()
	r, ok := AsRejection(err)
	require.True(t, ok, "expected rejection, got %v", err)
	assert.Equal(t, msg, r.Message)
}

func TestPhone(t *testing.T) {
	for _, in := range []string{"+998 94 205 25 25", "94 205 25 25", "998942052525", " +998942052525 "} {
		got, err := Phone(in)
		require.NoError(t, err, in)
		assert.Equal(t, "+998942052525", got, in)
	}
	for _, in := range []string{"123", "", "+7 942 052 525", "94 205 25 2a", "+998 94 205 25 255"} {
		_, err := Phone(in)
		requireRejected(t, err, MsgPhone)
	}
}

func TestContactPhone(t *testing.T) {
	got, err := ContactPhone("998942052525")
	require.NoError(t, err)
	assert.Equal(t, "+998942052525", got)

	got, err = ContactPhone("79161234567")
	require.NoError(t, err)
	assert.Equal(t, "+79161234567", got)

	_, err = ContactPhone("")
	requireRejected(t, err, MsgPhone)
}

func TestName(t *testing.T) {
	got, err := Name("  Jane Doe ")
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got)

	got, err = Name("Анна-Мария")
	require.NoError(t, err)
	assert.Equal(t, "Анна-Мария", got)

	for _, in := range []string{"J@ne", "J", strings.Repeat("a", 51), "R2D2", "   ", "Ив҂н", "Jo\u0483hn", "Ива\u0489", "Ζωή"} {
		_, err := Name(in)
		requireRejected(t, err, MsgName)
	}
	_, err = Name(strings.Repeat("я", 50))
	assert.NoError(t, err)
	_, err = Name("Ёлка Çelik")
	assert.NoError(t, err)
}

func TestPassport(t *testing.T) {
	got, err := Passport("ab123")
	require.NoError(t, err)
	assert.Equal(t, "AB123", got)

	for _, in := range []string{"abcd", strings.Repeat("A", 16), "AB 1234", "АБ12345", " AB12345", "AB12345\n"} {
		_, err := Passport(in)
		requireRejected(t, err, MsgPassport)
	}
}

func TestDate(t *testing.T) {
	today := calendar.New(2024, time.June, 1)

	got, err := Date("2024-06-01", today)
	require.NoError(t, err)
	assert.Equal(t, today, got)

	_, err = Date("2024-05-31", today)
	requireRejected(t, err, MsgDatePast)
	_, err = Date("2024-13-01", today)
	requireRejected(t, err, MsgDateInvalid)
	_, err = Date("06-01-2024", today)
	requireRejected(t, err, MsgDateFormat)
	for _, in := range []string{" 2099-01-01", "2099-01-01\n", "2099-01-01 "} {
		_, err = Date(in, today)
		requireRejected(t, err, MsgDateFormat)
	}
}

func TestTelegramID(t *testing.T) {
	id, err := TelegramID(" 123456789 ")
	require.NoError(t, err)
	assert.Equal(t, int64(123456789), id)

	for _, in := range []string{"abc", "-5", "0", "12.5", "99999999999999999999"} {
		_, err := TelegramID(in)
		requireRejected(t, err, MsgTelegramID)
	}
}
