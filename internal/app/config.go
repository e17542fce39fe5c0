// Package app assembles the visa bot from its configuration.
package app

import (
	"fmt"
	"strings"
	"time"

	coreconfig "github.com/Jahongir0126/notificate-bot/core/config"
	coredatabase "github.com/Jahongir0126/notificate-bot/core/database"
	"github.com/Jahongir0126/notificate-bot/internal/conversation"
	"github.com/Jahongir0126/notificate-bot/internal/notifier"
)

// NotifierConfig controls the daily expiry alert.
type NotifierConfig struct {
	// Enabled defaults to true.
	Enabled  *bool  `yaml:"enabled" envconfig:"NOTIFIER_ENABLED"`
	Schedule string `yaml:"schedule" envconfig:"NOTIFIER_SCHEDULE"`
	// Timezone of the schedule; defaults to the bot timezone.
	Timezone  string `yaml:"timezone" envconfig:"NOTIFIER_TIMEZONE"`
	DaysAhead int    `yaml:"days_ahead" envconfig:"NOTIFIER_DAYS_AHEAD"`
	// ChatID receives alerts; defaults to telegram.admin_id.
	ChatID int64 `yaml:"chat_id" envconfig:"ADMIN_CHAT_ID"`

	loc *time.Location
}

// IsEnabled reports whether the alert is scheduled.
func (n NotifierConfig) IsEnabled() bool {
	return n.Enabled == nil || *n.Enabled
}

// Location is the parsed schedule timezone; valid after Normalize.
func (n NotifierConfig) Location() *time.Location {
	return n.loc
}

// ReportConfig controls the on-demand reports.
type ReportConfig struct {
	CheckDays int `yaml:"check_days" envconfig:"REPORT_CHECK_DAYS"`
}

// Config is the full bot configuration: the shared transport settings inline
// plus storage, scheduling and reporting.
type Config struct {
	coreconfig.Config `yaml:",inline"`

	Database coredatabase.Config `yaml:"database"`
	Notifier NotifierConfig      `yaml:"notifier"`
	Report   ReportConfig        `yaml:"report"`
	// Timezone defines "today" for date checks and expiry windows.
	Timezone string `yaml:"timezone" envconfig:"BOT_TIMEZONE"`

	loc *time.Location
}

// CoreConfig exposes the transport configuration to the shared runner.
func (c *Config) CoreConfig() *coreconfig.Config {
	return &c.Config
}

// Location is the parsed bot timezone; valid after Normalize.
func (c *Config) Location() *time.Location {
	return c.loc
}

// Load reads YAML at path, applies .env and environment overrides and validates.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := coreconfig.Decode(path, &cfg); err != nil {
		return nil, err
	}
	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize validates cfg and fills defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	if err := coreconfig.Normalize(&cfg.Config); err != nil {
		return err
	}
	if err := coredatabase.Normalize(&cfg.Database); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.Timezone) == "" {
		cfg.Timezone = notifier.DefaultTimezone
	}
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}
	cfg.loc = loc

	if cfg.Report.CheckDays < 0 {
		return fmt.Errorf("report.check_days must be >= 0")
	}
	if cfg.Report.CheckDays == 0 {
		cfg.Report.CheckDays = conversation.DefaultCheckDays
	}

	n := &cfg.Notifier
	if n.Schedule == "" {
		n.Schedule = notifier.DefaultSchedule
	}
	if n.DaysAhead < 0 {
		return fmt.Errorf("notifier.days_ahead must be >= 0")
	}
	if n.DaysAhead == 0 {
		n.DaysAhead = notifier.DefaultDaysAhead
	}
	if n.Timezone == "" {
		n.Timezone = cfg.Timezone
	}
	if n.loc, err = time.LoadLocation(n.Timezone); err != nil {
		return fmt.Errorf("invalid notifier.timezone %q: %w", n.Timezone, err)
	}
	if n.ChatID == 0 {
		n.ChatID = cfg.Telegram.AdminID
	}
	if n.IsEnabled() && n.ChatID == 0 {
		return fmt.Errorf("notifier.chat_id or telegram.admin_id is required when the notifier is enabled")
	}
	return nil
}
