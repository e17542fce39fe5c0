package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command is a slash command with its handler and menu metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	// AdminOnly keeps the command out of the public command menu.
	AdminOnly bool
	// Aliases are extra names, with or without the leading slash, typed as plain text.
	Aliases []string
}

// Listed reports whether the command belongs in the public command menu.
func (c Command) Listed() bool {
	return !c.AdminOnly
}
