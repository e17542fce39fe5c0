// Package state holds per-chat conversation sessions behind a small keyed store.
// Sessions are values: callers read a copy, change it and write it back, so the
// last write for a key wins.
package state
