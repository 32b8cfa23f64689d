package model // package model defines row structs and closed enum types for the game tables

import "fmt"

// Status is the visibility state of a clue placement or a suspect within a
// game.  It is stored as a MySQL ENUM('hidden','opened') and must never be
// compared as a free-form string elsewhere in the code; use the constants.
type Status string

const (
	StatusHidden Status = "hidden" // not yet revealed to the players
	StatusOpened Status = "opened" // revealed; stays opened for the rest of the game
)

// ParseStatus validates a stored status value.  Anything outside the two
// known values indicates schema drift and is surfaced as an error rather
// than silently defaulted.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusHidden, StatusOpened:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status value %q", s)
}

// Opened reports whether the status means "revealed".
func (s Status) Opened() bool { return s == StatusOpened }

// ActionKind is the kind of dice-gated action a player chose for the turn.
// Stored as a MySQL ENUM('clue','suspect').
type ActionKind string

const (
	ActionClue    ActionKind = "clue"    // search for a clue, resolved by a move
	ActionSuspect ActionKind = "suspect" // interrogate a suspect, resolved by opening one
)

// ParseActionKind normalizes client input into an ActionKind.
func ParseActionKind(s string) (ActionKind, error) {
	switch ActionKind(s) {
	case ActionClue, ActionSuspect:
		return ActionKind(s), nil
	}
	return "", fmt.Errorf("unknown action kind %q", s)
}
