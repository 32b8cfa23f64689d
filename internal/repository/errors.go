// Package repository implements data access for the game tables.  Game
// rules never live here; repos expose row operations and the engine
// composes them into transactions.
package repository

import "errors"

// ErrLoginExists is returned when registering a login that is already
// taken.
var ErrLoginExists = errors.New("login already exists")
