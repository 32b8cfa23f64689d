package engine

import "errors"

// Precondition failures surfaced to handlers.  Everything here rolls the
// transaction back; handlers map them to 4xx responses.
var (
	ErrGameNotFound    = errors.New("game not found")
	ErrGameNotStarted  = errors.New("game has not started")
	ErrAlreadyStarted  = errors.New("game already started")
	ErrGameOver        = errors.New("game is over")
	ErrGameFull        = errors.New("game is full")
	ErrNotSeated       = errors.New("not a player in this game")
	ErrNotYourTurn     = errors.New("not your turn")
	ErrPendingExists   = errors.New("an action is already pending")
	ErrNoPending       = errors.New("no pending action")
	ErrWrongPending    = errors.New("pending action is of another kind")
	ErrRollFailed      = errors.New("stored roll was a failure")
	ErrTooFar          = errors.New("destination is out of reach")
	ErrOffBoard        = errors.New("destination is off the board")
	ErrSuspectOpened   = errors.New("suspect is already opened")
	ErrUnknownSuspect  = errors.New("no such suspect")
	ErrCatalogTooSmall = errors.New("catalog cannot seed a game")
)
