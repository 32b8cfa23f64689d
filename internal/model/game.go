package model

import "time"

// Board and rule constants.  These are fixed domain values, not tunables.
const (
	BoardSize    = 18 // the board is BoardSize x BoardSize cells
	CluesPerGame = 12 // clue placements created per game
	CluesPerSus  = 3  // clues linked to each suspect per game
	FoxEscapePos = 37 // foxpos >= FoxEscapePos means the fox escaped
	FoxStep      = 3  // cells the fox advances on every failed turn
	MinSeats     = 2
	MaxSeats     = 4
	MinMoveSteps = 3 // lower bound of a successful clue roll's budget
	MaxMoveSteps = 6 // upper bound of the budget
	MinTurnTime  = 20 // seconds
	MaxTurnTime  = 60 // seconds
	TurnTimeStep = 10
)

// Fox terminal positions set by an accusation.
const (
	FoxPosAllWin  = -2 // accusation named the true fox: everyone wins
	FoxPosAllLose = -1 // accusation missed: everyone loses
)

// Game mirrors the `games` table.  current_seat is 0 until every seat is
// taken; afterwards it cycles 1..seatcount.  turn_started_at is NULL until
// the last player joins and is reset on every turn handoff.
type Game struct {
	ID            uint64     // games.gameid
	TurnTime      int        // games.turntime, seconds per turn
	SeatCount     int        // games.seatcount (2..4)
	CurrentSeat   int        // games.current_seat (0 = not started)
	TurnStartedAt *time.Time // games.turn_started_at (nullable)
}

// Started reports whether the turn clock has ever been armed.
func (g *Game) Started() bool { return g.CurrentSeat > 0 }

// Fox mirrors the `foxes` table.  The row shares its primary key with the
// game.  SuspectID is the secretly assigned culprit and must never be
// exposed to clients before the game is terminal.
type Fox struct {
	GameID    uint64 // foxes.id (== games.gameid)
	Position  int    // foxes.foxpos
	SuspectID uint64 // foxes.susid
}

// Terminal reports whether the fox position is frozen: the fox escaped or
// an accusation already decided the game.
func (f *Fox) Terminal() bool {
	return f.Position < 0 || f.Position >= FoxEscapePos
}

// Result returns "win", "lose" or "" for an unresolved game.
func (f *Fox) Result() string {
	switch {
	case f.Position == FoxPosAllWin:
		return "win"
	case f.Position == FoxPosAllLose:
		return "lose"
	case f.Position >= FoxEscapePos:
		return "lose" // the fox reached the den
	}
	return ""
}
