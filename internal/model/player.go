package model

// Player mirrors the `players` table.  A player row exists only while the
// user occupies a seat; it is removed on leave and by game teardown.  The
// row links to the board through cellid, which is how a player belongs to
// a game.
//
// Fields:
//  ID         - players.playerid
//  Login      - players.login, the owning user's login
//  SeatNumber - players.seatnumber (1..seatcount, unique within a game)
//  Color      - players.color, fixed by seat number
//  CellID     - players.cellid, current position on the board
type Player struct {
	ID         uint64
	Login      string
	SeatNumber int
	Color      string
	CellID     uint64
}

// Cell mirrors the `cells` table.  The full grid is created with the game
// and immutable afterwards.
type Cell struct {
	ID     uint64 // cells.cellid
	GameID uint64 // cells.gameid
	Y      int    // cells.y (1..BoardSize)
	X      int    // cells.x (1..BoardSize)
}

// PendingAction mirrors the `moves` table: the record of a player's
// dice-gated choice awaiting resolution.  At most one exists per player.
// MaxSteps is set only for a successful clue search.
type PendingAction struct {
	PlayerID uint64     // moves.playerid
	Kind     ActionKind // moves.direction
	Success  bool       // moves.result
	MaxSteps *int       // moves.max_steps (nullable)
}
