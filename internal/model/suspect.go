package model

// Suspect is a catalog row from the `suspects` table.  The catalog is
// seeded once and shared by every game.
type Suspect struct {
	ID   uint64 // suspects.susid
	Name string // suspects.susname
}

// Clue is a catalog row from the `clues` table.
type Clue struct {
	ID   uint64 // clues.clueid
	Name string // clues.item_name
}

// SuspectInGame mirrors the `suspects_in_game` table: one row per catalog
// suspect per game, flipped from hidden to opened by an interrogation.
type SuspectInGame struct {
	GameID    uint64
	SuspectID uint64
	Name      string
	Status    Status
}

// CluePlacement mirrors the `clues_in_game` table joined with its cell:
// a clue instance bound to one board cell.
type CluePlacement struct {
	CellID uint64
	ClueID uint64
	Name   string
	Y      int
	X      int
	Status Status
}
