package repository

import (
	"context"
	"database/sql"

	"github.com/nikitusuik/thefox/internal/model"
)

// PlayerRepo owns the `players` table.  A player is tied to its game only
// through the cell it stands on, so every lookup joins through `cells`.
type PlayerRepo struct{ DB *sql.DB }

func NewPlayerRepo(db *sql.DB) *PlayerRepo { return &PlayerRepo{DB: db} }

// PlayerAt is a player together with its board coordinates.
type PlayerAt struct {
	model.Player
	Y int
	X int
}

// LockByLoginTx selects the login's player row in the game FOR UPDATE,
// with its cell coordinates.  This is the first lock every turn mutation
// takes.
func (r *PlayerRepo) LockByLoginTx(ctx context.Context, tx *sql.Tx, gameID uint64, login string) (PlayerAt, error) {
	var p PlayerAt
	err := tx.QueryRowContext(ctx, `
		SELECT p.playerid, p.login, p.seatnumber, p.color, p.cellid, c.y, c.x
		FROM players p
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ? AND p.login = ?
		FOR UPDATE`, gameID, login).
		Scan(&p.ID, &p.Login, &p.SeatNumber, &p.Color, &p.CellID, &p.Y, &p.X)
	return p, err
}

// TurnRow is the acting player joined with the game's turn pointer, read
// under one lock at the start of a turn mutation.
type TurnRow struct {
	PlayerID    uint64
	SeatNumber  int
	CellID      uint64
	Y, X        int
	CurrentSeat int
	SeatCount   int
	TurnTime    int
}

// LockTurnTx locks the login's player row and reads the turn pointer in a
// single statement.
func (r *PlayerRepo) LockTurnTx(ctx context.Context, tx *sql.Tx, gameID uint64, login string) (TurnRow, error) {
	var t TurnRow
	err := tx.QueryRowContext(ctx, `
		SELECT p.playerid, p.seatnumber, p.cellid, c.y, c.x,
			   g.current_seat, g.seatcount, g.turntime
		FROM players p
		JOIN cells c ON c.cellid = p.cellid
		JOIN games g ON g.gameid = c.gameid
		WHERE c.gameid = ? AND p.login = ?
		FOR UPDATE`, gameID, login).
		Scan(&t.PlayerID, &t.SeatNumber, &t.CellID, &t.Y, &t.X,
			&t.CurrentSeat, &t.SeatCount, &t.TurnTime)
	return t, err
}

// LockBySeatTx locks the player sitting on the given seat.  The timeout
// sweep uses it to act on the stalled seat's behalf.
func (r *PlayerRepo) LockBySeatTx(ctx context.Context, tx *sql.Tx, gameID uint64, seat int) (PlayerAt, error) {
	var p PlayerAt
	err := tx.QueryRowContext(ctx, `
		SELECT p.playerid, p.login, p.seatnumber, p.color, p.cellid, c.y, c.x
		FROM players p
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ? AND p.seatnumber = ?
		FOR UPDATE`, gameID, seat).
		Scan(&p.ID, &p.Login, &p.SeatNumber, &p.Color, &p.CellID, &p.Y, &p.X)
	return p, err
}

// ListTx locks every player row of the game, seat order.
func (r *PlayerRepo) ListTx(ctx context.Context, tx *sql.Tx, gameID uint64) ([]PlayerAt, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT p.playerid, p.login, p.seatnumber, p.color, p.cellid, c.y, c.x
		FROM players p
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ?
		ORDER BY p.seatnumber
		FOR UPDATE`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

// ListByGame reads the seated players without locking, seat order.
func (r *PlayerRepo) ListByGame(ctx context.Context, gameID uint64) ([]PlayerAt, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT p.playerid, p.login, p.seatnumber, p.color, p.cellid, c.y, c.x
		FROM players p
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ?
		ORDER BY p.seatnumber`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPlayers(rows)
}

func scanPlayers(rows *sql.Rows) ([]PlayerAt, error) {
	var out []PlayerAt
	for rows.Next() {
		var p PlayerAt
		if err := rows.Scan(&p.ID, &p.Login, &p.SeatNumber, &p.Color, &p.CellID, &p.Y, &p.X); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountTx counts seated players under the game lock.
func (r *PlayerRepo) CountTx(ctx context.Context, tx *sql.Tx, gameID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM players p
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ?`, gameID).Scan(&n)
	return n, err
}

// CreateTx seats a player on a cell and returns the player id.
func (r *PlayerRepo) CreateTx(ctx context.Context, tx *sql.Tx, login string, seat int, color string, cellID uint64) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO players (login, seatnumber, color, cellid) VALUES (?,?,?,?)",
		login, seat, color, cellID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// MoveTx reassigns a player to a new cell.
func (r *PlayerRepo) MoveTx(ctx context.Context, tx *sql.Tx, playerID, cellID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE players SET cellid = ? WHERE playerid = ?", cellID, playerID)
	return err
}

// DeleteTx removes a single player.
func (r *PlayerRepo) DeleteTx(ctx context.Context, tx *sql.Tx, playerID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM players WHERE playerid = ?", playerID)
	return err
}

// DeleteByGameTx removes every player of the game during teardown.
func (r *PlayerRepo) DeleteByGameTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE p FROM players p
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ?`, gameID)
	return err
}
