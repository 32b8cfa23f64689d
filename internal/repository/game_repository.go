package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nikitusuik/thefox/internal/model"
)

// GameRepo owns the `games` table.  The game row carries the turn pointer
// (current seat + clock) and is always the LAST row locked inside a
// transaction, after the player/fox/action rows.
type GameRepo struct{ DB *sql.DB }

func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{DB: db} }

// CreateTx inserts a new game row and returns its id.  The seat pointer is
// zero and the clock NULL until the last seat fills and the match begins.
func (r *GameRepo) CreateTx(ctx context.Context, tx *sql.Tx, turnTime, seatCount int) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO games (turntime, seatcount, current_seat, turn_started_at) VALUES (?,?,0,NULL)",
		turnTime, seatCount)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// LockTx selects the game row FOR UPDATE.
func (r *GameRepo) LockTx(ctx context.Context, tx *sql.Tx, gameID uint64) (model.Game, error) {
	var g model.Game
	err := tx.QueryRowContext(ctx, `
		SELECT gameid, turntime, seatcount, current_seat, turn_started_at
		FROM games WHERE gameid = ? FOR UPDATE`, gameID).
		Scan(&g.ID, &g.TurnTime, &g.SeatCount, &g.CurrentSeat, &g.TurnStartedAt)
	return g, err
}

// Get reads the game row without locking it.
func (r *GameRepo) Get(ctx context.Context, gameID uint64) (model.Game, error) {
	var g model.Game
	err := r.DB.QueryRowContext(ctx, `
		SELECT gameid, turntime, seatcount, current_seat, turn_started_at
		FROM games WHERE gameid = ?`, gameID).
		Scan(&g.ID, &g.TurnTime, &g.SeatCount, &g.CurrentSeat, &g.TurnStartedAt)
	return g, err
}

// SetSeatTx moves the turn pointer.  resetClock makes the new seat's clock
// start now; turn handoffs reset it, in-turn updates do not.
func (r *GameRepo) SetSeatTx(ctx context.Context, tx *sql.Tx, gameID uint64, seat int, resetClock bool) error {
	if resetClock {
		_, err := tx.ExecContext(ctx,
			"UPDATE games SET current_seat = ?, turn_started_at = UTC_TIMESTAMP() WHERE gameid = ?",
			seat, gameID)
		return err
	}
	_, err := tx.ExecContext(ctx,
		"UPDATE games SET current_seat = ? WHERE gameid = ?", seat, gameID)
	return err
}

// StartTx begins the match: seat 1 takes the first turn and its clock
// starts now.  Happens in the same transaction as the final join.
func (r *GameRepo) StartTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE games SET current_seat = 1, turn_started_at = UTC_TIMESTAMP() WHERE gameid = ?", gameID)
	return err
}

// OpenGame is one row of the lobby listing.
type OpenGame struct {
	ID        uint64   `json:"game_id"`
	TurnTime  int      `json:"turntime"`
	SeatCount int      `json:"seatcount"`
	Seated    int      `json:"players_now"`
	FreeSeats int      `json:"free_seats"`
	Logins    []string `json:"player_logins"`
}

// ListOpen returns non-terminal games with a free seat, newest first,
// together with who is already sitting there.
func (r *GameRepo) ListOpen(ctx context.Context) ([]OpenGame, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT g.gameid, g.turntime, g.seatcount,
			   COUNT(p.playerid) AS seated,
			   COALESCE(GROUP_CONCAT(p.login ORDER BY p.seatnumber SEPARATOR ','), '') AS logins
		FROM games g
		JOIN foxes f ON f.id = g.gameid
		LEFT JOIN cells c ON c.gameid = g.gameid
		LEFT JOIN players p ON p.cellid = c.cellid
		WHERE f.foxpos >= 0 AND f.foxpos < ?
		GROUP BY g.gameid, g.turntime, g.seatcount
		HAVING seated < g.seatcount
		ORDER BY g.gameid DESC`, model.FoxEscapePos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OpenGame
	for rows.Next() {
		var og OpenGame
		var logins string
		if err := rows.Scan(&og.ID, &og.TurnTime, &og.SeatCount, &og.Seated, &logins); err != nil {
			return nil, err
		}
		og.FreeSeats = og.SeatCount - og.Seated
		og.Logins = []string{}
		if logins != "" {
			og.Logins = strings.Split(logins, ",")
		}
		out = append(out, og)
	}
	return out, rows.Err()
}

// ListAbandoned returns ids of non-terminal games nobody is playing: zero
// players, or a single player left thirty minutes or more after the start.
// The lobby listing sweeps these.
func (r *GameRepo) ListAbandoned(ctx context.Context) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT g.gameid
		FROM games g
		JOIN foxes f ON f.id = g.gameid
		LEFT JOIN cells c ON c.gameid = g.gameid
		LEFT JOIN players p ON p.cellid = c.cellid
		WHERE f.foxpos >= 0 AND f.foxpos < ?
		GROUP BY g.gameid, g.turn_started_at
		HAVING COUNT(p.playerid) = 0
			OR (COUNT(p.playerid) = 1
				AND g.turn_started_at IS NOT NULL
				AND g.turn_started_at < UTC_TIMESTAMP() - INTERVAL 30 MINUTE)`,
		model.FoxEscapePos)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListNeverStarted returns ids of games that never left the lobby.
func (r *GameRepo) ListNeverStarted(ctx context.Context) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT gameid FROM games WHERE turn_started_at IS NULL")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ExpireStartedBeforeToday force-finishes every running game whose first
// turn began before today (UTC) by walking the fox off the board.
func (r *GameRepo) ExpireStartedBeforeToday(ctx context.Context) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE foxes f
		JOIN games g ON g.gameid = f.id
		SET f.foxpos = ?
		WHERE g.turn_started_at IS NOT NULL
		  AND g.turn_started_at < UTC_DATE()
		  AND f.foxpos >= 0 AND f.foxpos < ?`,
		model.FoxEscapePos, model.FoxEscapePos)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartedLongAgo reports whether the game's clock has sat untouched for
// two hours or more; the clock resets on every handoff, so this means no
// turn has passed in that window.
func (r *GameRepo) StartedLongAgo(ctx context.Context, gameID uint64) (bool, error) {
	var old bool
	err := r.DB.QueryRowContext(ctx, `
		SELECT turn_started_at IS NOT NULL
		   AND turn_started_at < UTC_TIMESTAMP() - INTERVAL 2 HOUR
		FROM games WHERE gameid = ?`, gameID).Scan(&old)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return old, err
}

// DeleteTx removes the game row; the caller deletes children first.
func (r *GameRepo) DeleteTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM games WHERE gameid = ?", gameID)
	return err
}
