package repository

import (
	"context"
	"database/sql"

	"github.com/nikitusuik/thefox/internal/model"
)

// MoveRepo owns the `moves` table: at most one pending dice result per
// player, consumed by the follow-up move or suspect reveal.
type MoveRepo struct{ DB *sql.DB }

func NewMoveRepo(db *sql.DB) *MoveRepo { return &MoveRepo{DB: db} }

// LockTx selects the player's pending action FOR UPDATE.  sql.ErrNoRows
// means the player has nothing pending.
func (r *MoveRepo) LockTx(ctx context.Context, tx *sql.Tx, playerID uint64) (model.PendingAction, error) {
	var pa model.PendingAction
	var raw string
	err := tx.QueryRowContext(ctx,
		"SELECT playerid, direction, result, max_steps FROM moves WHERE playerid = ? FOR UPDATE",
		playerID).Scan(&pa.PlayerID, &raw, &pa.Success, &pa.MaxSteps)
	if err != nil {
		return pa, err
	}
	pa.Kind, err = model.ParseActionKind(raw)
	return pa, err
}

// ExistsTx reports whether the player already has a pending action, under
// the player lock the caller holds.
func (r *MoveRepo) ExistsTx(ctx context.Context, tx *sql.Tx, playerID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM moves WHERE playerid = ?", playerID).Scan(&n)
	return n > 0, err
}

// CreateTx records a dice outcome.  maxSteps is set only for successful
// clue searches, which grant a movement budget.
func (r *MoveRepo) CreateTx(ctx context.Context, tx *sql.Tx, playerID uint64, kind model.ActionKind, success bool, maxSteps *int) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO moves (playerid, direction, result, max_steps) VALUES (?,?,?,?)",
		playerID, string(kind), success, maxSteps)
	return err
}

// DeleteTx consumes the player's pending action.
func (r *MoveRepo) DeleteTx(ctx context.Context, tx *sql.Tx, playerID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM moves WHERE playerid = ?", playerID)
	return err
}

// DeleteByGameTx clears every pending action in the game; accusation
// verdicts and teardown both end with a clean slate.
func (r *MoveRepo) DeleteByGameTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE m FROM moves m
		JOIN players p ON p.playerid = m.playerid
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ?`, gameID)
	return err
}

// ListByGame returns pending actions for the state snapshot, keyed by
// player id.
func (r *MoveRepo) ListByGame(ctx context.Context, gameID uint64) ([]model.PendingAction, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT m.playerid, m.direction, m.result, m.max_steps
		FROM moves m
		JOIN players p ON p.playerid = m.playerid
		JOIN cells c ON c.cellid = p.cellid
		WHERE c.gameid = ?`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PendingAction
	for rows.Next() {
		var pa model.PendingAction
		var raw string
		if err := rows.Scan(&pa.PlayerID, &raw, &pa.Success, &pa.MaxSteps); err != nil {
			return nil, err
		}
		kind, err := model.ParseActionKind(raw)
		if err != nil {
			return nil, err
		}
		pa.Kind = kind
		out = append(out, pa)
	}
	return out, rows.Err()
}
