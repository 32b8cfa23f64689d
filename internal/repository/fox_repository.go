package repository

import (
	"context"
	"database/sql"

	"github.com/nikitusuik/thefox/internal/model"
)

// FoxRepo owns the `foxes` table.  The fox row doubles as the game's result
// marker: position -2 means the hunters won, -1 means a wrong accusation
// lost the game, and anything >= 37 means the fox escaped.
type FoxRepo struct{ DB *sql.DB }

func NewFoxRepo(db *sql.DB) *FoxRepo { return &FoxRepo{DB: db} }

// CreateTx places the fox at the start of its escape track.
func (r *FoxRepo) CreateTx(ctx context.Context, tx *sql.Tx, gameID, suspectID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO foxes (id, foxpos, susid) VALUES (?,0,?)", gameID, suspectID)
	return err
}

// LockTx selects the fox row FOR UPDATE.
func (r *FoxRepo) LockTx(ctx context.Context, tx *sql.Tx, gameID uint64) (model.Fox, error) {
	var f model.Fox
	err := tx.QueryRowContext(ctx,
		"SELECT id, foxpos, susid FROM foxes WHERE id = ? FOR UPDATE", gameID).
		Scan(&f.GameID, &f.Position, &f.SuspectID)
	return f, err
}

// Get reads the fox row without locking.
func (r *FoxRepo) Get(ctx context.Context, gameID uint64) (model.Fox, error) {
	var f model.Fox
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, foxpos, susid FROM foxes WHERE id = ?", gameID).
		Scan(&f.GameID, &f.Position, &f.SuspectID)
	return f, err
}

// AdvanceTx moves the fox forward and returns the new position.  MySQL has
// no UPDATE ... RETURNING, so we re-read under the lock we already hold.
func (r *FoxRepo) AdvanceTx(ctx context.Context, tx *sql.Tx, gameID uint64, step int) (int, error) {
	if _, err := tx.ExecContext(ctx,
		"UPDATE foxes SET foxpos = foxpos + ? WHERE id = ?", step, gameID); err != nil {
		return 0, err
	}
	var pos int
	err := tx.QueryRowContext(ctx,
		"SELECT foxpos FROM foxes WHERE id = ?", gameID).Scan(&pos)
	return pos, err
}

// SetPositionTx writes an absolute position (used for the accusation
// verdict markers).
func (r *FoxRepo) SetPositionTx(ctx context.Context, tx *sql.Tx, gameID uint64, pos int) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE foxes SET foxpos = ? WHERE id = ?", pos, gameID)
	return err
}

// DeleteTx removes the fox row during teardown.
func (r *FoxRepo) DeleteTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM foxes WHERE id = ?", gameID)
	return err
}
