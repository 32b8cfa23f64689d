package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nikitusuik/thefox/internal/model"
)

// SuspectRepo owns `suspects_in_game` (the face-down portrait cards) and
// `suspect_clues_in_game` (which traits each suspect carries).
type SuspectRepo struct{ DB *sql.DB }

func NewSuspectRepo(db *sql.DB) *SuspectRepo { return &SuspectRepo{DB: db} }

// InsertAllTx deals every catalog suspect into the game face down.
func (r *SuspectRepo) InsertAllTx(ctx context.Context, tx *sql.Tx, gameID uint64, suspectIDs []uint64) error {
	if len(suspectIDs) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString("INSERT INTO suspects_in_game (gameid, susid, status) VALUES ")
	args := make([]any, 0, len(suspectIDs)*2)
	for i, id := range suspectIDs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?,?,'hidden')")
		args = append(args, gameID, id)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// StatusTx locks a suspect card and returns its face state.
func (r *SuspectRepo) StatusTx(ctx context.Context, tx *sql.Tx, gameID, suspectID uint64) (model.Status, error) {
	var raw string
	err := tx.QueryRowContext(ctx,
		"SELECT status FROM suspects_in_game WHERE gameid = ? AND susid = ? FOR UPDATE",
		gameID, suspectID).Scan(&raw)
	if err != nil {
		return "", err
	}
	return model.ParseStatus(raw)
}

// OpenTx turns a suspect card face up.
func (r *SuspectRepo) OpenTx(ctx context.Context, tx *sql.Tx, gameID, suspectID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE suspects_in_game SET status = 'opened' WHERE gameid = ? AND susid = ?",
		gameID, suspectID)
	return err
}

// ListByGame returns every suspect card with its catalog name.
func (r *SuspectRepo) ListByGame(ctx context.Context, gameID uint64) ([]model.SuspectInGame, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT sig.gameid, sig.susid, s.susname, sig.status
		FROM suspects_in_game sig
		JOIN suspects s ON s.susid = sig.susid
		WHERE sig.gameid = ?
		ORDER BY sig.susid`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.SuspectInGame
	for rows.Next() {
		var sg model.SuspectInGame
		var raw string
		if err := rows.Scan(&sg.GameID, &sg.SuspectID, &sg.Name, &raw); err != nil {
			return nil, err
		}
		st, err := model.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		sg.Status = st
		out = append(out, sg)
	}
	return out, rows.Err()
}

// LinkClueTx attaches a trait to a suspect.  INSERT IGNORE keeps the
// distribution pass idempotent when a pair repeats.
func (r *SuspectRepo) LinkClueTx(ctx context.Context, tx *sql.Tx, gameID, suspectID, clueID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT IGNORE INTO suspect_clues_in_game (gameid, susid, clueid) VALUES (?,?,?)",
		gameID, suspectID, clueID)
	return err
}

// ClueIDsOfSuspect returns the trait clue ids a suspect carries.
func (r *SuspectRepo) ClueIDsOfSuspect(ctx context.Context, gameID, suspectID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT clueid FROM suspect_clues_in_game WHERE gameid = ? AND susid = ? ORDER BY clueid",
		gameID, suspectID)
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

// ClueNamesOfSuspect resolves a suspect's traits to catalog names, for the
// state snapshot of opened suspects.
func (r *SuspectRepo) ClueNamesOfSuspect(ctx context.Context, gameID, suspectID uint64) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT cl.item_name
		FROM suspect_clues_in_game scig
		JOIN clues cl ON cl.clueid = scig.clueid
		WHERE scig.gameid = ? AND scig.susid = ?
		ORDER BY cl.item_name`, gameID, suspectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// ClueNamesOfSuspectTx is ClueNamesOfSuspect inside the caller's
// transaction, for reveal responses composed before commit.
func (r *SuspectRepo) ClueNamesOfSuspectTx(ctx context.Context, tx *sql.Tx, gameID, suspectID uint64) ([]string, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT cl.item_name
		FROM suspect_clues_in_game scig
		JOIN clues cl ON cl.clueid = scig.clueid
		WHERE scig.gameid = ? AND scig.susid = ?
		ORDER BY cl.item_name`, gameID, suspectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// SuspectHasClueTx reports whether the suspect carries the clue, under the
// locks the caller already holds.
func (r *SuspectRepo) SuspectHasClueTx(ctx context.Context, tx *sql.Tx, gameID, suspectID, clueID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM suspect_clues_in_game WHERE gameid = ? AND susid = ? AND clueid = ?",
		gameID, suspectID, clueID).Scan(&n)
	return n > 0, err
}

// DeleteByGameTx removes the suspect cards and their trait links during
// teardown.
func (r *SuspectRepo) DeleteByGameTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM suspect_clues_in_game WHERE gameid = ?", gameID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx,
		"DELETE FROM suspects_in_game WHERE gameid = ?", gameID)
	return err
}
