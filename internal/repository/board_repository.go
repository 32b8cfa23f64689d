package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nikitusuik/thefox/internal/model"
)

// BoardRepo owns the `cells` and `clues_in_game` tables: the 18x18 grid and
// the twelve clue tokens hidden on it.
type BoardRepo struct{ DB *sql.DB }

func NewBoardRepo(db *sql.DB) *BoardRepo { return &BoardRepo{DB: db} }

// CreateGridTx inserts all BoardSize*BoardSize cells for a game in one
// statement.
func (r *BoardRepo) CreateGridTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	var sb strings.Builder
	sb.WriteString("INSERT INTO cells (gameid, y, x) VALUES ")
	args := make([]any, 0, model.BoardSize*model.BoardSize*3)
	for y := 1; y <= model.BoardSize; y++ {
		for x := 1; x <= model.BoardSize; x++ {
			if len(args) > 0 {
				sb.WriteString(",")
			}
			sb.WriteString("(?,?,?)")
			args = append(args, gameID, y, x)
		}
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return err
}

// CellByCoordsTx locks the cell at (y,x) and returns its id.
func (r *BoardRepo) CellByCoordsTx(ctx context.Context, tx *sql.Tx, gameID uint64, y, x int) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		"SELECT cellid FROM cells WHERE gameid = ? AND y = ? AND x = ? FOR UPDATE",
		gameID, y, x).Scan(&id)
	return id, err
}

// RandomCellsOutsideCenterTx picks n distinct random cells that are not part
// of the 2x2 starting block in the middle of the board.
func (r *BoardRepo) RandomCellsOutsideCenterTx(ctx context.Context, tx *sql.Tx, gameID uint64, n int) ([]uint64, error) {
	center := model.BoardSize / 2
	rows, err := tx.QueryContext(ctx, `
		SELECT cellid FROM cells
		WHERE gameid = ?
		  AND NOT (y IN (?,?) AND x IN (?,?))
		ORDER BY RAND()
		LIMIT ?`, gameID, center, center+1, center, center+1, n)
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

// PlaceClueTx hides a clue on a cell.
func (r *BoardRepo) PlaceClueTx(ctx context.Context, tx *sql.Tx, cellID, clueID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO clues_in_game (cellid, clueid, status) VALUES (?,?,'hidden')",
		cellID, clueID)
	return err
}

// ClueAtCellTx locks the clue placement on a cell, if one exists, and
// resolves its catalog name.  sql.ErrNoRows means the cell is empty.
func (r *BoardRepo) ClueAtCellTx(ctx context.Context, tx *sql.Tx, cellID uint64) (uint64, string, model.Status, error) {
	var clueID uint64
	var name, raw string
	err := tx.QueryRowContext(ctx, `
		SELECT cig.clueid, cl.item_name, cig.status
		FROM clues_in_game cig
		JOIN clues cl ON cl.clueid = cig.clueid
		WHERE cig.cellid = ?
		FOR UPDATE`, cellID).Scan(&clueID, &name, &raw)
	if err != nil {
		return 0, "", "", err
	}
	st, err := model.ParseStatus(raw)
	return clueID, name, st, err
}

// OpenClueTx flips a clue placement to opened.
func (r *BoardRepo) OpenClueTx(ctx context.Context, tx *sql.Tx, cellID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE clues_in_game SET status = 'opened' WHERE cellid = ?", cellID)
	return err
}

// ListCluePlacements returns every clue on the board with its coordinates
// and catalog name, for state snapshots.
func (r *BoardRepo) ListCluePlacements(ctx context.Context, gameID uint64) ([]model.CluePlacement, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT cig.cellid, cig.clueid, cl.item_name, c.y, c.x, cig.status
		FROM clues_in_game cig
		JOIN cells c ON c.cellid = cig.cellid
		JOIN clues cl ON cl.clueid = cig.clueid
		WHERE c.gameid = ?
		ORDER BY cig.clueid`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CluePlacement
	for rows.Next() {
		var cp model.CluePlacement
		var raw string
		if err := rows.Scan(&cp.CellID, &cp.ClueID, &cp.Name, &cp.Y, &cp.X, &raw); err != nil {
			return nil, err
		}
		st, err := model.ParseStatus(raw)
		if err != nil {
			return nil, err
		}
		cp.Status = st
		out = append(out, cp)
	}
	return out, rows.Err()
}

// DeleteCluesByGameTx removes clue placements during teardown.
func (r *BoardRepo) DeleteCluesByGameTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE cig FROM clues_in_game cig
		JOIN cells c ON c.cellid = cig.cellid
		WHERE c.gameid = ?`, gameID)
	return err
}

// DeleteCellsByGameTx removes the grid during teardown, after the players
// and clues on it are gone.
func (r *BoardRepo) DeleteCellsByGameTx(ctx context.Context, tx *sql.Tx, gameID uint64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cells WHERE gameid = ?", gameID)
	return err
}
