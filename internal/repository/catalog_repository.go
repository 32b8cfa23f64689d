package repository

import (
	"context"
	"database/sql"
)

// CatalogRepo reads the static `suspects` and `clues` catalogs seeded by
// schema.sql.
type CatalogRepo struct{ DB *sql.DB }

func NewCatalogRepo(db *sql.DB) *CatalogRepo { return &CatalogRepo{DB: db} }

// RandomSuspectIDTx picks the fox's identity for a new game.
func (r *CatalogRepo) RandomSuspectIDTx(ctx context.Context, tx *sql.Tx) (uint64, error) {
	var id uint64
	err := tx.QueryRowContext(ctx,
		"SELECT susid FROM suspects ORDER BY RAND() LIMIT 1").Scan(&id)
	return id, err
}

// ListSuspectIDsTx returns every catalog suspect id.
func (r *CatalogRepo) ListSuspectIDsTx(ctx context.Context, tx *sql.Tx) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx, "SELECT susid FROM suspects ORDER BY susid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

// RandomClueIDsTx picks n distinct clue ids for the board.
func (r *CatalogRepo) RandomClueIDsTx(ctx context.Context, tx *sql.Tx, n int) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT clueid FROM clues ORDER BY RAND() LIMIT ?", n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIDs(rows)
}

// SuspectIDByName resolves a suspect name case-insensitively; false when no
// such suspect exists.
func (r *CatalogRepo) SuspectIDByName(ctx context.Context, name string) (uint64, bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT susid FROM suspects WHERE LOWER(TRIM(susname)) = LOWER(TRIM(?)) LIMIT 1",
		name).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func scanIDs(rows *sql.Rows) ([]uint64, error) {
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
