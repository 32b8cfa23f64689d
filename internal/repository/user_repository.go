package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/nikitusuik/thefox/internal/model"
	"github.com/nikitusuik/thefox/internal/utils"
)

// UserRepo persists accounts in the `users` table.  Logins are matched
// case-insensitively everywhere so that "Alice" and "alice" are the same
// account.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt password hash and returns its ID.
func (r *UserRepo) Create(ctx context.Context, login, password string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (login, password_hash) VALUES (?,?)",
		strings.TrimSpace(login), hash)
	if err != nil {
		// 1062 is the MySQL duplicate-key error for the unique login index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrLoginExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByLogin fetches a user by login, ignoring case and surrounding
// whitespace.  The stored login (exact casing) is returned on the model.
func (r *UserRepo) GetByLogin(ctx context.Context, login string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, login, password_hash, created_at FROM users WHERE LOWER(TRIM(login)) = LOWER(TRIM(?)) LIMIT 1",
		login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, login, password_hash, created_at FROM users WHERE id = ? LIMIT 1",
		id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// ActiveGameID returns the id of the non-terminal game the login is seated
// in, if any.  Used by login so a returning client can resume its game.
func (r *UserRepo) ActiveGameID(ctx context.Context, login string) (uint64, bool, error) {
	var gameID uint64
	err := r.DB.QueryRowContext(ctx, `
		SELECT c.gameid
		FROM players p
		JOIN cells c ON c.cellid = p.cellid
		JOIN foxes f ON f.id = c.gameid
		WHERE p.login = ? AND f.foxpos >= 0 AND f.foxpos < ?
		LIMIT 1`, login, model.FoxEscapePos).Scan(&gameID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return gameID, true, nil
}
