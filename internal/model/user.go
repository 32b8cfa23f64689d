package model

import "time"

// User represents an account in the `users` table.  Accounts exist
// independently of games; a user becomes a Player only by joining.
type User struct {
	ID           uint64    // users.id
	Login        string    // users.login (unique, case-insensitive lookup)
	PasswordHash string    // users.password_hash (bcrypt)
	CreatedAt    time.Time // users.created_at
}

// RefreshToken models a row in `refresh_tokens`.  Only the SHA-256 hash of
// the token value is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
}
