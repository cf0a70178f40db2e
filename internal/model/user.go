package model

import "time"

// User represents an application user record as stored in the `users`
// table. The password hash is never serialized; handlers that need a
// public representation rely on the json tags below.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name (1–50 characters).
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password, write-only externally.
//  IsAdmin      – administrative privilege flag, defaults to false.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    `json:"id"`      // users.id
	Name         string    `json:"name"`    // users.name
	Email        string    `json:"email"`   // users.email
	PasswordHash string    `json:"-"`       // users.password_hash
	IsAdmin      bool      `json:"isAdmin"` // users.is_admin
	CreatedAt    time.Time `json:"-"`       // users.created_at
	UpdatedAt    time.Time `json:"-"`       // users.updated_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and contains metadata for expiry and
// revocation. The plain token is not stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
