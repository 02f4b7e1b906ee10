package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `json:"user_id" db:"user_id"`             // Primary key
	Username     string    `json:"username" db:"username"`           // Unique username
	Email        string    `json:"email" db:"email"`                 // Unique user email
	PasswordHash string    `json:"password_hash" db:"password_hash"` // Bcrypt password hash
	Activated    bool      `json:"activated" db:"activated"`         // Whether the account is activated
	SecretKey    string    `json:"secret_key" db:"secret_key"`       // Per-user JWT signing secret (hex)
	ClientID     string    `json:"client_id" db:"client_id"`         // Public client identifier (hex, uppercase)
	CreatedAt    time.Time `json:"created_at" db:"created_at"`       // Creation timestamp
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`       // Last update timestamp
}
