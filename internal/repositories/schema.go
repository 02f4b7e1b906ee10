package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Schema contains the SQL commands that set up the database for the service.
const Schema = `
CREATE EXTENSION IF NOT EXISTS "pgcrypto";
CREATE TABLE IF NOT EXISTS users (
	user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	username VARCHAR(255) UNIQUE NOT NULL,
	email VARCHAR(255) UNIQUE NOT NULL,
	password_hash VARCHAR(60) NOT NULL,
	activated BOOLEAN DEFAULT false,
	secret_key VARCHAR(64) UNIQUE NOT NULL,
	client_id VARCHAR(14) UNIQUE NOT NULL,
	created_at TIMESTAMP WITH TIME ZONE DEFAULT current_timestamp,
	updated_at TIMESTAMP WITH TIME ZONE DEFAULT current_timestamp
);
CREATE INDEX IF NOT EXISTS users_username_idx ON users (username);
CREATE INDEX IF NOT EXISTS users_email_idx ON users (email);
`

// ApplySchema creates the database objects the service depends on.
func ApplySchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, Schema)
	return err
}
