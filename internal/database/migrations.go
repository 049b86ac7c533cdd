package database

import (
	"database/sql"
	"fmt"
	"log"
)

// Schema creates every table the application needs. Statements are idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS bantora_users (
	phone_number VARCHAR(20) PRIMARY KEY,
	password_hash VARCHAR(255) NOT NULL,
	country_code VARCHAR(2) NOT NULL,
	enabled BOOLEAN NOT NULL DEFAULT TRUE,
	verified BOOLEAN NOT NULL DEFAULT TRUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_login_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS bantora_polls (
	id UUID PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	creator_phone VARCHAR(20) NOT NULL,
	category VARCHAR(50) NOT NULL DEFAULT '',
	scope VARCHAR(20) NOT NULL,
	status VARCHAR(20) NOT NULL,
	start_time TIMESTAMP NOT NULL,
	end_time TIMESTAMP NOT NULL,
	allow_multiple_votes BOOLEAN NOT NULL DEFAULT FALSE,
	total_votes BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_polls_status_end ON bantora_polls(status, end_time);
CREATE INDEX IF NOT EXISTS idx_polls_category ON bantora_polls(category);

CREATE TABLE IF NOT EXISTS bantora_poll_options (
	id UUID PRIMARY KEY,
	poll_id UUID NOT NULL REFERENCES bantora_polls(id) ON DELETE CASCADE,
	option_text VARCHAR(500) NOT NULL,
	option_order INTEGER NOT NULL,
	votes_count BIGINT NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_poll_options_poll ON bantora_poll_options(poll_id);

CREATE TABLE IF NOT EXISTS bantora_votes (
	id UUID PRIMARY KEY,
	poll_id UUID NOT NULL REFERENCES bantora_polls(id) ON DELETE CASCADE,
	option_id UUID NOT NULL REFERENCES bantora_poll_options(id) ON DELETE CASCADE,
	user_phone VARCHAR(20),
	anonymous BOOLEAN NOT NULL DEFAULT FALSE,
	voted_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	ip_address VARCHAR(45),
	user_agent VARCHAR(500)
);

CREATE INDEX IF NOT EXISTS idx_votes_poll_user ON bantora_votes(poll_id, user_phone);

CREATE TABLE IF NOT EXISTS bantora_ideas (
	id UUID PRIMARY KEY,
	user_phone VARCHAR(20) NOT NULL,
	content TEXT NOT NULL,
	category VARCHAR(50) NOT NULL DEFAULT '',
	hashtags TEXT[] NOT NULL DEFAULT '{}',
	status VARCHAR(20) NOT NULL,
	summary TEXT NOT NULL DEFAULT '',
	upvotes BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_ideas_status ON bantora_ideas(status);
`

// RunMigrations creates the necessary database tables
func RunMigrations() error {
	if DB == nil {
		return fmt.Errorf("database connection not initialized")
	}

	if err := Migrate(DB); err != nil {
		return err
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// Migrate applies Schema to the given connection
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create bantora tables: %w", err)
	}
	return nil
}
