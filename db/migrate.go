package db

import (
	"context"
	"database/sql"
	"fmt"
)

// Tables lists the application tables in dependency order.
var Tables = []string{
	"users",
	"tournaments",
	"tournament_registrations",
	"tournament_payments",
	"participants",
	"participant_members",
	"pools",
	"pool_participants",
	"matches",
	"match_players",
	"events",
	"licences",
	"inscriptions",
	"refresh_tokens",
	"official_leaderboards",
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT UNIQUE,
		name TEXT,
		nickname TEXT NOT NULL,
		discord TEXT,
		password_hash TEXT,
		role TEXT NOT NULL DEFAULT 'player',
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT users_nickname_key UNIQUE (nickname),
		CONSTRAINT users_role_check CHECK (role IN ('admin', 'editor', 'player'))
	)`,
	`CREATE TABLE IF NOT EXISTS tournaments (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		start_date TIMESTAMPTZ NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		type TEXT NOT NULL DEFAULT 'pool',
		mode TEXT NOT NULL DEFAULT 'single',
		status TEXT NOT NULL DEFAULT 'open',
		registrations_open BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tournament_registrations (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		registration_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, tournament_id)
	)`,
	`CREATE TABLE IF NOT EXISTS tournament_payments (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		paid BOOLEAN NOT NULL DEFAULT FALSE,
		reference TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (user_id, tournament_id)
	)`,
	`CREATE TABLE IF NOT EXISTS participants (
		id SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		name TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS participant_members (
		participant_id INTEGER NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		PRIMARY KEY (participant_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS pools (
		id SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pool_participants (
		pool_id INTEGER NOT NULL REFERENCES pools(id) ON DELETE CASCADE,
		participant_id INTEGER NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		PRIMARY KEY (pool_id, participant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS matches (
		id SERIAL PRIMARY KEY,
		tournament_id INTEGER NOT NULL REFERENCES tournaments(id) ON DELETE CASCADE,
		pool_id INTEGER REFERENCES pools(id) ON DELETE SET NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		round INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS match_players (
		match_id INTEGER NOT NULL REFERENCES matches(id) ON DELETE CASCADE,
		participant_id INTEGER NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		score DOUBLE PRECISION,
		PRIMARY KEY (match_id, participant_id)
	)`,
	`CREATE TABLE IF NOT EXISTS events (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		organiser TEXT,
		place TEXT,
		date TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS licences (
		id SERIAL PRIMARY KEY,
		ligue TEXT NOT NULL,
		comite TEXT NOT NULL,
		club_number TEXT NOT NULL,
		club_name TEXT NOT NULL,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		category TEXT NOT NULL,
		licence_number TEXT NOT NULL,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		CONSTRAINT licences_licence_number_key UNIQUE (licence_number)
	)`,
	`CREATE TABLE IF NOT EXISTS inscriptions (
		id SERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		club TEXT NOT NULL,
		player_number INTEGER,
		category_simple TEXT,
		category_double TEXT,
		doublette INTEGER REFERENCES inscriptions(id) ON DELETE SET NULL
	)`,
	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		expires_at TIMESTAMPTZ NOT NULL,
		revoked BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS official_leaderboards (
		board TEXT PRIMARY KEY,
		data JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_matches_tournament ON matches (tournament_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_tournaments_start_date ON tournaments (start_date)`,
}

// Migrate creates any missing table. It is safe to run on every start.
func Migrate(ctx context.Context, conn *sql.DB) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}
