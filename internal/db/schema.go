package db

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            SERIAL PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'user',
	email         TEXT NOT NULL DEFAULT '',
	phone         TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS parking_lots (
	id          SERIAL PRIMARY KEY,
	name        TEXT NOT NULL,
	hourly_rate DOUBLE PRECISION NOT NULL CHECK (hourly_rate > 0),
	address     TEXT NOT NULL,
	postal_code TEXT NOT NULL,
	capacity    INTEGER NOT NULL CHECK (capacity >= 1),
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS parking_spots (
	id          SERIAL PRIMARY KEY,
	lot_id      INTEGER NOT NULL REFERENCES parking_lots(id) ON DELETE CASCADE,
	spot_number INTEGER NOT NULL,
	status      TEXT NOT NULL DEFAULT 'available',
	UNIQUE (lot_id, spot_number)
);

-- Reservations are never deleted. Removing a spot (lot shrink or delete, both
-- gated on the spot being free) nulls spot_id and leaves the closed row.
CREATE TABLE IF NOT EXISTS reservations (
	id         SERIAL PRIMARY KEY,
	spot_id    INTEGER REFERENCES parking_spots(id) ON DELETE SET NULL,
	user_id    INTEGER NOT NULL REFERENCES users(id),
	entry_time TIMESTAMPTZ NOT NULL,
	exit_time  TIMESTAMPTZ,
	cost       DOUBLE PRECISION
);

-- One open reservation per spot and per user at any time.
CREATE UNIQUE INDEX IF NOT EXISTS reservations_open_spot_uq
	ON reservations (spot_id) WHERE exit_time IS NULL;
CREATE UNIQUE INDEX IF NOT EXISTS reservations_open_user_uq
	ON reservations (user_id) WHERE exit_time IS NULL;
`

func EnsureSchema(conn *sql.DB) error {
	if _, err := conn.Exec(schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// SeedAdmin creates the administrator account on first start.
func SeedAdmin(conn *sql.DB, username, password string) error {
	var id int
	err := conn.QueryRow(`SELECT id FROM users WHERE username = $1`, username).Scan(&id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check admin user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	_, err = conn.Exec(
		`INSERT INTO users (username, password_hash, role) VALUES ($1, $2, $3)`,
		username, string(hash), RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}
	log.Printf("Admin user %q created", username)
	return nil
}
