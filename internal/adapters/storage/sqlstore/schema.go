package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS dinos (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		species TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		digestion_period_in_hours INTEGER NOT NULL,
		herbivore BOOLEAN NOT NULL DEFAULT FALSE,
		time TIMESTAMPTZ NOT NULL,
		park_id BIGINT NOT NULL DEFAULT 0,
		location TEXT NULL,
		last_fed TIMESTAMPTZ NULL,
		is_hungry BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE INDEX IF NOT EXISTS dinos_location_idx ON dinos (location)`,
	`CREATE TABLE IF NOT EXISTS grid (
		location TEXT PRIMARY KEY,
		last_visited TIMESTAMPTZ NULL,
		maintenance_due TIMESTAMPTZ NULL,
		repair_required BOOLEAN NOT NULL DEFAULT FALSE,
		last_maintenance TIMESTAMPTZ NULL,
		grid_status TEXT NOT NULL DEFAULT 'NA'
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS dinos (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		species TEXT NOT NULL DEFAULT '',
		gender TEXT NOT NULL DEFAULT '',
		digestion_period_in_hours INTEGER NOT NULL,
		herbivore BOOLEAN NOT NULL DEFAULT 0,
		time TEXT NOT NULL,
		park_id INTEGER NOT NULL DEFAULT 0,
		location TEXT NULL,
		last_fed TEXT NULL,
		is_hungry BOOLEAN NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS dinos_location_idx ON dinos (location)`,
	`CREATE TABLE IF NOT EXISTS grid (
		location TEXT PRIMARY KEY,
		last_visited TEXT NULL,
		maintenance_due TEXT NULL,
		repair_required BOOLEAN NOT NULL DEFAULT 0,
		last_maintenance TEXT NULL,
		grid_status TEXT NOT NULL DEFAULT 'NA'
	)`,
}

// EnsureSchema crea tablas e índices si no existen. No hay migraciones.
func EnsureSchema(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts := postgresSchema
	if d == SQLite {
		stmts = sqliteSchema
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure %s schema: %w", d, err)
		}
	}
	return nil
}
