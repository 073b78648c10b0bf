package db

import (
	"context"
	"fmt"
)

type migration struct {
	version int
	sql     string
}

// Every statement must be valid on both sqlite and postgres: TEXT keys,
// TEXT timestamps, ON CONFLICT upserts.
var migrations = []migration{
	{1, migrationV1ProjectTasks},
	{2, migrationV2FileRecords},
	{3, migrationV3Projects},
	{4, migrationV4AnalyticsEvents},
}

const migrationV1ProjectTasks = `
CREATE TABLE IF NOT EXISTS project_tasks (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	assigned_to TEXT,
	status TEXT NOT NULL DEFAULT 'pending',
	position INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_project_tasks_created_at ON project_tasks(created_at);
`

const migrationV2FileRecords = `
CREATE TABLE IF NOT EXISTS file_records (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	content_text TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`

const migrationV3Projects = `
CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	slug TEXT NOT NULL UNIQUE,
	project_dir TEXT NOT NULL,
	task_count INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
`

const migrationV4AnalyticsEvents = `
CREATE TABLE IF NOT EXISTS analytics_events (
	id TEXT PRIMARY KEY,
	event_name TEXT NOT NULL,
	event_time TEXT NOT NULL,
	subject TEXT,
	session_id TEXT,
	platform TEXT NOT NULL DEFAULT 'unknown',
	app_version TEXT,
	source_event_key TEXT UNIQUE,
	properties TEXT NOT NULL DEFAULT '{}'
);
CREATE INDEX IF NOT EXISTS idx_analytics_events_name ON analytics_events(event_name);
`

// Migrate applies all pending schema migrations, one transaction each.
func (db *DB) Migrate(ctx context.Context) error {
	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		err := db.Transaction(ctx, func(tx *Tx) error {
			if _, err := tx.ExecContext(ctx, m.sql); err != nil {
				return fmt.Errorf("apply migration v%d: %w", m.version, err)
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
				m.version, FormatTime(timeNow()),
			); err != nil {
				return fmt.Errorf("record migration v%d: %w", m.version, err)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration, 0 for a fresh
// database. It creates the schema_version table when missing.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL
		)
	`)
	if err != nil {
		return 0, fmt.Errorf("create schema_version table: %w", err)
	}

	var v int
	row := db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	if err := row.Scan(&v); err != nil {
		return 0, fmt.Errorf("get schema version: %w", err)
	}
	return v, nil
}

// LatestVersion is the version Migrate brings a database to.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}
