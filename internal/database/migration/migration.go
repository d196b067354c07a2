// Package migration creates the notes schema in PostgreSQL.
package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

// Step is one named DDL statement.
type Step struct {
	Name string
	SQL  string
}

// Steps returns the DDL for a notes table named table. Every statement is idempotent.
func Steps(table string) []Step {
	t := pgx.Identifier{table}.Sanitize()
	idx := pgx.Identifier{"idx_" + table + "_name"}.Sanitize()
	return []Step{
		{
			Name: "create_table_" + table,
			SQL: fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  note_id    UUID        NOT NULL UNIQUE,
  name       TEXT        NOT NULL,
  created_at DATE        NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  PRIMARY KEY (created_at, name)
);`, t),
		},
		{
			Name: "create_index_" + table + "_name",
			SQL:  fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s ON %s (name);`, idx, t),
		},
	}
}

// EnsureMigrated checks whether table exists and runs the migration steps if it doesn't.
// Each stage is logged as a structured event.
func EnsureMigrated(ctx context.Context, db *sql.DB, table string, log logrus.FieldLogger) error {
	start := time.Now()
	log = log.WithFields(logrus.Fields{"component": "database", "table": table})

	log.WithFields(logrus.Fields{"event": "db_migration_check", "status": "starting"}).Info("checking schema")

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", pgx.Identifier{table}.Sanitize()).Scan(&exists)
	if err != nil {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_failed",
			"status":      "error",
			"duration_ms": time.Since(start).Milliseconds(),
		}).WithError(err).Error("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.WithFields(logrus.Fields{
			"event":       "db_migration_skip",
			"status":      "success",
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("schema already exists, skipping migration")
		return nil
	}

	log.WithFields(logrus.Fields{"event": "db_migration_start", "status": "in_progress"}).Info("applying schema")

	for _, step := range Steps(table) {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.WithFields(logrus.Fields{
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			}).WithError(err).Error("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.WithFields(logrus.Fields{
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		}).Info("migration step applied")
	}

	log.WithFields(logrus.Fields{
		"event":       "db_migration_success",
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("schema migrated")

	return nil
}
