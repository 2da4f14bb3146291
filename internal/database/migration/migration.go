package migration

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable marks a migrated schema.
const sentinelTable = "public.protocols"

var steps = []migrationStep{
	{
		Name: "create_table_protocols",
		SQL: `CREATE TABLE IF NOT EXISTS protocols (
  id          TEXT        PRIMARY KEY,
  name        TEXT        NOT NULL,
  title       TEXT,
  description TEXT,
  docs        TEXT,
  logo_url    TEXT,
  category    TEXT,
  difficulty  TEXT,
  secret_word TEXT,
  status      TEXT        NOT NULL DEFAULT 'public' CHECK (status IN ('public', 'draft')),
  active      BOOLEAN     NOT NULL DEFAULT TRUE,
  order_index INTEGER     NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_questions",
		SQL: `CREATE TABLE IF NOT EXISTS questions (
  id          TEXT        PRIMARY KEY,
  protocol_id TEXT        NOT NULL REFERENCES protocols (id) ON DELETE CASCADE,
  text        TEXT        NOT NULL,
  category    TEXT        NOT NULL DEFAULT '',
  difficulty  TEXT        NOT NULL DEFAULT '',
  explanation TEXT,
  order_index INTEGER     NOT NULL DEFAULT 0,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_answers",
		SQL: `CREATE TABLE IF NOT EXISTS answers (
  id          TEXT    PRIMARY KEY,
  question_id TEXT    NOT NULL REFERENCES questions (id) ON DELETE CASCADE,
  text        TEXT    NOT NULL,
  is_correct  BOOLEAN NOT NULL DEFAULT FALSE,
  explanation TEXT,
  order_index INTEGER NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_index_protocols_listing",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_protocols_listing ON protocols (status, active, order_index);`,
	},
	{
		Name: "create_index_questions_protocol_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_questions_protocol_id ON questions (protocol_id, order_index);`,
	},
	{
		Name: "create_index_answers_question_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_answers_question_id ON answers (question_id, order_index);`,
	},
}

// EnsureMigrated checks if the 'protocols' table exists and runs migrations if it doesn't.
// It reports whether the schema was created by this call.
func EnsureMigrated(ctx context.Context, db *sql.DB, dbHost string) (bool, error) {
	start := time.Now()
	log := slog.With("component", "database", "db_host", dbHost)

	log.Info("db_migration_check", "status", "starting")

	var exists bool
	query := "SELECT to_regclass('" + sentinelTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error("db_migration_failed",
			"status", "error",
			"error_message", fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return false, fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info("db_migration_skip",
			"status", "success",
			"msg", "schema already exists, skipping migration",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return false, nil
	}

	log.Info("db_migration_start", "status", "in_progress")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error("db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error_message", err.Error(),
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return false, fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info("db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.Info("db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return true, nil
}
