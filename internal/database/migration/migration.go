package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// SentinelTable is checked before migrating; its presence means the schema is in place.
const SentinelTable = "cleanings"

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_rooms",
		SQL: `CREATE TABLE IF NOT EXISTS rooms (
  room_number     INTEGER     PRIMARY KEY,
  cleaning_status TEXT        NOT NULL DEFAULT 'AVAILABLE'
                  CHECK (cleaning_status IN ('AVAILABLE', 'SCHEDULED_FOR_CLEANING', 'BEING_CLEANED', 'CLEAN')),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_employees",
		SQL: `CREATE TABLE IF NOT EXISTS employees (
  id         SERIAL PRIMARY KEY,
  first_name TEXT   NOT NULL,
  last_name  TEXT   NOT NULL DEFAULT '',
  role       TEXT   NOT NULL
             CHECK (role IN ('RECEPTIONIST', 'HOUSEKEEPER', 'MAINTENANCE', 'ADMIN'))
);`,
	},
	{
		Name: "create_table_cleanings",
		SQL: `CREATE TABLE IF NOT EXISTS cleanings (
  id          BIGSERIAL PRIMARY KEY,
  room_number INTEGER   NOT NULL UNIQUE REFERENCES rooms (room_number),
  employee_id INTEGER   NOT NULL REFERENCES employees (id),
  date_added  BIGINT    NOT NULL,
  priority    INTEGER   NOT NULL CHECK (priority >= 0)
);`,
	},
	{
		Name: "create_index_cleanings_queue",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_cleanings_queue ON cleanings (priority DESC, date_added ASC, id ASC);`,
	},
	{
		Name: "create_index_cleanings_employee_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_cleanings_employee_id ON cleanings (employee_id);`,
	},
}

// EnsureMigrated creates the schema when the sentinel table is missing.
// Steps are idempotent, so a partially applied schema is completed on the next run.
func EnsureMigrated(ctx context.Context, db *sql.DB, log zerolog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With().Str("component", "database").Str("db_host", dbHost).Logger()

	log.Info().Str("event", "db_migration_check").Str("status", "starting").Send()

	var exists bool
	query := fmt.Sprintf("SELECT to_regclass('public.%s') IS NOT NULL", SentinelTable)
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		log.Error().
			Str("event", "db_migration_failed").
			Str("status", "error").
			Err(err).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Str("event", "db_migration_skip").
			Str("status", "success").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	log.Info().Str("event", "db_migration_start").Str("status", "in_progress").Send()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Str("event", "db_migration_failed").
				Str("status", "error").
				Str("migration_step", step.Name).
				Err(err).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Send()
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Info().
			Str("event", "db_migration_step").
			Str("status", "success").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Send()
	}

	log.Info().
		Str("event", "db_migration_success").
		Str("status", "success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Send()
	return nil
}
