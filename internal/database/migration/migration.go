package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type migrationStep struct {
	Name string
	SQL  string
}

// sentinelTable is checked before migrating; if it exists the schema is assumed current.
const sentinelTable = "public.companies"

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_companies",
		SQL: `CREATE TABLE IF NOT EXISTS companies (
  id            UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name          TEXT        NOT NULL,
  email         TEXT        NOT NULL,
  password_hash TEXT        NOT NULL,
  phone         TEXT        NOT NULL DEFAULT '',
  created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_companies_email",
		SQL:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_companies_email ON companies (lower(email));`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name         TEXT        NOT NULL,
  content_type TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  category     TEXT        NOT NULL,
  company_id   UUID        NOT NULL REFERENCES companies (id) ON DELETE CASCADE,
  storage_path TEXT        NOT NULL UNIQUE,
  uploaded_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  expiry_date  TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_files_company_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_company_id ON files (company_id);`,
	},
	{
		Name: "create_index_files_uploaded_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_uploaded_at ON files (uploaded_at);`,
	},
	{
		Name: "create_table_file_reads",
		SQL: `CREATE TABLE IF NOT EXISTS file_reads (
  file_id    UUID        NOT NULL REFERENCES files (id) ON DELETE CASCADE,
  company_id UUID        NOT NULL REFERENCES companies (id) ON DELETE CASCADE,
  read_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  PRIMARY KEY (file_id, company_id)
);`,
	},
	{
		Name: "create_table_notifications",
		SQL: `CREATE TABLE IF NOT EXISTS notifications (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  company_id UUID        NOT NULL REFERENCES companies (id) ON DELETE CASCADE,
  subject    TEXT        NOT NULL,
  message    TEXT        NOT NULL,
  sent_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
  read       BOOLEAN     NOT NULL DEFAULT false,
  read_at    TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_notifications_company_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_notifications_company_id ON notifications (company_id, sent_at);`,
	},
	{
		Name: "create_table_document_requests",
		SQL: `CREATE TABLE IF NOT EXISTS document_requests (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  company_id   UUID        NOT NULL REFERENCES companies (id) ON DELETE CASCADE,
  doc_type     TEXT        NOT NULL,
  description  TEXT        NOT NULL DEFAULT '',
  status       TEXT        NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'completed')),
  requested_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  completed_at TIMESTAMPTZ
);`,
	},
	{
		Name: "create_index_document_requests_company_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_document_requests_company_id ON document_requests (company_id, requested_at);`,
	},
	{
		Name: "create_table_activity_log",
		SQL: `CREATE TABLE IF NOT EXISTS activity_log (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  action     TEXT        NOT NULL,
  details    TEXT        NOT NULL,
  actor      TEXT        NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_activity_log_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_activity_log_created_at ON activity_log (created_at DESC);`,
	},
}

// EnsureMigrated checks if the sentinel table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger zerolog.Logger, dbHost string) error {
	start := time.Now()
	l := logger.With().Str("component", "database").Str("db_host", dbHost).Logger()

	l.Info().Str("event", "db_migration_check").Str("status", "starting").Msg("checking schema")

	var exists bool
	query := "SELECT to_regclass('" + sentinelTable + "') IS NOT NULL"
	if err := db.QueryRowContext(ctx, query).Scan(&exists); err != nil {
		l.Error().Err(err).
			Str("event", "db_migration_failed").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("failed to check sentinel table")
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		l.Info().
			Str("event", "db_migration_skip").
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("schema already exists, skipping migration")
		return nil
	}

	l.Info().Str("event", "db_migration_start").Int("steps", len(steps)).Msg("applying schema")

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			l.Error().Err(err).
				Str("event", "db_migration_failed").
				Str("migration_step", step.Name).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		l.Debug().
			Str("event", "db_migration_step").
			Str("migration_step", step.Name).
			Int64("step_duration_ms", time.Since(stepStart).Milliseconds()).
			Msg("migration step applied")
	}

	l.Info().
		Str("event", "db_migration_success").
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("schema migrated")

	return nil
}
