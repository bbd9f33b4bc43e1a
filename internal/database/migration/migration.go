package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_applications",
		SQL: `CREATE TABLE IF NOT EXISTS applications (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id             UUID        NOT NULL,
  status              TEXT        NOT NULL DEFAULT 'pending'
                                  CHECK (status IN ('pending', 'submitted', 'approved', 'completed', 'rejected')),
  current_stage_id    UUID,
  stand_number        TEXT        NOT NULL,
  postal_address      TEXT        NOT NULL,
  district            TEXT        NOT NULL DEFAULT 'Not specified',
  construction_type   TEXT        NOT NULL,
  project_description TEXT        NOT NULL,
  architect           TEXT        NOT NULL,
  owner_name          TEXT        NOT NULL,
  start_date          DATE,
  completion_date     DATE,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_application_stages",
		SQL: `CREATE TABLE IF NOT EXISTS application_stages (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name         TEXT        NOT NULL,
  description  TEXT        NOT NULL DEFAULT '',
  order_number INTEGER     NOT NULL UNIQUE,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_stage_requirements",
		SQL: `CREATE TABLE IF NOT EXISTS stage_requirements (
  id               UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  stage_id         UUID        NOT NULL REFERENCES application_stages(id),
  requirement_type TEXT        NOT NULL,
  requirement_name TEXT        NOT NULL,
  is_mandatory     BOOLEAN     NOT NULL DEFAULT TRUE,
  description      TEXT        NOT NULL DEFAULT '',
  created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_application_progress",
		SQL: `CREATE TABLE IF NOT EXISTS application_progress (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  application_id UUID        NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
  stage_id       UUID        NOT NULL REFERENCES application_stages(id),
  status         TEXT        NOT NULL DEFAULT 'in_progress'
                             CHECK (status IN ('in_progress', 'completed')),
  started_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  completed_at   TIMESTAMPTZ,
  completed_by   TEXT,
  notes          TEXT,
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (application_id, stage_id)
);`,
	},
	{
		Name: "create_table_requirement_completion",
		SQL: `CREATE TABLE IF NOT EXISTS requirement_completion (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  application_id UUID        NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
  requirement_id UUID        NOT NULL REFERENCES stage_requirements(id),
  status         TEXT        NOT NULL DEFAULT 'pending'
                             CHECK (status IN ('pending', 'completed', 'rejected')),
  completed_at   TIMESTAMPTZ,
  verified_by    TEXT,
  reference_id   TEXT,
  notes          TEXT,
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  UNIQUE (application_id, requirement_id)
);`,
	},
	{
		Name: "create_table_inspection_types",
		SQL: `CREATE TABLE IF NOT EXISTS inspection_types (
  id   UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
  name TEXT NOT NULL UNIQUE
);`,
	},
	{
		Name: "create_table_inspectors",
		SQL: `CREATE TABLE IF NOT EXISTS inspectors (
  id                UUID    PRIMARY KEY DEFAULT uuid_generate_v4(),
  name              TEXT    NOT NULL,
  work_id           TEXT    NOT NULL UNIQUE,
  inspection_type   TEXT    NOT NULL,
  assigned_district TEXT    NOT NULL,
  available         BOOLEAN NOT NULL DEFAULT TRUE
);`,
	},
	{
		Name: "create_table_inspection_schedules",
		SQL: `CREATE TABLE IF NOT EXISTS inspection_schedules (
  id             UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  application_id UUID        NOT NULL REFERENCES applications(id) ON DELETE CASCADE,
  inspector_id   UUID        NOT NULL REFERENCES inspectors(id),
  stage_id       UUID        NOT NULL REFERENCES application_stages(id),
  scheduled_date DATE        NOT NULL,
  scheduled_time TEXT        NOT NULL,
  status         TEXT        NOT NULL DEFAULT 'scheduled'
                             CHECK (status IN ('scheduled', 'completed', 'cancelled')),
  notes          TEXT,
  created_by     TEXT,
  created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  user_id             UUID        NOT NULL,
  application_id      UUID        REFERENCES applications(id) ON DELETE CASCADE,
  file_name           TEXT        NOT NULL,
  storage_path        TEXT        NOT NULL UNIQUE,
  file_type           TEXT        NOT NULL,
  file_size           BIGINT      NOT NULL CHECK (file_size >= 0),
  extracted_text      TEXT        NOT NULL DEFAULT '',
  status              TEXT        NOT NULL DEFAULT 'pending'
                                  CHECK (status IN ('pending', 'approved', 'rejected', 'needs_revision')),
  extraction_metadata JSONB,
  compliance_result   JSONB,
  created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_progress_application",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_application_progress_app_id ON application_progress (application_id);`,
	},
	{
		Name: "create_index_requirement_completion_application",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_requirement_completion_app_id ON requirement_completion (application_id);`,
	},
	{
		Name: "create_index_schedules_inspector_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_inspection_schedules_inspector_date ON inspection_schedules (inspector_id, scheduled_date);`,
	},
	{
		Name: "create_index_documents_application",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_application_id ON documents (application_id);`,
	},
}

// EnsureMigrated checks if the 'applications' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.applications') IS NOT NULL"
	err := db.QueryRowContext(ctx, query).Scan(&exists)
	if err != nil {
		logJSON(loc, map[string]any{
			"component":     "database",
			"event":         "db_migration_failed",
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"db_host":       dbHost,
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		logJSON(loc, map[string]any{
			"component":   "database",
			"event":       "db_migration_skip",
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"db_host":     dbHost,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"db_host":   dbHost,
	})

	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			logJSON(loc, map[string]any{
				"component":        "database",
				"event":            "db_migration_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"db_host":          dbHost,
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		logJSON(loc, map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"db_host":          dbHost,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(loc, map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"db_host":     dbHost,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
