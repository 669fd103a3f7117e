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

// Slug uniqueness is enforced here, at the storage layer: the allocator's
// check-then-insert is not atomic, so the UNIQUE constraints below are the
// authoritative guard and a violation is treated as a retryable conflict.
var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_services",
		SQL: `CREATE TABLE IF NOT EXISTS services (
  id                   UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title                TEXT        NOT NULL,
  slug                 VARCHAR(200) NOT NULL UNIQUE,
  eyebrow              TEXT        NOT NULL DEFAULT '',
  hero_headline        TEXT        NOT NULL DEFAULT '',
  hero_subcopy         TEXT        NOT NULL DEFAULT '',
  hero_media_url       TEXT        NOT NULL DEFAULT '',
  stat_projects        VARCHAR(20) NOT NULL DEFAULT '650+',
  stat_years           VARCHAR(20) NOT NULL DEFAULT '20+',
  stat_specialists     VARCHAR(20) NOT NULL DEFAULT '1000+',
  seo_meta_title       VARCHAR(70)  NOT NULL DEFAULT '',
  seo_meta_description VARCHAR(160) NOT NULL DEFAULT '',
  created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_insights",
		SQL: `CREATE TABLE IF NOT EXISTS insights (
  id              UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  service_id      UUID        NOT NULL REFERENCES services(id) ON DELETE CASCADE,
  title           TEXT        NOT NULL,
  slug            VARCHAR(220) NOT NULL UNIQUE,
  tag             VARCHAR(40) NOT NULL DEFAULT '',
  excerpt         VARCHAR(240) NOT NULL DEFAULT '',
  cover_image_url TEXT        NOT NULL DEFAULT '',
  body            JSONB       NOT NULL DEFAULT '{"version":"","generated_at":0,"blocks":[]}',
  read_minutes    SMALLINT    NOT NULL DEFAULT 4 CHECK (read_minutes >= 0),
  published       BOOLEAN     NOT NULL DEFAULT false,
  published_at    TIMESTAMPTZ,
  created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_insights_service_published",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_insights_service_published ON insights (service_id, published, published_at DESC);`,
	},
	{
		Name: "create_table_project_images",
		SQL: `CREATE TABLE IF NOT EXISTS project_images (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  service_id UUID        NOT NULL REFERENCES services(id) ON DELETE CASCADE,
  thumb_url  TEXT        NOT NULL,
  full_url   TEXT        NOT NULL,
  caption    VARCHAR(140) NOT NULL DEFAULT '',
  sort_order INTEGER     NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_project_images_service_sort",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_project_images_service_sort ON project_images (service_id, sort_order, id);`,
	},
	{
		Name: "create_table_service_features",
		SQL: `CREATE TABLE IF NOT EXISTS service_features (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  service_id UUID        NOT NULL REFERENCES services(id) ON DELETE CASCADE,
  icon_class VARCHAR(60) NOT NULL DEFAULT 'fa-solid fa-seedling',
  label      VARCHAR(120) NOT NULL,
  sort_order INTEGER     NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_service_capabilities",
		SQL: `CREATE TABLE IF NOT EXISTS service_capabilities (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  service_id UUID        NOT NULL REFERENCES services(id) ON DELETE CASCADE,
  title      VARCHAR(120) NOT NULL,
  blurb      VARCHAR(240) NOT NULL DEFAULT '',
  icon_class VARCHAR(60) NOT NULL DEFAULT 'fa-solid fa-circle-check',
  sort_order INTEGER     NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_service_process_steps",
		SQL: `CREATE TABLE IF NOT EXISTS service_process_steps (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  service_id  UUID        NOT NULL REFERENCES services(id) ON DELETE CASCADE,
  step_no     SMALLINT    NOT NULL DEFAULT 1 CHECK (step_no >= 1),
  title       VARCHAR(120) NOT NULL,
  description VARCHAR(300) NOT NULL DEFAULT '',
  sort_order  INTEGER     NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_service_faqs",
		SQL: `CREATE TABLE IF NOT EXISTS service_faqs (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  service_id UUID        NOT NULL REFERENCES services(id) ON DELETE CASCADE,
  question   VARCHAR(220) NOT NULL,
  answer     TEXT        NOT NULL,
  sort_order INTEGER     NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_service_testimonials",
		SQL: `CREATE TABLE IF NOT EXISTS service_testimonials (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  service_id   UUID        NOT NULL REFERENCES services(id) ON DELETE CASCADE,
  author       VARCHAR(120) NOT NULL,
  role_company VARCHAR(160) NOT NULL DEFAULT '',
  quote        TEXT        NOT NULL,
  headshot_url TEXT        NOT NULL DEFAULT '',
  sort_order   INTEGER     NOT NULL DEFAULT 0
);`,
	},
	{
		Name: "create_table_media_assets",
		SQL: `CREATE TABLE IF NOT EXISTS media_assets (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  url          TEXT        NOT NULL,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_media_assets_created_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_media_assets_created_at ON media_assets (created_at);`,
	},
}

// EnsureMigrated checks if the 'services' table exists and runs migrations if it doesn't.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()

	logJSON(loc, map[string]any{
		"component": "database",
		"event":     "db_migration_check",
		"status":    "starting",
		"db_host":   dbHost,
	})

	var exists bool
	query := "SELECT to_regclass('public.services') IS NOT NULL"
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
