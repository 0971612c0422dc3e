package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type migrationStep struct {
	Name string
	SQL  string
}

// The unique indexes over the concatenated data_room_id/parent/lower(name)
// scope key are the authoritative guarantee for case-insensitive sibling-name
// uniqueness; application-level conflict checks are only a pre-flight courtesy.
var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  email      TEXT        NOT NULL,
  subject    TEXT,
  name       TEXT,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT uq_users_email UNIQUE (email),
  CONSTRAINT uq_users_subject UNIQUE (subject)
);`,
	},
	{
		Name: "create_table_data_rooms",
		SQL: `CREATE TABLE IF NOT EXISTS data_rooms (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name        TEXT        NOT NULL,
  description TEXT,
  user_id     UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
  CONSTRAINT uq_data_rooms_owner_name UNIQUE (user_id, name)
);`,
	},
	{
		Name: "create_table_folders",
		SQL: `CREATE TABLE IF NOT EXISTS folders (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name         TEXT        NOT NULL,
  data_room_id UUID        NOT NULL REFERENCES data_rooms (id) ON DELETE CASCADE,
  parent_id    UUID        REFERENCES folders (id) ON DELETE CASCADE,
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name         TEXT        NOT NULL,
  data_room_id UUID        NOT NULL REFERENCES data_rooms (id) ON DELETE CASCADE,
  folder_id    UUID        REFERENCES folders (id) ON DELETE CASCADE,
  user_id      UUID        NOT NULL REFERENCES users (id) ON DELETE CASCADE,
  file_size    BIGINT      NOT NULL DEFAULT 0 CHECK (file_size >= 0),
  mime_type    TEXT        NOT NULL DEFAULT '',
  storage_path TEXT        NOT NULL DEFAULT '',
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_folders_scope_unique",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_folders_scope_name
  ON folders ((data_room_id::text || '|' || COALESCE(parent_id::text, '') || '|' || lower(name)));`,
	},
	{
		Name: "create_index_files_scope_unique",
		SQL: `CREATE UNIQUE INDEX IF NOT EXISTS uq_files_scope_name
  ON files ((data_room_id::text || '|' || COALESCE(folder_id::text, '') || '|' || lower(name)));`,
	},
	{
		Name: "create_index_users_subject",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_users_subject ON users (subject);`,
	},
	{
		Name: "create_index_folders_name_scope",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_folders_name_scope ON folders (data_room_id, parent_id, name);`,
	},
	{
		Name: "create_index_files_name_scope",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_name_scope ON files (data_room_id, folder_id, name);`,
	},
	{
		Name: "create_index_data_rooms_user",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_data_rooms_user ON data_rooms (user_id);`,
	},
}

// EnsureMigrated checks for the users sentinel table and runs the schema
// steps if it is missing. Steps are idempotent, so a partially applied
// schema converges on the next start.
func EnsureMigrated(ctx context.Context, db *sql.DB) error {
	start := time.Now()

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass('public.users') IS NOT NULL").Scan(&exists); err != nil {
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Info().
			Dur("duration", time.Since(start)).
			Msg("schema already exists, skipping migration")
		return nil
	}

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Error().
				Err(err).
				Str("migration_step", step.Name).
				Msg("migration step failed")
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		log.Info().
			Str("migration_step", step.Name).
			Dur("duration", time.Since(stepStart)).
			Msg("migration step applied")
	}

	log.Info().Dur("duration", time.Since(start)).Msg("migration complete")
	return nil
}
