package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strconv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/roach88/asof/internal/compiler"
	"github.com/roach88/asof/internal/ir"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Initial meta schema (pre-migration)
// 1 - Added asof_deployments table
const currentSchemaVersion = 1

// Store provides durable storage for block-versioned entities.
// Uses Postgres through the pgx stdlib driver.
type Store struct {
	db *sql.DB
}

// Open connects to the Postgres database at the given DSN.
// Applies the meta schema and migrations automatically.
//
// This function is idempotent - safe to call multiple times against the
// same database.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Apply meta schema and migrations
	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
// Should be called when the store is no longer needed.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// CreateEntityTables creates the table (and indexes) for each compiled
// entity spec. Safe to call only once per entity; entity DDL is not
// idempotent by design, so schema evolution goes through migrations.
func (s *Store) CreateEntityTables(ctx context.Context, specs []ir.EntitySpec) error {
	for i := range specs {
		ddl := compiler.GenerateDDL(&specs[i])
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table for %s: %w", specs[i].Name, err)
		}
	}
	return nil
}

// applySchema creates the meta tables if they don't exist and runs
// migrations. This function is idempotent.
func applySchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// runMigrations applies incremental schema migrations based on the
// schema_version row in asof_meta.
func runMigrations(ctx context.Context, db *sql.DB) error {
	version, err := schemaVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("get schema version: %w", err)
	}

	// Apply migrations sequentially
	if version < 1 {
		if err := migrateToV1(ctx, db); err != nil {
			return err
		}
		version = 1
	}

	// Record version after all migrations
	_, err = db.ExecContext(ctx, `
		insert into asof_meta (key, value) values ('schema_version', $1)
		on conflict (key) do update set value = excluded.value
	`, strconv.Itoa(currentSchemaVersion))
	if err != nil {
		return fmt.Errorf("set schema version: %w", err)
	}

	return nil
}

// schemaVersion reads the current schema version, defaulting to 0 when
// the row does not exist yet.
func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`select value from asof_meta where key = 'schema_version'`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(value)
}

// migrateToV1 adds the deployments table tracking the latest block each
// deployment has written.
func migrateToV1(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		create table if not exists asof_deployments (
			id           text primary key,
			latest_block int4 not null default 0
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate to v1: %w", err)
	}
	return nil
}
