package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// migration upgrades the schema to version. Each runs in its own
// transaction together with the user_version bump.
type migration struct {
	version int
	apply   func(ctx context.Context, tx *sql.Tx) error
}

// Schema history:
//
//	1 - index on compositions.seq
//	2 - cache scoped by parse configuration, compositions stored as ordered pairs
var migrations = []migration{
	{version: 1, apply: migrateToV1},
	{version: 2, apply: migrateToV2},
}

// Store is the SQLite composition cache and batch log.
//
// All access goes through a single connection: SQLite has one writer, and
// builder workers calling the cache concurrently queue on it.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and brings its schema up to
// date. path may be ":memory:" for a private in-memory database.
//
// Connections run with WAL journaling, NORMAL sync, a 5s busy timeout and
// foreign keys on.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	if err := setup(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func setup(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("apply %q: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return migrate(ctx, db)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// schemaVersion returns the version of the newest migration.
func schemaVersion() int {
	return migrations[len(migrations)-1].version
}

// migrate applies every migration newer than the database's user_version.
func migrate(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		if err := m.apply(ctx, tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			tx.Rollback()
			return fmt.Errorf("migrate to v%d: set user_version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migrate to v%d: commit: %w", m.version, err)
		}
	}
	return nil
}

func migrateToV1(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_compositions_seq ON compositions(seq)`)
	return err
}

// migrateToV2 scopes the cache by parse configuration. v1 cache rows carry
// no configuration and are dropped; the cache is rebuilt on demand. Batch
// rows are kept and their legacy object form still decodes.
func migrateToV2(ctx context.Context, tx *sql.Tx) error {
	scoped, err := hasColumn(ctx, tx, "compositions", "vocabulary")
	if err != nil {
		return err
	}
	if !scoped {
		if _, err := tx.ExecContext(ctx, `DROP TABLE compositions`); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return err
		}
	}

	legacyRows, err := hasColumn(ctx, tx, "batch_rows", "composition")
	if err != nil {
		return err
	}
	if legacyRows {
		if _, err := tx.ExecContext(ctx, `ALTER TABLE batch_rows RENAME COLUMN composition TO pairs`); err != nil {
			return err
		}
	}

	for _, stmt := range []string{
		`DROP INDEX IF EXISTS idx_compositions_seq`,
		`CREATE INDEX IF NOT EXISTS idx_compositions_vocabulary ON compositions(vocabulary, seq)`,
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func hasColumn(ctx context.Context, tx *sql.Tx, table, column string) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}
