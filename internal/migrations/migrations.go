// Package migrations holds the ordered, additive schema history of the tasks store.
//
//	00001  create the tasks table if it does not exist (SQL, per dialect)
//	00002  add the status column if it is missing (Go)
//	00003  fill null status and priority with their defaults (SQL, per dialect)
//
// 00001 and 00002 are no-ops against a table that already has their shape, so a
// database created before versioning was introduced is adopted in place.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed postgres/*.sql sqlite/*.sql
var sqlFiles embed.FS

// NewProvider returns a goose provider with every migration for dialect.
func NewProvider(db *sql.DB, dialect goose.Dialect) (*goose.Provider, error) {
	var dir string
	switch dialect {
	case goose.DialectPostgres:
		dir = "postgres"
	case goose.DialectSQLite3:
		dir = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported dialect %q", dialect)
	}
	fsys, err := fs.Sub(sqlFiles, dir)
	if err != nil {
		return nil, err
	}
	return goose.NewProvider(dialect, db, fsys,
		goose.WithDisableGlobalRegistry(true),
		goose.WithGoMigrations(addStatusColumn(dialect)),
	)
}

// Up applies every pending migration.
func Up(ctx context.Context, db *sql.DB, dialect goose.Dialect, log zerolog.Logger) error {
	p, err := NewProvider(db, dialect)
	if err != nil {
		return fmt.Errorf("goose provider: %w", err)
	}
	results, err := p.Up(ctx)
	for _, r := range results {
		log.Info().
			Int64("version", r.Source.Version).
			Str("source", r.Source.Path).
			Dur("took", r.Duration).
			Msg("applied migration")
	}
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func addStatusColumn(dialect goose.Dialect) *goose.Migration {
	up := func(ctx context.Context, tx *sql.Tx) error {
		exists, err := hasColumn(ctx, tx, dialect, "tasks", "status")
		if err != nil || exists {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`ALTER TABLE tasks ADD COLUMN status TEXT DEFAULT 'ongoing' CHECK (status IN ('ongoing', 'completed'))`)
		return err
	}
	down := func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `ALTER TABLE tasks DROP COLUMN status`)
		return err
	}
	return goose.NewGoMigration(2,
		&goose.GoFunc{RunTx: up, Mode: goose.TransactionEnabled},
		&goose.GoFunc{RunTx: down, Mode: goose.TransactionEnabled},
	)
}

func hasColumn(ctx context.Context, tx *sql.Tx, dialect goose.Dialect, table, column string) (bool, error) {
	var query string
	switch dialect {
	case goose.DialectPostgres:
		query = `SELECT COUNT(*) FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = $1 AND column_name = $2`
	default:
		query = `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`
	}
	var n int
	if err := tx.QueryRowContext(ctx, query, table, column).Scan(&n); err != nil {
		return false, fmt.Errorf("inspect %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}
