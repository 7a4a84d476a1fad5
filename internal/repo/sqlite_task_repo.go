package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"

	dom "taskstore/internal/domain"

	_ "modernc.org/sqlite"
)

// SQLiteTaskRepo stores tasks in a local SQLite file.
type SQLiteTaskRepo struct {
	db *sql.DB
}

func NewSQLiteTaskRepo(db *sql.DB) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

// SQLiteDSN builds the modernc.org/sqlite data source name for a file path.
func SQLiteDSN(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	return "file:" + path + "?" + q.Encode()
}

// OpenSQLite opens the database file at path, creating it if needed.
// The handle holds a single connection, so writers never contend inside the process.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", SQLiteDSN(path))
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

func (r *SQLiteTaskRepo) List(ctx context.Context, sort dom.TaskSort) ([]dom.Task, error) {
	rows, err := r.db.QueryContext(ctx, listQuery(sort))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	list := []dom.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	return t, sqlNoRows(err)
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	var out dom.Task
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = scanTask(tx.QueryRowContext(ctx, insertQuery(question), insertArgs(t)...))
		return err
	})
	return out, err
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, id int64, patch dom.TaskPatch) (dom.Task, error) {
	query, args := compileUpdate(id, patch, question)
	var out dom.Task
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = scanTask(tx.QueryRowContext(ctx, query, args...))
		return err
	})
	return out, sqlNoRows(err)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id int64) (dom.Task, error) {
	query := `DELETE FROM tasks WHERE id = ? RETURNING ` + taskColumns
	var out dom.Task
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = scanTask(tx.QueryRowContext(ctx, query, id))
		return err
	})
	return out, sqlNoRows(err)
}

func (r *SQLiteTaskRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// withTx runs fn in a transaction that is committed when fn succeeds
// and rolled back otherwise.
func (r *SQLiteTaskRepo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func sqlNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}
