package repo

import (
	"context"
	"errors"

	dom "taskstore/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) List(ctx context.Context, sort dom.TaskSort) ([]dom.Task, error) {
	rows, err := r.db.Query(ctx, listQuery(sort))
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

func (r *PGTaskRepo) GetByID(ctx context.Context, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	t, err := scanTask(r.db.QueryRow(ctx, query, id))
	return t, pgNoRows(err)
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	var out dom.Task
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		out, err = scanTask(tx.QueryRow(ctx, insertQuery(dollar), insertArgs(t)...))
		return err
	})
	return out, err
}

func (r *PGTaskRepo) Update(ctx context.Context, id int64, patch dom.TaskPatch) (dom.Task, error) {
	query, args := compileUpdate(id, patch, dollar)
	var out dom.Task
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		out, err = scanTask(tx.QueryRow(ctx, query, args...))
		return err
	})
	return out, pgNoRows(err)
}

func (r *PGTaskRepo) Delete(ctx context.Context, id int64) (dom.Task, error) {
	query := `DELETE FROM tasks WHERE id = $1 RETURNING ` + taskColumns
	var out dom.Task
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		var err error
		out, err = scanTask(tx.QueryRow(ctx, query, id))
		return err
	})
	return out, pgNoRows(err)
}

func (r *PGTaskRepo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func pgNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNoRows
	}
	return err
}
