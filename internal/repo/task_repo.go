package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	dom "taskstore/internal/domain"
)

// ErrNoRows is returned when the addressed task does not exist.
var ErrNoRows = errors.New("no rows")

type TaskRepo interface {
	List(ctx context.Context, sort dom.TaskSort) ([]dom.Task, error)
	GetByID(ctx context.Context, id int64) (dom.Task, error)
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	Update(ctx context.Context, id int64, patch dom.TaskPatch) (dom.Task, error)
	Delete(ctx context.Context, id int64) (dom.Task, error)
	Ping(ctx context.Context) error
}

const taskColumns = `id, title, description, priority, due_date, due_time, is_done, status, created_at`

// placeholder renders the n-th (1-based) bind parameter for a driver.
type placeholder func(n int) string

func dollar(n int) string { return "$" + strconv.Itoa(n) }
func question(int) string { return "?" }

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (dom.Task, error) {
	var (
		t        dom.Task
		priority string
		status   string
	)
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &priority, &t.DueDate, &t.DueTime,
		&t.IsDone, &status, &t.CreatedAt,
	)
	t.Priority = dom.Priority(priority)
	t.Status = dom.Status(status)
	return t, err
}

// listQuery orders nulls as smallest on every driver: first ascending, last descending.
func listQuery(sort dom.TaskSort) string {
	nulls := "NULLS FIRST"
	if sort.Desc {
		nulls = "NULLS LAST"
	}
	return fmt.Sprintf(
		`SELECT %s FROM tasks ORDER BY %s %s %s, id ASC`,
		taskColumns, sort.Column, sort.Direction(), nulls,
	)
}

func insertQuery(ph placeholder) string {
	return `
		INSERT INTO tasks (title, description, priority, due_date, due_time, is_done, status, created_at)
		VALUES (` + strings.Join([]string{ph(1), ph(2), ph(3), ph(4), ph(5), ph(6), ph(7), ph(8)}, ", ") + `)
		RETURNING ` + taskColumns
}

func insertArgs(t dom.Task) []any {
	return []any{
		t.Title, t.Description, string(t.Priority), t.DueDate, t.DueTime,
		t.IsDone, string(t.Status), t.CreatedAt,
	}
}

// compileUpdate turns a patch into one parameterized UPDATE touching only
// the set fields. The patch must not be empty.
func compileUpdate(id int64, patch dom.TaskPatch, ph placeholder) (string, []any) {
	assignments := patch.Assignments()
	sets := make([]string, 0, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	for i, a := range assignments {
		sets = append(sets, a.Column+" = "+ph(i+1))
		args = append(args, a.Value)
	}
	args = append(args, id)
	query := `UPDATE tasks SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + ph(len(args)) +
		` RETURNING ` + taskColumns
	return query, args
}
