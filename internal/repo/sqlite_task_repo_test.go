package repo

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	dom "taskstore/internal/domain"
	"taskstore/internal/migrations"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

func newSQLiteRepo(t *testing.T) *SQLiteTaskRepo {
	t.Helper()
	ctx := context.Background()
	db, err := OpenSQLite(ctx, filepath.Join(t.TempDir(), "tasks.db"))
	if err != nil {
		t.Fatalf("OpenSQLite err=%v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.Up(ctx, db, goose.DialectSQLite3, zerolog.Nop()); err != nil {
		t.Fatalf("migrations err=%v", err)
	}
	return NewSQLiteTaskRepo(db)
}

func ptr(s string) *string { return &s }

func newTask(title string, p dom.Priority, created string) dom.Task {
	return dom.Task{Title: title, Priority: p, Status: dom.StatusOngoing, CreatedAt: created}
}

func ids(list []dom.Task) []int64 {
	out := make([]int64, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func TestSQLiteTaskRepo_CreateGet(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	in := dom.Task{
		Title:       "Dentist",
		Description: ptr("bring x-rays"),
		Priority:    dom.PriorityHigh,
		DueDate:     ptr("2025-10-01"),
		Status:      dom.StatusCompleted,
		CreatedAt:   "2025-09-01T10:00:00Z",
	}
	created, err := r.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if created.ID <= 0 {
		t.Fatalf("id=%d", created.ID)
	}

	got, err := r.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID err=%v", err)
	}
	in.ID = created.ID
	if !reflect.DeepEqual(got, in) {
		t.Fatalf("got=%+v, want %+v", got, in)
	}
}

func TestSQLiteTaskRepo_List(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	empty, err := r.List(ctx, dom.ResolveSort("", ""))
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("empty list=%v", empty)
	}

	var created []dom.Task
	for _, in := range []dom.Task{
		newTask("a", dom.PriorityLow, "2025-01-03T00:00:00Z"),
		newTask("b", dom.PriorityHigh, "2025-01-01T00:00:00Z"),
		newTask("c", dom.PriorityLow, "2025-01-02T00:00:00Z"),
		newTask("d", dom.PriorityMid, "2025-01-01T00:00:00Z"),
	} {
		task, err := r.Create(ctx, in)
		if err != nil {
			t.Fatalf("Create err=%v", err)
		}
		created = append(created, task)
	}
	a, b, c, d := created[0].ID, created[1].ID, created[2].ID, created[3].ID

	tests := []struct {
		name string
		sort dom.TaskSort
		want []int64
	}{
		{"created asc", dom.ResolveSort("dateAdded", "asc"), []int64{b, d, c, a}},
		{"created desc", dom.ResolveSort("createdAt", "desc"), []int64{a, c, b, d}},
		{"priority asc", dom.ResolveSort("priority", "asc"), []int64{b, a, c, d}},
		{"priority desc", dom.ResolveSort("priority", "desc"), []int64{d, a, c, b}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := r.List(ctx, tt.sort)
			if err != nil {
				t.Fatalf("List err=%v", err)
			}
			if got := ids(list); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ids=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestSQLiteTaskRepo_UpdateOnlySetColumns(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	in := newTask("a", dom.PriorityMid, "2025-01-01T00:00:00Z")
	in.Description = ptr("keep me")
	in.DueTime = ptr("08:00")
	created, err := r.Create(ctx, in)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	got, err := r.Update(ctx, created.ID, dom.TaskPatch{
		IsDone:  dom.Some(true),
		DueTime: dom.Some[*string](nil),
	})
	if err != nil {
		t.Fatalf("Update err=%v", err)
	}

	want := created
	want.IsDone = true
	want.DueTime = nil
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got=%+v, want %+v", got, want)
	}
}

func TestSQLiteTaskRepo_Delete(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, newTask("a", dom.PriorityLow, "2025-01-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	deleted, err := r.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if !reflect.DeepEqual(deleted, created) {
		t.Fatalf("deleted=%+v, want %+v", deleted, created)
	}
	if _, err := r.GetByID(ctx, created.ID); !errors.Is(err, ErrNoRows) {
		t.Fatalf("GetByID after delete err=%v, want ErrNoRows", err)
	}
}

func TestSQLiteTaskRepo_Missing(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	if _, err := r.GetByID(ctx, 42); !errors.Is(err, ErrNoRows) {
		t.Fatalf("GetByID err=%v", err)
	}
	if _, err := r.Update(ctx, 42, dom.TaskPatch{Title: dom.Some("x")}); !errors.Is(err, ErrNoRows) {
		t.Fatalf("Update err=%v", err)
	}
	if _, err := r.Delete(ctx, 42); !errors.Is(err, ErrNoRows) {
		t.Fatalf("Delete err=%v", err)
	}
}

func TestCompileUpdate(t *testing.T) {
	patch := dom.TaskPatch{
		Title:    dom.Some("x"),
		Priority: dom.Some(dom.PriorityLow),
		Status:   dom.Some(dom.StatusCompleted),
	}

	query, args := compileUpdate(7, patch, dollar)
	wantQuery := `UPDATE tasks SET title = $1, priority = $2, status = $3 WHERE id = $4 RETURNING ` + taskColumns
	if query != wantQuery {
		t.Fatalf("query=%q\nwant  %q", query, wantQuery)
	}
	if want := []any{"x", "Low", "completed", int64(7)}; !reflect.DeepEqual(args, want) {
		t.Fatalf("args=%v, want %v", args, want)
	}

	query, _ = compileUpdate(7, patch, question)
	wantQuery = `UPDATE tasks SET title = ?, priority = ?, status = ? WHERE id = ? RETURNING ` + taskColumns
	if query != wantQuery {
		t.Fatalf("query=%q\nwant  %q", query, wantQuery)
	}
}

func TestSQLiteTaskRepo_ListDueDateNulls(t *testing.T) {
	r := newSQLiteRepo(t)
	ctx := context.Background()

	dated := newTask("dated", dom.PriorityMid, "2025-01-01T00:00:00Z")
	dated.DueDate = ptr("2025-03-01")
	first, err := r.Create(ctx, dated)
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	undated, err := r.Create(ctx, newTask("undated", dom.PriorityMid, "2025-01-01T00:00:00Z"))
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}

	for order, want := range map[string][]int64{
		"asc":  {undated.ID, first.ID},
		"desc": {first.ID, undated.ID},
	} {
		list, err := r.List(ctx, dom.ResolveSort("dueDate", order))
		if err != nil {
			t.Fatalf("List err=%v", err)
		}
		if got := ids(list); !reflect.DeepEqual(got, want) {
			t.Fatalf("%s ids=%v, want %v", order, got, want)
		}
	}
}

func TestListQuery_NullOrdering(t *testing.T) {
	asc := listQuery(dom.ResolveSort("dueDate", "asc"))
	want := `SELECT ` + taskColumns + ` FROM tasks ORDER BY due_date ASC NULLS FIRST, id ASC`
	if asc != want {
		t.Fatalf("query=%q\nwant  %q", asc, want)
	}
	desc := listQuery(dom.ResolveSort("dueDate", "desc"))
	want = `SELECT ` + taskColumns + ` FROM tasks ORDER BY due_date DESC NULLS LAST, id ASC`
	if desc != want {
		t.Fatalf("query=%q\nwant  %q", desc, want)
	}
}
