package domain

import "testing"

func TestPriorityValid(t *testing.T) {
	for _, p := range []Priority{PriorityHigh, PriorityMid, PriorityLow} {
		if !p.Valid() {
			t.Fatalf("%q.Valid()=false, want true", p)
		}
	}
	for _, p := range []Priority{"", "high", "Urgent", "MID"} {
		if p.Valid() {
			t.Fatalf("%q.Valid()=true, want false", p)
		}
	}
}

func TestStatusValid(t *testing.T) {
	if !StatusOngoing.Valid() || !StatusCompleted.Valid() {
		t.Fatalf("known statuses must be valid")
	}
	for _, s := range []Status{"", "done", "Ongoing"} {
		if s.Valid() {
			t.Fatalf("%q.Valid()=true, want false", s)
		}
	}
}

func TestResolveSort(t *testing.T) {
	cases := []struct {
		sortBy, order string
		want          TaskSort
	}{
		{"", "", TaskSort{SortByCreatedAt, false}},
		{"dateAdded", "asc", TaskSort{SortByCreatedAt, false}},
		{"createdAt", "DESC", TaskSort{SortByCreatedAt, true}},
		{"dueDate", "Desc", TaskSort{SortByDueDate, true}},
		{"priority", "desc", TaskSort{SortByPriority, true}},
		{"title; DROP TABLE tasks", "desc", TaskSort{SortByCreatedAt, true}},
		{"priority", "sideways", TaskSort{SortByPriority, false}},
	}
	for _, c := range cases {
		got := ResolveSort(c.sortBy, c.order)
		if got != c.want {
			t.Fatalf("ResolveSort(%q, %q)=%+v, want %+v", c.sortBy, c.order, got, c.want)
		}
	}
}

func TestTaskSortDirection(t *testing.T) {
	if got := (TaskSort{Desc: true}).Direction(); got != "DESC" {
		t.Fatalf("Direction()=%q, want DESC", got)
	}
	if got := (TaskSort{}).Direction(); got != "ASC" {
		t.Fatalf("Direction()=%q, want ASC", got)
	}
}

func TestTaskPatchAssignments(t *testing.T) {
	var p TaskPatch
	if !p.Empty() {
		t.Fatalf("zero patch must be empty")
	}

	p.Status = Some(StatusCompleted)
	p.IsDone = Some(true)
	p.Title = Some("write report")
	p.DueDate = Some[*string](nil)

	got := p.Assignments()
	wantCols := []string{"title", "due_date", "is_done", "status"}
	if len(got) != len(wantCols) {
		t.Fatalf("len=%d, want %d (%+v)", len(got), len(wantCols), got)
	}
	for i, col := range wantCols {
		if got[i].Column != col {
			t.Fatalf("assignment[%d].Column=%q, want %q", i, got[i].Column, col)
		}
	}
	if v, ok := got[1].Value.(*string); !ok || v != nil {
		t.Fatalf("due_date value=%v, want nil *string", got[1].Value)
	}
	if got[3].Value != "completed" {
		t.Fatalf("status value=%v, want completed", got[3].Value)
	}
}
