package domain

// Domain entity: the task as the service sees it.
// Does not depend on Gin, pgx or SQLite.
type Task struct {
	ID          int64
	Title       string
	Description *string
	Priority    Priority
	DueDate     *string // YYYY-MM-DD, not validated
	DueTime     *string // HH:MM, not validated
	IsDone      bool
	Status      Status

	// CreatedAt is UTC text in CreatedAtLayout, written once on insert.
	CreatedAt string
}

// CreatedAtLayout is the ISO-8601 form stored in created_at, e.g. 2025-09-29T12:34:56Z.
const CreatedAtLayout = "2006-01-02T15:04:05Z"

type Priority string

const (
	PriorityHigh Priority = "High"
	PriorityMid  Priority = "Mid"
	PriorityLow  Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMid, PriorityLow:
		return true
	}
	return false
}

type Status string

const (
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// Optional marks a value that may or may not take part in a write.
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// TaskPatch is a partial update. Unset fields are left untouched;
// a set pointer field with a nil value clears the column.
type TaskPatch struct {
	Title       Optional[string]
	Description Optional[*string]
	Priority    Optional[Priority]
	DueDate     Optional[*string]
	DueTime     Optional[*string]
	IsDone      Optional[bool]
	Status      Optional[Status]
}

// Assignment is one "column = value" pair of a compiled patch.
type Assignment struct {
	Column string
	Value  any
}

// Assignments returns the set fields in a fixed column order.
func (p TaskPatch) Assignments() []Assignment {
	var out []Assignment
	if p.Title.Set {
		out = append(out, Assignment{"title", p.Title.Value})
	}
	if p.Description.Set {
		out = append(out, Assignment{"description", p.Description.Value})
	}
	if p.Priority.Set {
		out = append(out, Assignment{"priority", string(p.Priority.Value)})
	}
	if p.DueDate.Set {
		out = append(out, Assignment{"due_date", p.DueDate.Value})
	}
	if p.DueTime.Set {
		out = append(out, Assignment{"due_time", p.DueTime.Value})
	}
	if p.IsDone.Set {
		out = append(out, Assignment{"is_done", p.IsDone.Value})
	}
	if p.Status.Set {
		out = append(out, Assignment{"status", string(p.Status.Value)})
	}
	return out
}

func (p TaskPatch) Empty() bool {
	return len(p.Assignments()) == 0
}
