package domain

import "strings"

// SortColumn is a tasks column the list may be ordered by.
// Only the constants below exist, so it is safe to splice into SQL.
type SortColumn string

const (
	SortByCreatedAt SortColumn = "created_at"
	SortByDueDate   SortColumn = "due_date"
	SortByPriority  SortColumn = "priority"
)

var sortColumns = map[string]SortColumn{
	"dateAdded": SortByCreatedAt,
	"createdAt": SortByCreatedAt,
	"dueDate":   SortByDueDate,
	"priority":  SortByPriority,
}

// TaskSort is the resolved ordering of a list. Ties are always broken by id ascending.
type TaskSort struct {
	Column SortColumn
	Desc   bool
}

// ResolveSort maps the sortBy/order query values onto a TaskSort.
// Unknown sortBy falls back to created_at; any order but "desc" is ascending.
func ResolveSort(sortBy, order string) TaskSort {
	col, ok := sortColumns[sortBy]
	if !ok {
		col = SortByCreatedAt
	}
	return TaskSort{
		Column: col,
		Desc:   strings.ToLower(order) == "desc",
	}
}

func (s TaskSort) Direction() string {
	if s.Desc {
		return "DESC"
	}
	return "ASC"
}
