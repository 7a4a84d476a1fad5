package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	dom "taskstore/internal/domain"
)

// TaskResponse is the JSON shape of a task at the API boundary.
type TaskResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Priority    string  `json:"priority"`
	DueDate     *string `json:"dueDate"`
	DueTime     *string `json:"dueTime"`
	IsDone      bool    `json:"isDone"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"createdAt"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateTaskRequest is the body of POST /api/tasks. Nil fields were absent or null.
type CreateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" enums:"High,Mid,Low"`
	DueDate     *string `json:"dueDate" example:"2025-10-01"`
	DueTime     *string `json:"dueTime" example:"09:30"`
	Status      *string `json:"status" enums:"ongoing,completed"`
}

// UpdateTaskBody documents the body of PATCH /api/tasks/{id} for swagger.
// Requests are read with DecodeUpdateTaskRequest.
type UpdateTaskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority" enums:"High,Mid,Low"`
	DueDate     *string `json:"dueDate" example:"2025-10-01"`
	DueTime     *string `json:"dueTime" example:"09:30"`
	IsDone      *bool   `json:"isDone"`
	Status      *string `json:"status" enums:"ongoing,completed"`
}

// UpdateTaskRequest is the body of PATCH /api/tasks/{id}.
// Only keys present in the body are Set.
type UpdateTaskRequest struct {
	Title       dom.Optional[*string]
	Description dom.Optional[*string]
	Priority    dom.Optional[*string]
	DueDate     dom.Optional[*string]
	DueTime     dom.Optional[*string]
	IsDone      dom.Optional[bool]
	Status      dom.Optional[*string]
}

// FieldTypeError reports a field whose JSON type cannot be used.
type FieldTypeError struct {
	Field string
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("Field '%s' must be a string.", e.Field)
}

// DecodeCreateTaskRequest reads a create body. A body that is not a JSON
// object decodes as an empty request.
func DecodeCreateTaskRequest(body []byte) (CreateTaskRequest, error) {
	m := objectFields(body)
	var req CreateTaskRequest
	for _, f := range []struct {
		key string
		dst **string
	}{
		{"title", &req.Title},
		{"description", &req.Description},
		{"priority", &req.Priority},
		{"dueDate", &req.DueDate},
		{"dueTime", &req.DueTime},
		{"status", &req.Status},
	} {
		v, err := stringField(m, f.key)
		if err != nil {
			return CreateTaskRequest{}, err
		}
		*f.dst = v.Value
	}
	return req, nil
}

// DecodeUpdateTaskRequest reads a partial update body. A body that is not a
// JSON object decodes as a request with no keys.
func DecodeUpdateTaskRequest(body []byte) (UpdateTaskRequest, error) {
	m := objectFields(body)
	var (
		req UpdateTaskRequest
		err error
	)
	for _, f := range []struct {
		key string
		dst *dom.Optional[*string]
	}{
		{"title", &req.Title},
		{"description", &req.Description},
		{"priority", &req.Priority},
		{"dueDate", &req.DueDate},
		{"dueTime", &req.DueTime},
		{"status", &req.Status},
	} {
		if *f.dst, err = stringField(m, f.key); err != nil {
			return UpdateTaskRequest{}, err
		}
	}
	if raw, ok := m["isDone"]; ok {
		req.IsDone = dom.Some(truthy(raw))
	}
	return req, nil
}

func objectFields(body []byte) map[string]json.RawMessage {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(body, &m); err != nil || m == nil {
		return map[string]json.RawMessage{}
	}
	return m
}

// stringField reads key as a string. Falsy values (null, false, 0, "", [] and {})
// read as nil; any other non-string is a FieldTypeError. Absent keys stay unset.
func stringField(m map[string]json.RawMessage, key string) (dom.Optional[*string], error) {
	raw, ok := m[key]
	if !ok {
		return dom.Optional[*string]{}, nil
	}
	if !truthy(raw) {
		return dom.Some[*string](nil), nil
	}
	var s *string
	if err := json.Unmarshal(raw, &s); err != nil {
		return dom.Optional[*string]{}, &FieldTypeError{Field: key}
	}
	return dom.Some(s), nil
}

// truthy coerces any JSON value to a boolean: null, false, 0, "", [] and {}
// are false, everything else is true.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	switch raw[0] {
	case 'n':
		return false
	case 't':
		return true
	case 'f':
		return false
	case '"':
		var s string
		_ = json.Unmarshal(raw, &s)
		return s != ""
	case '[':
		var a []json.RawMessage
		_ = json.Unmarshal(raw, &a)
		return len(a) > 0
	case '{':
		var o map[string]json.RawMessage
		_ = json.Unmarshal(raw, &o)
		return len(o) > 0
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	return err == nil && f != 0
}
