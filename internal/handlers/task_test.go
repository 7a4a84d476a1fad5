package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dom "taskstore/internal/domain"
	"taskstore/internal/dto"
	"taskstore/internal/repo"
	"taskstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// stubRepo answers every call with the same task or error.
type stubRepo struct {
	task dom.Task
	err  error
}

func (r stubRepo) List(context.Context, dom.TaskSort) ([]dom.Task, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []dom.Task{r.task}, nil
}
func (r stubRepo) GetByID(context.Context, int64) (dom.Task, error)   { return r.task, r.err }
func (r stubRepo) Create(context.Context, dom.Task) (dom.Task, error) { return r.task, r.err }
func (r stubRepo) Update(context.Context, int64, dom.TaskPatch) (dom.Task, error) {
	return r.task, r.err
}
func (r stubRepo) Delete(context.Context, int64) (dom.Task, error) { return r.task, r.err }
func (r stubRepo) Ping(context.Context) error                      { return r.err }

func newRouter(r repo.TaskRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTaskHandler(service.NewTaskService(r, zerolog.Nop()), zerolog.Nop())

	e := gin.New()
	e.Use(RequestLogger(zerolog.Nop()))
	e.GET("/tasks", h.List)
	e.GET("/tasks/:id", h.GetByID)
	e.POST("/tasks", h.Create)
	e.PATCH("/tasks/:id", h.Update)
	e.DELETE("/tasks/:id", h.Delete)
	return e
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var out dto.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode err=%v", err)
	}
	return out.Error
}

func TestParseID_NotATask(t *testing.T) {
	r := newRouter(stubRepo{})
	for _, path := range []string{"/tasks/abc", "/tasks/0", "/tasks/-4", "/tasks/1.5"} {
		rr := serve(r, http.MethodGet, path, "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s status=%d, want %d", path, rr.Code, http.StatusNotFound)
		}
		if msg := errorBody(t, rr); msg != "Task not found." {
			t.Fatalf("%s error=%q", path, msg)
		}
	}
}

func TestFail_StoreErrorIs500(t *testing.T) {
	r := newRouter(stubRepo{err: errors.New("database is locked")})

	rr := serve(r, http.MethodGet, "/tasks", "")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusInternalServerError)
	}
	if msg := errorBody(t, rr); msg != "internal server error" {
		t.Fatalf("error=%q, store details must not leak", msg)
	}
}

func TestFail_NotFoundIs404(t *testing.T) {
	r := newRouter(stubRepo{err: repo.ErrNoRows})

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		rr := serve(r, method, "/tasks/12", "")
		if rr.Code != http.StatusNotFound {
			t.Fatalf("%s status=%d, want %d", method, rr.Code, http.StatusNotFound)
		}
	}
	rr := serve(r, http.MethodPatch, "/tasks/12", `{"isDone": 1}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("PATCH status=%d, want %d", rr.Code, http.StatusNotFound)
	}
	if msg := errorBody(t, rr); msg != "Task not found." {
		t.Fatalf("error=%q", msg)
	}
}

func TestFail_FieldTypeIs400(t *testing.T) {
	r := newRouter(stubRepo{})

	rr := serve(r, http.MethodPost, "/tasks", `{"title": "ok", "description": 5}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusBadRequest)
	}
	if msg := errorBody(t, rr); msg != "Field 'description' must be a string." {
		t.Fatalf("error=%q", msg)
	}
}

func TestRequestLogger_RequestID(t *testing.T) {
	r := newRouter(stubRepo{task: dom.Task{ID: 1, Title: "x"}})

	rr := serve(r, http.MethodGet, "/tasks/1", "")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("X-Request-ID header missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/tasks/1", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Fatalf("X-Request-ID=%q, want abc-123", got)
	}
}
