package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"mytodos/internal/models"
	"mytodos/internal/store"
)

func setupTestHandlers(t *testing.T) (*Handlers, *store.FileStore) {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "todos.csv"))
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return New(s), s
}

func setupTestRouter(t *testing.T) (http.Handler, *store.FileStore) {
	t.Helper()
	h, s := setupTestHandlers(t)
	return NewRouter(h, 5*time.Second), s
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeTodo(t *testing.T, rec *httptest.ResponseRecorder) models.Todo {
	t.Helper()
	var todo models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&todo); err != nil {
		t.Fatalf("failed to decode todo: %v (body %q)", err, rec.Body.String())
	}
	return todo
}

func TestCreateTodoHandler_Success(t *testing.T) {
	router, s := setupTestRouter(t)

	rec := doJSON(t, router, "POST", "/api/todos", `{"title":"Buy milk"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	todo := decodeTodo(t, rec)
	if todo.ID != 1 || todo.Title != "Buy milk" || todo.Done {
		t.Errorf("unexpected todo %+v", todo)
	}

	todos, _ := s.List(context.Background())
	if len(todos) != 1 {
		t.Errorf("expected 1 stored todo, got %d", len(todos))
	}
}

func TestCreateTodoHandler_ValidationError(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{name: "blank title", body: `{"title":"   "}`, msg: "title is required"},
		{name: "long title", body: `{"title":"` + strings.Repeat("a", 256) + `"}`, msg: "title must be 255 characters or fewer"},
		{name: "invalid json", body: `{"title":`, msg: "invalid json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "POST", "/api/todos", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}

			var resp errorResponse
			json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Error != tt.msg {
				t.Errorf("expected error %q, got %q", tt.msg, resp.Error)
			}
		})
	}
}

func TestListTodosHandler(t *testing.T) {
	router, s := setupTestRouter(t)
	ctx := context.Background()

	rec := doJSON(t, router, "GET", "/api/todos", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Errorf("expected empty array, got %q", rec.Body.String())
	}

	s.Create(ctx, "First")
	s.Create(ctx, "Second")

	rec = doJSON(t, router, "GET", "/api/todos", "")
	var todos []models.Todo
	if err := json.NewDecoder(rec.Body).Decode(&todos); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if len(todos) != 2 || todos[0].Title != "First" || todos[1].Title != "Second" {
		t.Errorf("unexpected list %+v", todos)
	}
}

func TestGetTodoHandler(t *testing.T) {
	h, s := setupTestHandlers(t)
	s.Create(context.Background(), "Buy milk")

	req := httptest.NewRequest("GET", "/api/todos/1", nil)
	rec := httptest.NewRecorder()

	// Set up chi URL params
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	h.GetTodo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if todo := decodeTodo(t, rec); todo.Title != "Buy milk" {
		t.Errorf("expected Buy milk, got %q", todo.Title)
	}
}

func TestGetTodoHandler_BadIDAndNotFound(t *testing.T) {
	router, _ := setupTestRouter(t)

	tests := []struct {
		path string
		code int
	}{
		{path: "/api/todos/abc", code: http.StatusBadRequest},
		{path: "/api/todos/0", code: http.StatusBadRequest},
		{path: "/api/todos/-4", code: http.StatusBadRequest},
		{path: "/api/todos/99", code: http.StatusNotFound},
	}

	for _, tt := range tests {
		rec := doJSON(t, router, "GET", tt.path, "")
		if rec.Code != tt.code {
			t.Errorf("GET %s: expected status %d, got %d", tt.path, tt.code, rec.Code)
		}
	}
}

func TestUpdateTodoHandler(t *testing.T) {
	router, s := setupTestRouter(t)
	created, _ := s.Create(context.Background(), "Buy milk")

	rec := doJSON(t, router, "PUT", "/api/todos/1", `{"title":"Buy oat milk","done":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	todo := decodeTodo(t, rec)
	if todo.Title != "Buy oat milk" || !todo.Done {
		t.Errorf("unexpected todo %+v", todo)
	}
	if !todo.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("expected created_at to be unchanged")
	}
}

func TestUpdateTodoHandler_Errors(t *testing.T) {
	router, s := setupTestRouter(t)
	s.Create(context.Background(), "Buy milk")

	tests := []struct {
		name string
		path string
		body string
		code int
	}{
		{name: "missing done", path: "/api/todos/1", body: `{"title":"Buy milk"}`, code: http.StatusBadRequest},
		{name: "missing title", path: "/api/todos/1", body: `{"done":true}`, code: http.StatusBadRequest},
		{name: "blank title", path: "/api/todos/1", body: `{"title":"","done":true}`, code: http.StatusBadRequest},
		{name: "unknown id", path: "/api/todos/7", body: `{"title":"x","done":true}`, code: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, router, "PUT", tt.path, tt.body)
			if rec.Code != tt.code {
				t.Errorf("expected status %d, got %d: %s", tt.code, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestHandlers_OversizedBodyRejected(t *testing.T) {
	router, s := setupTestRouter(t)
	s.Create(context.Background(), "Buy milk")

	body := `{"title":"` + strings.Repeat("x", maxBodyBytes) + `","done":true}`
	tests := []struct {
		method string
		path   string
	}{
		{method: "POST", path: "/api/todos"},
		{method: "PUT", path: "/api/todos/1"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec := doJSON(t, router, tt.method, tt.path, body)
			if rec.Code != http.StatusRequestEntityTooLarge {
				t.Errorf("expected status %d, got %d: %s", http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
			}
		})
	}

	todos, _ := s.List(context.Background())
	if len(todos) != 1 || todos[0].Title != "Buy milk" {
		t.Errorf("expected store unchanged, got %+v", todos)
	}
}

func TestToggleTodoHandler(t *testing.T) {
	router, s := setupTestRouter(t)
	s.Create(context.Background(), "Buy milk")

	rec := doJSON(t, router, "POST", "/api/todos/1/toggle", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if todo := decodeTodo(t, rec); !todo.Done {
		t.Error("expected todo to be done after first toggle")
	}

	rec = doJSON(t, router, "POST", "/api/todos/1/toggle", "")
	if todo := decodeTodo(t, rec); todo.Done {
		t.Error("expected todo to be pending after second toggle")
	}
}

func TestDeleteTodoHandler(t *testing.T) {
	router, s := setupTestRouter(t)
	s.Create(context.Background(), "Buy milk")

	rec := doJSON(t, router, "DELETE", "/api/todos/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = doJSON(t, router, "DELETE", "/api/todos/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d on second delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	router, _ := setupTestRouter(t)

	rec := doJSON(t, router, "GET", "/healthz", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("unexpected health response %d %q", rec.Code, rec.Body.String())
	}
}

// failingStore fails every call with a persistence error.
type failingStore struct{}

var errDisk = &store.Error{Code: store.CodePersistence, Op: "test", Err: errors.New("disk full")}

func (failingStore) Create(context.Context, string) (*models.Todo, error) { return nil, errDisk }
func (failingStore) GetByID(context.Context, int64) (*models.Todo, error) { return nil, errDisk }
func (failingStore) List(context.Context) ([]models.Todo, error)          { return nil, errDisk }
func (failingStore) Update(context.Context, int64, string, bool) (*models.Todo, error) {
	return nil, errDisk
}
func (failingStore) Delete(context.Context, int64) error { return errDisk }
func (failingStore) Close() error                        { return nil }

func TestHandlers_PersistenceErrorIsServerError(t *testing.T) {
	router := NewRouter(New(failingStore{}), 5*time.Second)

	rec := doJSON(t, router, "POST", "/api/todos", `{"title":"Buy milk"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rec.Code)
	}

	var resp errorResponse
	json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&resp)
	if resp.Error != "internal server error" {
		t.Errorf("expected generic message, got %q", resp.Error)
	}
}
