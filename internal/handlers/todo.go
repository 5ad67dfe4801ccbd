package handlers

import (
	"net/http"
)

type createTodoRequest struct {
	Title string `json:"title"`
}

type updateTodoRequest struct {
	Title *string `json:"title"`
	Done  *bool   `json:"done"`
}

// ListTodos returns every todo in ID order.
func (h *Handlers) ListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := h.store.List(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todos)
}

// CreateTodo creates a new todo from a JSON body.
func (h *Handlers) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	todo, err := h.store.Create(r.Context(), req.Title)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, todo)
}

// GetTodo returns a single todo.
func (h *Handlers) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	todo, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// UpdateTodo replaces the title and done flag of a todo. Both fields are
// required.
func (h *Handlers) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var req updateTodoRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Title == nil || req.Done == nil {
		respondError(w, http.StatusBadRequest, "title and done are required")
		return
	}

	todo, err := h.store.Update(r.Context(), id, *req.Title, *req.Done)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// ToggleTodo flips the done flag of a todo.
func (h *Handlers) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	todo, err := h.store.GetByID(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	// Not atomic with the read: a concurrent toggle may win.
	todo, err = h.store.Update(ctx, id, todo.Title, !todo.Done)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, todo)
}

// DeleteTodo deletes a todo.
func (h *Handlers) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
