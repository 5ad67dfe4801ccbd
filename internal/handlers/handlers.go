package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mytodos/internal/store"
)

// Handlers holds the HTTP handlers and their dependencies.
type Handlers struct {
	store store.Store
}

// New creates a new Handlers instance.
func New(s store.Store) *Handlers {
	return &Handlers{
		store: s,
	}
}

// parseID extracts and parses a positive integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, errors.New("id must be positive")
	}
	return id, nil
}

// maxBodyBytes caps request bodies; a todo is a title and a flag.
const maxBodyBytes = 16 << 10

// decodeJSON reads a size-limited JSON body into v and writes the 4xx
// response itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		respondError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return false
	}
	respondError(w, http.StatusBadRequest, "invalid json")
	return false
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes v as a JSON body with the given status.
func respondJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	respondJSON(w, code, errorResponse{Error: message})
}

func respondServerError(w http.ResponseWriter, err error) {
	log.Printf("internal server error: %v", err)
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// respondStoreError maps a store failure onto an HTTP status.
func respondStoreError(w http.ResponseWriter, err error) {
	var storeErr *store.Error
	switch {
	case errors.Is(err, store.ErrValidation) && errors.As(err, &storeErr):
		respondError(w, http.StatusBadRequest, storeErr.Message)
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "todo not found")
	default:
		respondServerError(w, err)
	}
}
