package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"mytodos/internal/models"
)

const fileMode = 0o644

var errIDsExhausted = errors.New("id space exhausted")

// FileStore keeps every todo in memory and rewrites a single CSV file on
// each mutation.
//
// One RWMutex guards the table and the ID counter together. Mutations hold
// it exclusively across the disk write, so the file always matches the
// table once a call returns.
type FileStore struct {
	path string

	mu     sync.RWMutex
	todos  map[int64]models.Todo
	nextID int64
	closed bool

	// writeFile replaces the backing file; tests swap it to inject failures.
	writeFile func(path string, data []byte) error
	now       func() time.Time
}

// NewFileStore loads the backing file at path. A missing file yields an
// empty store; an undecodable one fails with ErrCorruption.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{
		path:  path,
		todos: make(map[int64]models.Todo),
		writeFile: func(path string, data []byte) error {
			return writeFileAtomic(path, data, fileMode)
		},
		now: func() time.Time { return time.Now().UTC() },
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.nextID = 1
			return nil
		}
		return persistenceError("load", 0, fmt.Errorf("failed to read %s: %w", s.path, err))
	}

	todos, err := decodeTodos(data)
	if err != nil {
		return corruptionError(s.path, err)
	}

	var maxID int64
	for _, t := range todos {
		s.todos[t.ID] = t
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	// Wraps to a negative value once the table holds math.MaxInt64; Create
	// refuses to issue from there.
	s.nextID = maxID + 1
	return nil
}

// Path returns the backing file location.
func (s *FileStore) Path() string {
	return s.path
}

// Close marks the store closed. The file is only open during writes, so
// there is nothing else to release.
func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Create adds a todo with the next unused ID.
func (s *FileStore) Create(ctx context.Context, title string) (*models.Todo, error) {
	const op = "create"
	if err := ctx.Err(); err != nil {
		return nil, persistenceError(op, 0, err)
	}
	if err := models.ValidateTitle(title); err != nil {
		return nil, validationError(op, 0, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(op, 0); err != nil {
		return nil, err
	}
	if s.nextID <= 0 {
		return nil, persistenceError(op, 0, errIDsExhausted)
	}

	todo := models.Todo{
		ID:        s.nextID,
		Title:     models.NormalizeTitle(title),
		CreatedAt: s.now(),
	}
	s.todos[todo.ID] = todo
	s.nextID++

	if err := s.persist(); err != nil {
		delete(s.todos, todo.ID)
		s.nextID--
		return nil, persistenceError(op, todo.ID, err)
	}

	return &todo, nil
}

// GetByID returns the todo with the given ID.
func (s *FileStore) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	const op = "get"
	if err := ctx.Err(); err != nil {
		return nil, persistenceError(op, id, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(op, id); err != nil {
		return nil, err
	}

	todo, ok := s.todos[id]
	if !ok {
		return nil, notFoundError(op, id)
	}
	return &todo, nil
}

// List returns all todos in ascending ID order.
func (s *FileStore) List(ctx context.Context) ([]models.Todo, error) {
	const op = "list"
	if err := ctx.Err(); err != nil {
		return nil, persistenceError(op, 0, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.checkOpen(op, 0); err != nil {
		return nil, err
	}

	return s.sorted(), nil
}

// Update replaces the title and done flag of an existing todo.
func (s *FileStore) Update(ctx context.Context, id int64, title string, done bool) (*models.Todo, error) {
	const op = "update"
	if err := ctx.Err(); err != nil {
		return nil, persistenceError(op, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(op, id); err != nil {
		return nil, err
	}

	prev, ok := s.todos[id]
	if !ok {
		return nil, notFoundError(op, id)
	}
	if err := models.ValidateTitle(title); err != nil {
		return nil, validationError(op, id, err)
	}

	todo := prev
	todo.Title = models.NormalizeTitle(title)
	todo.Done = done
	s.todos[id] = todo

	if err := s.persist(); err != nil {
		s.todos[id] = prev
		return nil, persistenceError(op, id, err)
	}

	return &todo, nil
}

// Delete removes a todo. Its ID is never handed out again by this store.
func (s *FileStore) Delete(ctx context.Context, id int64) error {
	const op = "delete"
	if err := ctx.Err(); err != nil {
		return persistenceError(op, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(op, id); err != nil {
		return err
	}

	prev, ok := s.todos[id]
	if !ok {
		return notFoundError(op, id)
	}
	delete(s.todos, id)

	if err := s.persist(); err != nil {
		s.todos[id] = prev
		return persistenceError(op, id, err)
	}

	return nil
}

// persist writes the whole table. Callers hold s.mu for writing.
func (s *FileStore) persist() error {
	data, err := encodeTodos(s.sorted())
	if err != nil {
		return err
	}
	return s.writeFile(s.path, data)
}

// sorted returns a copy of the table ordered by ID. Callers hold s.mu.
func (s *FileStore) sorted() []models.Todo {
	todos := make([]models.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		todos = append(todos, t)
	}
	sort.Slice(todos, func(i, j int) bool {
		return todos[i].ID < todos[j].ID
	})
	return todos
}

func (s *FileStore) checkOpen(op string, id int64) error {
	if s.closed {
		return persistenceError(op, id, errors.New("store is closed"))
	}
	return nil
}
