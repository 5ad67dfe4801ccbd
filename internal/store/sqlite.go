package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"mytodos/internal/models"
)

// SQLiteStore implements the Store interface using SQLite.
//
// AUTOINCREMENT keeps deleted IDs from being reused for the lifetime of the
// database file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store with the given database path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, persistenceError("open", 0, fmt.Errorf("failed to open database: %w", err))
	}

	// SQLite has a single writer, and every :memory: connection would
	// otherwise get its own empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, persistenceError("open", 0, fmt.Errorf("failed to migrate database: %w", err))
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Create inserts a new todo.
func (s *SQLiteStore) Create(ctx context.Context, title string) (*models.Todo, error) {
	const op = "create"
	if err := models.ValidateTitle(title); err != nil {
		return nil, validationError(op, 0, err)
	}

	todo := &models.Todo{
		Title:     models.NormalizeTitle(title),
		CreatedAt: time.Now().UTC(),
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO todos (title, done, created_at) VALUES (?, ?, ?)
	`, todo.Title, todo.Done, todo.CreatedAt)
	if err != nil {
		return nil, persistenceError(op, 0, fmt.Errorf("failed to create todo: %w", err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, persistenceError(op, 0, fmt.Errorf("failed to get last insert id: %w", err))
	}
	todo.ID = id

	return todo, nil
}

// GetByID retrieves a todo by ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	const op = "get"

	todo, err := scanTodo(s.db.QueryRowContext(ctx, `
		SELECT id, title, done, created_at FROM todos WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundError(op, id)
		}
		return nil, persistenceError(op, id, fmt.Errorf("failed to get todo: %w", err))
	}

	return todo, nil
}

// List retrieves all todos ordered by ID.
func (s *SQLiteStore) List(ctx context.Context) ([]models.Todo, error) {
	const op = "list"

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, done, created_at FROM todos ORDER BY id ASC
	`)
	if err != nil {
		return nil, persistenceError(op, 0, fmt.Errorf("failed to list todos: %w", err))
	}
	defer rows.Close()

	todos := []models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, persistenceError(op, 0, fmt.Errorf("failed to scan todo: %w", err))
		}
		todos = append(todos, *todo)
	}

	if err := rows.Err(); err != nil {
		return nil, persistenceError(op, 0, err)
	}
	return todos, nil
}

// Update replaces the title and done flag of an existing todo.
func (s *SQLiteStore) Update(ctx context.Context, id int64, title string, done bool) (*models.Todo, error) {
	const op = "update"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistenceError(op, id, fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	todo, err := scanTodo(tx.QueryRowContext(ctx, `
		SELECT id, title, done, created_at FROM todos WHERE id = ?
	`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundError(op, id)
		}
		return nil, persistenceError(op, id, fmt.Errorf("failed to get todo: %w", err))
	}

	if err := models.ValidateTitle(title); err != nil {
		return nil, validationError(op, id, err)
	}
	todo.Title = models.NormalizeTitle(title)
	todo.Done = done

	if _, err := tx.ExecContext(ctx, `
		UPDATE todos SET title = ?, done = ? WHERE id = ?
	`, todo.Title, todo.Done, id); err != nil {
		return nil, persistenceError(op, id, fmt.Errorf("failed to update todo: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return nil, persistenceError(op, id, fmt.Errorf("failed to commit: %w", err))
	}
	return todo, nil
}

// Delete deletes a todo by ID.
func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	const op = "delete"

	result, err := s.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return persistenceError(op, id, fmt.Errorf("failed to delete todo: %w", err))
	}

	n, err := result.RowsAffected()
	if err != nil {
		return persistenceError(op, id, fmt.Errorf("failed to get rows affected: %w", err))
	}
	if n == 0 {
		return notFoundError(op, id)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	todo := &models.Todo{}
	if err := row.Scan(&todo.ID, &todo.Title, &todo.Done, &todo.CreatedAt); err != nil {
		return nil, err
	}
	todo.CreatedAt = todo.CreatedAt.UTC()
	return todo, nil
}
