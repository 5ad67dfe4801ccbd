package store

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"mytodos/internal/models"
)

// header is the first line of every backing file.
var header = []string{"id", "title", "done", "created_at"}

// The csv reader folds a quoted \r\n into \n, so titles carry carriage
// returns as the two characters \r, with \\ escaping a literal backslash.
var (
	titleEscaper   = strings.NewReplacer(`\`, `\\`, "\r", `\r`)
	titleUnescaper = strings.NewReplacer(`\\`, `\`, `\r`, "\r")
)

// encodeTodos writes todos as CSV. The caller passes them in ascending ID order.
func encodeTodos(todos []models.Todo) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range todos {
		row := []string{
			strconv.FormatInt(t.ID, 10),
			titleEscaper.Replace(t.Title),
			strconv.FormatBool(t.Done),
			t.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write todo %d: %w", t.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// decodeTodos parses a backing file. Any malformed line rejects the whole
// file; an empty input decodes to no todos.
func decodeTodos(data []byte) ([]models.Todo, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = len(header)

	got, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header")
		}
		return nil, err
	}
	for i, name := range header {
		if got[i] != name {
			return nil, fmt.Errorf("line 1: unexpected header %q, want %q", got[i], name)
		}
	}

	var todos []models.Todo
	seen := make(map[int64]struct{})
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := r.FieldPos(0)
		t, err := decodeRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("line %d: duplicate id %d", line, t.ID)
		}
		seen[t.ID] = struct{}{}
		todos = append(todos, t)
	}

	return todos, nil
}

func decodeRow(row []string) (models.Todo, error) {
	var t models.Todo

	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return t, fmt.Errorf("invalid id %q: %w", row[0], err)
	}
	if id <= 0 {
		return t, fmt.Errorf("invalid id %d: must be positive", id)
	}

	title := titleUnescaper.Replace(row[1])
	if err := models.ValidateTitle(title); err != nil {
		return t, fmt.Errorf("todo %d: %w", id, err)
	}

	done, err := strconv.ParseBool(row[2])
	if err != nil {
		return t, fmt.Errorf("todo %d: invalid done %q: %w", id, row[2], err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, row[3])
	if err != nil {
		return t, fmt.Errorf("todo %d: invalid created_at %q: %w", id, row[3], err)
	}

	t.ID = id
	t.Title = models.NormalizeTitle(title)
	t.Done = done
	t.CreatedAt = createdAt.UTC()
	return t, nil
}
