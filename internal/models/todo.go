package models

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTitleLength is the maximum number of characters in a todo title.
const MaxTitleLength = 255

// Todo represents a single todo item.
type Todo struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks that the todo has valid field values.
func (t *Todo) Validate() error {
	return ValidateTitle(t.Title)
}

// NormalizeTitle strips surrounding whitespace from a title.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}

// ValidateTitle checks a title after normalization.
func ValidateTitle(title string) error {
	title = NormalizeTitle(title)
	if title == "" {
		return errors.New("title is required")
	}

	if utf8.RuneCountInString(title) > MaxTitleLength {
		return errors.New("title must be 255 characters or fewer")
	}

	return nil
}
