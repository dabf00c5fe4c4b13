package storage

import (
	"context"
	"errors"

	"bookshelf/internal/models"
)

// ErrBookNotFound is returned when no book has the requested id
var ErrBookNotFound = errors.New("book not found")

// BookStore defines the operations on the shelf of books
type BookStore interface {
	// Append adds a book at the end of the shelf
	Append(ctx context.Context, book models.Book) error
	// Get returns a copy of the book with the given id
	Get(ctx context.Context, id string) (models.Book, error)
	// List returns the books matching the filter in insertion order
	List(ctx context.Context, filter models.BookFilter) ([]models.Book, error)

	// Modify replaces the book with the given id by the result of fn.
	// The lookup and the replacement happen atomically. If fn returns an
	// error the stored book is left untouched and the error is returned as is.
	Modify(ctx context.Context, id string, fn func(current models.Book) (models.Book, error)) (models.Book, error)

	// Remove deletes exactly one book and returns it
	Remove(ctx context.Context, id string) (models.Book, error)

	// Lifecycle
	Close() error
}

// EventLog defines the journal of shelf mutations
type EventLog interface {
	Record(ctx context.Context, event models.BookEvent) error

	// Recent returns at most limit events, newest first
	Recent(ctx context.Context, limit int) ([]models.BookEvent, error)

	// Lifecycle
	Initialize(ctx context.Context) error
	Close() error
}
