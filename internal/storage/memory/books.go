package memory

import (
	"context"
	"slices"
	"sync"

	"bookshelf/internal/models"
	"bookshelf/internal/storage"
)

// BookStore is an in-memory, insertion-ordered implementation of storage.BookStore
type BookStore struct {
	mu    sync.RWMutex
	books []models.Book
}

// NewBookStore creates an empty book store
func NewBookStore() *BookStore {
	return &BookStore{
		books: make([]models.Book, 0),
	}
}

// Append adds a book at the end of the shelf
func (s *BookStore) Append(ctx context.Context, book models.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.books = append(s.books, book)
	return nil
}

// Get returns the book with the given id
func (s *BookStore) Get(ctx context.Context, id string) (models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Book{}, storage.ErrBookNotFound
	}
	return s.books[i], nil
}

// List returns the books matching filter, preserving insertion order
func (s *BookStore) List(ctx context.Context, filter models.BookFilter) ([]models.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	books := make([]models.Book, 0, len(s.books))
	for _, book := range s.books {
		if filter.Matches(book) {
			books = append(books, book)
		}
	}
	return books, nil
}

// Modify replaces the book with the given id by the result of fn
func (s *BookStore) Modify(ctx context.Context, id string, fn func(current models.Book) (models.Book, error)) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Book{}, storage.ErrBookNotFound
	}

	updated, err := fn(s.books[i])
	if err != nil {
		return models.Book{}, err
	}
	s.replaceAt(i, updated)
	return updated, nil
}

// Remove deletes the book with the given id
func (s *BookStore) Remove(ctx context.Context, id string) (models.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Book{}, storage.ErrBookNotFound
	}
	book := s.books[i]
	s.removeAt(i)
	return book, nil
}

// Len returns the number of books on the shelf
func (s *BookStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Close does nothing for the memory store
func (s *BookStore) Close() error {
	return nil
}

// indexOf must be called with the lock held
func (s *BookStore) indexOf(id string) int {
	for i, book := range s.books {
		if book.ID == id {
			return i
		}
	}
	return -1
}

func (s *BookStore) replaceAt(i int, book models.Book) {
	s.books[i] = book
}

func (s *BookStore) removeAt(i int) {
	s.books = slices.Delete(s.books, i, i+1)
}
