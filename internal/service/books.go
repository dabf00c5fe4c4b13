package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"bookshelf/internal/models"
	"bookshelf/internal/storage"
)

// BookIDLength is the length of generated book ids
const BookIDLength = 16

// Client-facing messages
const (
	MsgAdded          = "Book added successfully"
	MsgUpdated        = "Book updated successfully"
	MsgDeleted        = "Book deleted successfully"
	MsgAddFailed      = "Failed to add book"
	MsgNotFound       = "Book not found"
	MsgUpdateNotFound = "Failed to update book. Id not found"
	MsgDeleteNotFound = "Failed to delete book. Id not found"
)

// Notifier receives every successful shelf mutation
type Notifier interface {
	Notify(event models.BookEvent)
}

// Service implements the book operations on top of a BookStore
type Service struct {
	books    storage.BookStore
	events   storage.EventLog
	notifier Notifier
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// Option customizes a Service
type Option func(*Service)

// WithNotifier sets the notifier that is told about every mutation
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock replaces the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces the book id generator
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

// New creates a book service. events may be nil.
func New(books storage.BookStore, events storage.EventLog, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		books:    books,
		events:   events,
		validate: validator.New(),
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		newID:    NewBookID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewBookID returns a fresh random opaque id of BookIDLength characters
func NewBookID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:BookIDLength]
}

// SetNotifier attaches a notifier after construction
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// Create validates the payload and appends a new book
func (s *Service) Create(ctx context.Context, payload models.BookPayload) (models.Book, error) {
	if err := s.checkPayload(payload, "add"); err != nil {
		return models.Book{}, err
	}

	now := s.now()
	book := models.Book{
		ID:         s.newID(),
		Name:       payload.Name,
		Year:       payload.Year,
		Author:     payload.Author,
		Summary:    payload.Summary,
		Publisher:  payload.Publisher,
		PageCount:  payload.PageCount,
		ReadPage:   payload.ReadPage,
		Reading:    payload.Reading,
		Finished:   false,
		InsertedAt: now,
		UpdatedAt:  now,
	}

	if err := s.books.Append(ctx, book); err != nil {
		s.logger.Error("Failed to append book", zap.Error(err), zap.String("book_id", book.ID))
		return models.Book{}, internalError(MsgAddFailed, err)
	}

	if _, err := s.books.Get(ctx, book.ID); err != nil {
		s.logger.Error("Appended book is missing from the store", zap.Error(err), zap.String("book_id", book.ID))
		return models.Book{}, internalError(MsgAddFailed, err)
	}

	s.logger.Info("Book created",
		zap.String("book_id", book.ID),
		zap.String("name", book.Name),
	)
	s.publish(ctx, models.ActionCreated, book)

	return book, nil
}

// List returns summaries of the books matching every set filter field
func (s *Service) List(ctx context.Context, filter models.BookFilter) ([]models.BookSummary, error) {
	books, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, internalError("Failed to list books", err)
	}

	summaries := make([]models.BookSummary, 0, len(books))
	for _, book := range books {
		summaries = append(summaries, book.ToSummary())
	}
	return summaries, nil
}

// Get returns the full record of a single book
func (s *Service) Get(ctx context.Context, id string) (models.Book, error) {
	book, err := s.books.Get(ctx, id)
	if errors.Is(err, storage.ErrBookNotFound) {
		return models.Book{}, notFoundError(MsgNotFound, err)
	}
	if err != nil {
		return models.Book{}, internalError("Failed to get book", err)
	}
	return book, nil
}

// Update overwrites every mutable field of an existing book.
// A missing book is reported before the payload is validated.
func (s *Service) Update(ctx context.Context, id string, payload models.BookPayload) (models.Book, error) {
	book, err := s.books.Modify(ctx, id, func(current models.Book) (models.Book, error) {
		if err := s.checkPayload(payload, "update"); err != nil {
			return models.Book{}, err
		}

		current.Name = payload.Name
		current.Year = payload.Year
		current.Author = payload.Author
		current.Summary = payload.Summary
		current.Publisher = payload.Publisher
		current.PageCount = payload.PageCount
		current.ReadPage = payload.ReadPage
		current.Reading = payload.Reading
		current.UpdatedAt = s.now()
		return current, nil
	})
	if errors.Is(err, storage.ErrBookNotFound) {
		return models.Book{}, notFoundError(MsgUpdateNotFound, err)
	}
	var serr *Error
	if errors.As(err, &serr) {
		return models.Book{}, serr
	}
	if err != nil {
		return models.Book{}, internalError("Failed to update book", err)
	}

	s.logger.Info("Book updated", zap.String("book_id", book.ID))
	s.publish(ctx, models.ActionUpdated, book)

	return book, nil
}

// Delete removes exactly one book
func (s *Service) Delete(ctx context.Context, id string) error {
	book, err := s.books.Remove(ctx, id)
	if errors.Is(err, storage.ErrBookNotFound) {
		return notFoundError(MsgDeleteNotFound, err)
	}
	if err != nil {
		return internalError("Failed to delete book", err)
	}

	s.logger.Info("Book deleted", zap.String("book_id", book.ID))
	s.publish(ctx, models.ActionDeleted, book)

	return nil
}

// RecentEvents returns the latest shelf mutations, newest first
func (s *Service) RecentEvents(ctx context.Context, limit int) ([]models.BookEvent, error) {
	if s.events == nil {
		return []models.BookEvent{}, nil
	}
	events, err := s.events.Recent(ctx, limit)
	if err != nil {
		return nil, internalError("Failed to get events", err)
	}
	return events, nil
}

// checkPayload runs the field rules in order: name first, then page counts
func (s *Service) checkPayload(payload models.BookPayload, verb string) error {
	if err := s.validate.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Name" {
					return validationError("Failed to " + verb + " book. Please provide the book name")
				}
			}
		}
		return validationError("Failed to " + verb + " book. " + err.Error())
	}

	// Zero counts mean "not supplied"
	if payload.ReadPage != 0 && payload.PageCount != 0 && payload.ReadPage > payload.PageCount {
		return validationError("Failed to " + verb + " book. readPage cannot be greater than pageCount")
	}
	return nil
}

func (s *Service) publish(ctx context.Context, action models.EventAction, book models.Book) {
	event := models.BookEvent{
		Time:     s.now(),
		Action:   action,
		BookID:   book.ID,
		BookName: book.Name,
	}

	if s.events != nil {
		if err := s.events.Record(ctx, event); err != nil {
			s.logger.Warn("Failed to record book event",
				zap.Error(err),
				zap.String("action", string(action)),
				zap.String("book_id", book.ID),
			)
		}
	}

	if s.notifier != nil {
		s.notifier.Notify(event)
	}
}
