package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"
)

// TimestampLayout renders times in UTC with exactly three fractional digits
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// maxWholeNumber is the largest integer a JSON number carries exactly
const maxWholeNumber = 1 << 53

// Book represents a book on the shelf
type Book struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Year       int       `json:"year"`
	Author     string    `json:"author"`
	Summary    string    `json:"summary"`
	Publisher  string    `json:"publisher"`
	PageCount  int       `json:"pageCount"`
	ReadPage   int       `json:"readPage"`
	Finished   bool      `json:"finished"`
	Reading    bool      `json:"reading"`
	InsertedAt time.Time `json:"insertedAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MarshalJSON writes insertedAt and updatedAt with millisecond precision
func (b Book) MarshalJSON() ([]byte, error) {
	type book Book
	return json.Marshal(struct {
		book
		InsertedAt string `json:"insertedAt"`
		UpdatedAt  string `json:"updatedAt"`
	}{
		book:       book(b),
		InsertedAt: b.InsertedAt.UTC().Format(TimestampLayout),
		UpdatedAt:  b.UpdatedAt.UTC().Format(TimestampLayout),
	})
}

// ToSummary returns the short form used by list views
func (b Book) ToSummary() BookSummary {
	return BookSummary{
		ID:        b.ID,
		Name:      b.Name,
		Publisher: b.Publisher,
	}
}

// BookSummary is the list-view projection of a book
type BookSummary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Publisher string `json:"publisher"`
}

// BookPayload carries the client-editable fields of a book
type BookPayload struct {
	Name      string `json:"name" validate:"required"`
	Year      int    `json:"year"`
	Author    string `json:"author"`
	Summary   string `json:"summary"`
	Publisher string `json:"publisher"`
	PageCount int    `json:"pageCount"`
	ReadPage  int    `json:"readPage"`
	Reading   bool   `json:"reading"`
}

// UnmarshalJSON accepts numeric fields written with a zero fraction (100.0)
// and rejects fractional ones
func (p *BookPayload) UnmarshalJSON(data []byte) error {
	type payload BookPayload
	var raw struct {
		payload
		Year      *float64 `json:"year"`
		PageCount *float64 `json:"pageCount"`
		ReadPage  *float64 `json:"readPage"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := BookPayload(raw.payload)
	var err error
	if out.Year, err = wholeNumber("year", raw.Year); err != nil {
		return err
	}
	if out.PageCount, err = wholeNumber("pageCount", raw.PageCount); err != nil {
		return err
	}
	if out.ReadPage, err = wholeNumber("readPage", raw.ReadPage); err != nil {
		return err
	}

	*p = out
	return nil
}

func wholeNumber(field string, v *float64) (int, error) {
	if v == nil {
		return 0, nil
	}
	if *v != math.Trunc(*v) || math.Abs(*v) > maxWholeNumber {
		return 0, fmt.Errorf("%s must be a whole number, got %v", field, *v)
	}
	return int(*v), nil
}

// BookFilter narrows a book listing. Nil fields are not applied.
type BookFilter struct {
	Name     *string
	Reading  *bool
	Finished *bool
}

// Matches reports whether the book satisfies every set field of the filter
func (f BookFilter) Matches(b Book) bool {
	if f.Name != nil && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(*f.Name)) {
		return false
	}
	if f.Reading != nil && b.Reading != *f.Reading {
		return false
	}
	if f.Finished != nil && b.Finished != *f.Finished {
		return false
	}
	return true
}

// EventAction names a book mutation
type EventAction string

const (
	ActionCreated EventAction = "created"
	ActionUpdated EventAction = "updated"
	ActionDeleted EventAction = "deleted"
)

// BookEvent records a single mutation of the shelf
type BookEvent struct {
	Time     time.Time   `json:"time"`
	Action   EventAction `json:"action"`
	BookID   string      `json:"bookId"`
	BookName string      `json:"bookName"`
}

// MarshalJSON writes the event time with millisecond precision
func (e BookEvent) MarshalJSON() ([]byte, error) {
	type event BookEvent
	return json.Marshal(struct {
		event
		Time string `json:"time"`
	}{
		event: event(e),
		Time:  e.Time.UTC().Format(TimestampLayout),
	})
}
