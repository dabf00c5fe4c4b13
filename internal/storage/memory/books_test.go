package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"bookshelf/internal/models"
	"bookshelf/internal/storage"
)

func newTestBook(id, name string) models.Book {
	return models.Book{
		ID:        id,
		Name:      name,
		Publisher: "Publisher " + name,
		PageCount: 100,
	}
}

func TestBookStore_AppendAndGet(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()

	if err := store.Append(ctx, newTestBook("a1", "Sapiens")); err != nil {
		t.Fatalf("Failed to append book: %v", err)
	}

	book, err := store.Get(ctx, "a1")
	if err != nil {
		t.Fatalf("Failed to get book: %v", err)
	}
	if book.Name != "Sapiens" {
		t.Errorf("Expected name 'Sapiens', got '%s'", book.Name)
	}

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, storage.ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound, got %v", err)
	}
}

func TestBookStore_GetReturnsCopy(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()
	_ = store.Append(ctx, newTestBook("a1", "Sapiens"))

	book, _ := store.Get(ctx, "a1")
	book.Name = "Changed"

	again, _ := store.Get(ctx, "a1")
	if again.Name != "Sapiens" {
		t.Errorf("Expected stored book to be unchanged, got '%s'", again.Name)
	}
}

func TestBookStore_ListPreservesOrder(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()

	for i, name := range []string{"C", "A", "B"} {
		_ = store.Append(ctx, newTestBook(fmt.Sprintf("id%d", i), name))
	}

	books, err := store.List(ctx, models.BookFilter{})
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("Expected 3 books, got %d", len(books))
	}
	for i, want := range []string{"C", "A", "B"} {
		if books[i].Name != want {
			t.Errorf("Expected book %d to be '%s', got '%s'", i, want, books[i].Name)
		}
	}
}

func TestBookStore_ListEmptyIsNotNil(t *testing.T) {
	store := NewBookStore()

	books, err := store.List(context.Background(), models.BookFilter{})
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if books == nil {
		t.Error("Expected empty slice, got nil")
	}
}

func TestBookStore_ListFilter(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()

	sapiens := newTestBook("1", "Sapiens")
	sapiens.Reading = true
	homoDeus := newTestBook("2", "Homo Deus")
	homoDeus.Finished = true
	_ = store.Append(ctx, sapiens)
	_ = store.Append(ctx, homoDeus)

	name := "SAPI"
	books, _ := store.List(ctx, models.BookFilter{Name: &name})
	if len(books) != 1 || books[0].ID != "1" {
		t.Errorf("Expected only Sapiens for name filter, got %v", books)
	}

	finished := true
	books, _ = store.List(ctx, models.BookFilter{Finished: &finished})
	if len(books) != 1 || books[0].ID != "2" {
		t.Errorf("Expected only Homo Deus for finished filter, got %v", books)
	}

	reading := false
	books, _ = store.List(ctx, models.BookFilter{Name: &name, Reading: &reading})
	if len(books) != 0 {
		t.Errorf("Expected filters to compose, got %d books", len(books))
	}
}

func TestBookStore_Modify(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()
	_ = store.Append(ctx, newTestBook("1", "Old"))

	updated, err := store.Modify(ctx, "1", func(current models.Book) (models.Book, error) {
		current.Name = "New"
		return current, nil
	})
	if err != nil {
		t.Fatalf("Failed to modify book: %v", err)
	}
	if updated.Name != "New" {
		t.Errorf("Expected returned name 'New', got '%s'", updated.Name)
	}

	book, _ := store.Get(ctx, "1")
	if book.Name != "New" {
		t.Errorf("Expected stored name 'New', got '%s'", book.Name)
	}
}

func TestBookStore_ModifyErrorLeavesBookUntouched(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()
	_ = store.Append(ctx, newTestBook("1", "Old"))

	boom := errors.New("boom")
	_, err := store.Modify(ctx, "1", func(current models.Book) (models.Book, error) {
		current.Name = "New"
		return current, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected callback error, got %v", err)
	}

	book, _ := store.Get(ctx, "1")
	if book.Name != "Old" {
		t.Errorf("Expected stored name 'Old', got '%s'", book.Name)
	}
}

func TestBookStore_ModifyMissingSkipsCallback(t *testing.T) {
	store := NewBookStore()

	called := false
	_, err := store.Modify(context.Background(), "missing", func(current models.Book) (models.Book, error) {
		called = true
		return current, nil
	})
	if !errors.Is(err, storage.ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound, got %v", err)
	}
	if called {
		t.Error("Expected callback not to run for a missing book")
	}
}

func TestBookStore_RemoveExactlyOne(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		_ = store.Append(ctx, newTestBook(fmt.Sprintf("%d", i), fmt.Sprintf("Book %d", i)))
	}

	removed, err := store.Remove(ctx, "1")
	if err != nil {
		t.Fatalf("Failed to remove book: %v", err)
	}
	if removed.ID != "1" {
		t.Errorf("Expected removed id '1', got '%s'", removed.ID)
	}
	if store.Len() != 3 {
		t.Fatalf("Expected 3 books after removal, got %d", store.Len())
	}

	books, _ := store.List(ctx, models.BookFilter{})
	for i, want := range []string{"0", "2", "3"} {
		if books[i].ID != want {
			t.Errorf("Expected book %d to have id '%s', got '%s'", i, want, books[i].ID)
		}
	}

	if _, err := store.Remove(ctx, "1"); !errors.Is(err, storage.ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound on second removal, got %v", err)
	}
	if store.Len() != 3 {
		t.Errorf("Expected store unchanged after failed removal, got %d", store.Len())
	}
}

func TestBookStore_ConcurrentAccess(t *testing.T) {
	store := NewBookStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("%d", i)
			_ = store.Append(ctx, newTestBook(id, id))
			_, _ = store.Modify(ctx, id, func(current models.Book) (models.Book, error) {
				current.ReadPage++
				return current, nil
			})
			_, _ = store.List(ctx, models.BookFilter{})
		}(i)
	}
	wg.Wait()

	if store.Len() != 50 {
		t.Errorf("Expected 50 books, got %d", store.Len())
	}
}
