package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"bookshelf/internal/models"
	"bookshelf/internal/service"
)

const lastEventsLimit = 10

// handleStart shows welcome message and available commands
func (b *Bot) handleStart(message *tgbotapi.Message) {
	text := `Welcome to the Bookshelf bot! 📚

Available commands:
/books [name] - List books, optionally filtered by name
/book <id> - Show a single book
/last - Show the last 10 shelf changes`

	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	b.sendMessage(msg)
}

// handleBooks lists book summaries, filtered by the command argument if any
func (b *Bot) handleBooks(ctx context.Context, message *tgbotapi.Message) {
	var filter models.BookFilter
	if name := strings.TrimSpace(message.CommandArguments()); name != "" {
		filter.Name = &name
	}

	books, err := b.books.List(ctx, filter)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		b.sendMessage(msg)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, formatBookList(books))
	b.sendMessage(msg)
}

// handleBook shows the full record of one book
func (b *Bot) handleBook(ctx context.Context, message *tgbotapi.Message) {
	id := strings.TrimSpace(message.CommandArguments())
	if id == "" {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Usage: /book <id>")
		b.sendMessage(msg)
		return
	}

	book, err := b.books.Get(ctx, id)
	if service.IsNotFound(err) {
		msg := tgbotapi.NewMessage(message.Chat.ID, "Book not found.")
		b.sendMessage(msg)
		return
	}
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		b.sendMessage(msg)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, formatBook(book))
	b.sendMessage(msg)
}

// handleLast shows the most recent shelf changes
func (b *Bot) handleLast(ctx context.Context, message *tgbotapi.Message) {
	events, err := b.books.RecentEvents(ctx, lastEventsLimit)
	if err != nil {
		msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Error: %v", err))
		b.sendMessage(msg)
		return
	}

	if len(events) == 0 {
		msg := tgbotapi.NewMessage(message.Chat.ID, "No shelf changes recorded yet.")
		b.sendMessage(msg)
		return
	}

	var text strings.Builder
	text.WriteString("Last shelf changes:\n\n")
	for i, event := range events {
		text.WriteString(fmt.Sprintf("%d. %s - %s %s (%s)\n",
			i+1,
			event.Time.Format("2006-01-02 15:04"),
			event.Action,
			event.BookName,
			event.BookID))
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, text.String())
	b.sendMessage(msg)
}

func formatBookList(books []models.BookSummary) string {
	if len(books) == 0 {
		return "No books found."
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("Books (%d):\n\n", len(books)))
	for i, book := range books {
		text.WriteString(fmt.Sprintf("%d. %s", i+1, book.Name))
		if book.Publisher != "" {
			text.WriteString(fmt.Sprintf(" - %s", book.Publisher))
		}
		text.WriteString(fmt.Sprintf(" [%s]\n", book.ID))
	}
	return text.String()
}

func formatBook(book models.Book) string {
	status := "not started"
	switch {
	case book.Finished:
		status = "finished"
	case book.Reading:
		status = "reading"
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("📖 %s\n", book.Name))
	if book.Author != "" {
		text.WriteString(fmt.Sprintf("Author: %s\n", book.Author))
	}
	if book.Year != 0 {
		text.WriteString(fmt.Sprintf("Year: %d\n", book.Year))
	}
	if book.Publisher != "" {
		text.WriteString(fmt.Sprintf("Publisher: %s\n", book.Publisher))
	}
	text.WriteString(fmt.Sprintf("Progress: %d/%d pages (%s)\n", book.ReadPage, book.PageCount, status))
	if book.Summary != "" {
		text.WriteString(fmt.Sprintf("\n%s\n", book.Summary))
	}
	text.WriteString(fmt.Sprintf("\nID: %s", book.ID))
	return text.String()
}
