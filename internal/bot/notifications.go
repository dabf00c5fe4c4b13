package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

// Notify queues a shelf event for delivery to the notification chat.
// It never blocks: events are dropped when the queue is full or closed.
func (b *Bot) Notify(event models.BookEvent) {
	if b.notifyChatID == 0 {
		return
	}

	b.queueMu.RLock()
	defer b.queueMu.RUnlock()

	if b.closed {
		return
	}

	select {
	case b.queue <- event:
	default:
		b.logger.Warn("Notification queue is full, dropping event",
			zap.String("action", string(event.Action)),
			zap.String("book_id", event.BookID),
		)
	}
}

func (b *Bot) notifyWorker(id int) {
	defer b.wg.Done()

	for event := range b.queue {
		msg := tgbotapi.NewMessage(b.notifyChatID, formatEvent(event))
		b.sendMessage(msg)
	}
	b.logger.Debug("Notification worker stopped", zap.Int("worker", id))
}

// closeQueue stops accepting notifications and waits until the queued ones are sent
func (b *Bot) closeQueue() {
	b.queueMu.Lock()
	if b.closed {
		b.queueMu.Unlock()
		return
	}
	b.closed = true
	close(b.queue)
	b.queueMu.Unlock()

	b.wg.Wait()
}

func formatEvent(event models.BookEvent) string {
	switch event.Action {
	case models.ActionCreated:
		return fmt.Sprintf("📚 Book added: %s (%s)", event.BookName, event.BookID)
	case models.ActionUpdated:
		return fmt.Sprintf("✏️ Book updated: %s (%s)", event.BookName, event.BookID)
	case models.ActionDeleted:
		return fmt.Sprintf("🗑 Book deleted: %s (%s)", event.BookName, event.BookID)
	default:
		return fmt.Sprintf("Book %s: %s (%s)", event.Action, event.BookName, event.BookID)
	}
}
