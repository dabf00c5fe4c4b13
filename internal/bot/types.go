package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

// BookReader is the read side of the book service used by bot commands
type BookReader interface {
	List(ctx context.Context, filter models.BookFilter) ([]models.BookSummary, error)
	Get(ctx context.Context, id string) (models.Book, error)
	RecentEvents(ctx context.Context, limit int) ([]models.BookEvent, error)
}

// sender is the part of tgbotapi.BotAPI used to deliver messages
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot represents the Telegram bot wrapper
type Bot struct {
	api          *tgbotapi.BotAPI
	sender       sender
	books        BookReader
	allowedUsers map[int64]bool
	logger       *zap.Logger

	// Notifications
	notifyChatID int64
	queue        chan models.BookEvent
	queueMu      sync.RWMutex
	closed       bool
	wg           sync.WaitGroup
}
