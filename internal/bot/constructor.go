package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

const (
	notifyQueueSize = 100
	notifyWorkers   = 2
)

// NewBot creates a new Telegram bot
func NewBot(token string, books BookReader, allowedUserIDs []int64, notifyChatID int64, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		logger.Error("Failed to create bot API", zap.Error(err))
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	logger.Info("Bot created", zap.String("bot_username", api.Self.UserName))

	b := newBot(api, books, allowedUserIDs, notifyChatID, logger)
	b.api = api
	return b, nil
}

// newBot wires everything except the polling API and starts the notification workers
func newBot(s sender, books BookReader, allowedUserIDs []int64, notifyChatID int64, logger *zap.Logger) *Bot {
	allowedUsers := make(map[int64]bool)
	for _, id := range allowedUserIDs {
		allowedUsers[id] = true
	}

	b := &Bot{
		sender:       s,
		books:        books,
		allowedUsers: allowedUsers,
		logger:       logger,
		notifyChatID: notifyChatID,
		queue:        make(chan models.BookEvent, notifyQueueSize),
	}

	for i := 0; i < notifyWorkers; i++ {
		b.wg.Add(1)
		go b.notifyWorker(i)
	}

	return b
}
