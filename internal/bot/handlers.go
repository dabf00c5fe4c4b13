package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage",
				zap.Any("panic", r),
				zap.Int64("chat_id", message.Chat.ID),
			)
			msg := tgbotapi.NewMessage(message.Chat.ID, "An error occurred while processing your request. Please try again.")
			b.sendMessage(msg)
		}
	}()

	if !message.IsCommand() {
		return
	}

	ctx := context.Background()

	switch message.Command() {
	case "start", "help":
		b.handleStart(message)
	case "books":
		b.handleBooks(ctx, message)
	case "book":
		b.handleBook(ctx, message)
	case "last":
		b.handleLast(ctx, message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /start to see available commands.")
		b.sendMessage(msg)
	}
}
