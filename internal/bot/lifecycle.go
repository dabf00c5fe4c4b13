package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Start starts the bot in polling mode and blocks until Stop is called
func (b *Bot) Start() error {
	if b.api == nil {
		return fmt.Errorf("bot API is not configured")
	}

	b.logger.Info("Starting bot in polling mode")

	// Remove webhook (if any was set previously)
	_, err := b.api.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil {
		b.logger.Warn("Failed to delete webhook", zap.Error(err))
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Bot started successfully. Waiting for updates...")

	b.handleUpdates(updates)
	return nil
}

// Stop stops polling and flushes pending notifications
func (b *Bot) Stop() {
	if b.api != nil {
		b.api.StopReceivingUpdates()
	}
	b.closeQueue()
	b.logger.Info("Bot stopped")
}

// HandleUpdate processes a single update
func (b *Bot) HandleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	userID := update.Message.From.ID
	if !b.allowedUsers[userID] {
		b.logger.Warn("Unauthorized access attempt",
			zap.Int64("user_id", userID),
			zap.String("username", update.Message.From.UserName),
			zap.String("first_name", update.Message.From.FirstName),
			zap.String("last_name", update.Message.From.LastName),
			zap.String("text", update.Message.Text),
		)
		msg := tgbotapi.NewMessage(update.Message.Chat.ID, "Sorry, you are not authorized to use this bot.")
		b.sendMessage(msg)
		return
	}

	b.handleMessage(update.Message)
}

// handleUpdates processes incoming updates from polling mode
func (b *Bot) handleUpdates(updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		b.HandleUpdate(update)
	}
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if b.sender == nil {
		return
	}

	if _, err := b.sender.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", msg.ChatID),
		)
	}
}
