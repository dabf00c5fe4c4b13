package bot

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// WebhookPath is the route Telegram posts updates to in webhook mode
const WebhookPath = "/telegram-webhook"

// StartWebhook registers baseURL + WebhookPath with Telegram.
// Updates then arrive through WebhookHandler instead of polling.
func (b *Bot) StartWebhook(baseURL string) error {
	if b.api == nil {
		return fmt.Errorf("bot API is not configured")
	}

	b.logger.Info("Setting up webhook", zap.String("webhook_url", baseURL))

	webhookConfig, err := tgbotapi.NewWebhook(baseURL + WebhookPath)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	webhookConfig.MaxConnections = 40

	if _, err := b.api.Request(webhookConfig); err != nil {
		b.logger.Error("Failed to set webhook", zap.Error(err), zap.String("webhook_url", baseURL))
		return err
	}

	info, err := b.api.GetWebhookInfo()
	if err != nil {
		b.logger.Warn("Failed to get webhook info", zap.Error(err))
	} else {
		b.logger.Info("Webhook set successfully",
			zap.String("url", info.URL),
			zap.Int("pending_updates", info.PendingUpdateCount),
		)
	}

	return nil
}

// WebhookHandler decodes a pushed update and handles it in the background,
// so Telegram gets its acknowledgement right away
func (b *Bot) WebhookHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var update tgbotapi.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			b.logger.Warn("Failed to decode webhook update", zap.Error(err))
			c.Status(http.StatusBadRequest)
			return
		}

		go b.HandleUpdate(update)

		c.Status(http.StatusOK)
	}
}
