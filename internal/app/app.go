package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bookshelf/internal/api"
	"bookshelf/internal/bot"
	"bookshelf/internal/config"
	"bookshelf/internal/service"
	"bookshelf/internal/storage"
	"bookshelf/internal/storage/ch"
	"bookshelf/internal/storage/memory"
)

// App represents the application
type App struct {
	config *config.Config
	logger *zap.Logger
	books  storage.BookStore
	events storage.EventLog
	svc    *service.Service
	bot    *bot.Bot
	server *http.Server
}

// New creates and initializes a new application instance from the environment
func New() (*App, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.LogDevelopment)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return NewWithConfig(cfg, logger)
}

// NewWithConfig builds the application from an explicit configuration
func NewWithConfig(cfg *config.Config, logger *zap.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger}

	logger.Info("Starting Bookshelf service...")

	if err := app.initEventLog(); err != nil {
		return nil, err
	}

	app.books = memory.NewBookStore()
	app.svc = service.New(app.books, app.events, logger)

	if err := app.initBot(); err != nil {
		_ = app.events.Close()
		return nil, err
	}

	app.initHTTPServer()

	return app, nil
}

func newLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// initEventLog initializes the journal of shelf mutations
func (a *App) initEventLog() error {
	var events storage.EventLog
	if a.config.UseClickHouse {
		tlsStatus := "without TLS"
		if a.config.ClickHouseUseTLS {
			tlsStatus = "with TLS"
		}
		a.logger.Info("Connecting to ClickHouse event log",
			zap.String("host", a.config.ClickHouseHost),
			zap.Int("port", a.config.ClickHousePort),
			zap.String("database", a.config.ClickHouseDatabase),
			zap.String("user", a.config.ClickHouseUser),
			zap.String("tls", tlsStatus),
		)
		clickhouseLog, err := ch.NewEventLog(
			a.config.ClickHouseHost,
			a.config.ClickHousePort,
			a.config.ClickHouseDatabase,
			a.config.ClickHouseUser,
			a.config.ClickHousePassword,
			a.config.ClickHouseUseTLS,
		)
		if err != nil {
			return fmt.Errorf("failed to connect to ClickHouse: %w", err)
		}
		events = clickhouseLog
	} else {
		a.logger.Info("Using in-memory event log", zap.Int("capacity", a.config.EventLogCapacity))
		events = memory.NewEventLog(a.config.EventLogCapacity)
	}

	if err := events.Initialize(context.Background()); err != nil {
		return fmt.Errorf("failed to initialize event log: %w", err)
	}

	a.events = events
	return nil
}

// initBot initializes the optional Telegram bot
func (a *App) initBot() error {
	if !a.config.TelegramEnabled() {
		a.logger.Info("TELEGRAM_BOT_TOKEN not set, Telegram bot disabled")
		return nil
	}

	telegramBot, err := bot.NewBot(
		a.config.TelegramToken,
		a.svc,
		a.config.AllowedUserIDs,
		a.config.TelegramChatID,
		a.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create Telegram bot: %w", err)
	}
	a.logger.Info("Telegram bot created",
		zap.Int64s("allowed_users", a.config.AllowedUserIDs),
		zap.Int64("notify_chat_id", a.config.TelegramChatID),
		zap.Bool("webhook_mode", a.config.WebhookMode),
	)

	a.svc.SetNotifier(telegramBot)
	a.bot = telegramBot
	return nil
}

// initHTTPServer builds the HTTP server for the book API
func (a *App) initHTTPServer() {
	if !a.config.LogDevelopment {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(a.svc, a.logger)

	// Webhook endpoint (only receives traffic in webhook mode)
	if a.bot != nil {
		router.POST(bot.WebhookPath, a.bot.WebhookHandler())
	}

	a.server = &http.Server{
		Addr:         ":" + strconv.Itoa(a.config.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Handler returns the HTTP handler serving the book API
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run starts the application and blocks until shutdown
func (a *App) Run() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info("Starting HTTP server", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	if a.bot != nil {
		if a.config.WebhookMode {
			a.logger.Info("Starting bot in WEBHOOK mode", zap.String("webhook_url", a.config.WebhookURL))
			if err := a.bot.StartWebhook(a.config.WebhookURL); err != nil {
				_ = a.Shutdown()
				return fmt.Errorf("failed to setup webhook: %w", err)
			}
		} else {
			go func() {
				a.logger.Info("Starting bot in POLLING mode")
				if err := a.bot.Start(); err != nil {
					a.logger.Error("Failed to start bot", zap.Error(err))
				}
			}()
		}
	}

	select {
	case <-sigChan:
		a.logger.Info("Received shutdown signal")
	case err := <-errChan:
		a.logger.Error("HTTP server error", zap.Error(err))
		_ = a.Shutdown()
		return fmt.Errorf("http server: %w", err)
	}

	return a.Shutdown()
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown() error {
	a.logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("HTTP server shutdown error", zap.Error(err))
	}

	if a.bot != nil {
		a.bot.Stop()
	}

	if err := a.books.Close(); err != nil {
		a.logger.Warn("Error closing book store", zap.Error(err))
	}

	if err := a.events.Close(); err != nil {
		a.logger.Error("Error closing event log", zap.Error(err))
		return err
	}

	a.logger.Info("Shutdown complete")
	_ = a.logger.Sync()
	return nil
}
