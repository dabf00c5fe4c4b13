// Package api exposes the book service over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/models"
)

// BookService is the set of operations the HTTP handlers need
type BookService interface {
	Create(ctx context.Context, payload models.BookPayload) (models.Book, error)
	List(ctx context.Context, filter models.BookFilter) ([]models.BookSummary, error)
	Get(ctx context.Context, id string) (models.Book, error)
	Update(ctx context.Context, id string, payload models.BookPayload) (models.Book, error)
	Delete(ctx context.Context, id string) error
	RecentEvents(ctx context.Context, limit int) ([]models.BookEvent, error)
}

// Handler serves the book routes
type Handler struct {
	books  BookService
	logger *zap.Logger
}

// NewRouter builds the gin engine with every route and middleware registered
func NewRouter(books BookService, logger *zap.Logger) *gin.Engine {
	h := &Handler{books: books, logger: logger}

	router := gin.New()
	router.Use(h.recovery(), h.requestLogger(), cors())

	router.GET("/health", h.health)

	router.GET("/books", h.listBooks)
	router.POST("/books", h.addBook)
	router.GET("/books/:bookId", h.getBook)
	router.PUT("/books/:bookId", h.editBook)
	router.DELETE("/books/:bookId", h.deleteBook)

	router.GET("/events", h.listEvents)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, fail("Not found"))
	})

	return router
}

// cors allows every origin on every route and answers preflight requests
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Accept, Authorization, Content-Type, If-None-Match")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		h.logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.Error("Recovered from panic in handler",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse("Internal server error"))
	})
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, response{Status: statusSuccess, Message: "ok"})
}
