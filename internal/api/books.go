package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookshelf/internal/models"
	"bookshelf/internal/service"
)

const (
	defaultEventLimit = 20
	maxEventLimit     = 100
)

type bookIDData struct {
	BookID string `json:"bookId"`
}

type booksData struct {
	Books []models.BookSummary `json:"books"`
}

type bookData struct {
	Book models.Book `json:"book"`
}

type eventsData struct {
	Events []models.BookEvent `json:"events"`
}

func (h *Handler) addBook(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}

	book, err := h.books.Create(c.Request.Context(), payload)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response{
		Status:  statusSuccess,
		Message: service.MsgAdded,
		Data:    bookIDData{BookID: book.ID},
	})
}

func (h *Handler) listBooks(c *gin.Context) {
	var filter models.BookFilter
	if name, ok := c.GetQuery("name"); ok {
		filter.Name = &name
	}
	filter.Reading = boolQuery(c, "reading")
	filter.Finished = boolQuery(c, "finished")

	books, err := h.books.List(c.Request.Context(), filter)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Status: statusSuccess,
		Data:   booksData{Books: books},
	})
}

func (h *Handler) getBook(c *gin.Context) {
	book, err := h.books.Get(c.Request.Context(), c.Param("bookId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Status: statusSuccess,
		Data:   bookData{Book: book},
	})
}

func (h *Handler) editBook(c *gin.Context) {
	payload, ok := h.bindPayload(c)
	if !ok {
		return
	}

	if _, err := h.books.Update(c.Request.Context(), c.Param("bookId"), payload); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Status:  statusSuccess,
		Message: service.MsgUpdated,
	})
}

func (h *Handler) deleteBook(c *gin.Context) {
	if err := h.books.Delete(c.Request.Context(), c.Param("bookId")); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Status:  statusSuccess,
		Message: service.MsgDeleted,
	})
}

func (h *Handler) listEvents(c *gin.Context) {
	limit := defaultEventLimit
	if raw, ok := c.GetQuery("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxEventLimit {
			c.JSON(http.StatusBadRequest, fail("limit must be between 1 and "+strconv.Itoa(maxEventLimit)))
			return
		}
		limit = n
	}

	events, err := h.books.RecentEvents(c.Request.Context(), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, response{
		Status: statusSuccess,
		Data:   eventsData{Events: events},
	})
}

// bindPayload decodes the request body. An empty body decodes to an empty
// payload so that the field rules report what is missing.
func (h *Handler) bindPayload(c *gin.Context) (models.BookPayload, bool) {
	var payload models.BookPayload
	if err := c.ShouldBindJSON(&payload); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Failed to decode request body",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
		)
		c.JSON(http.StatusBadRequest, fail("Invalid request payload"))
		return models.BookPayload{}, false
	}
	return payload, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	status, body := fromError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.Error(err),
			zap.Stringer("kind", service.KindOf(err)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}
	c.JSON(status, body)
}

// boolQuery parses a boolean-ish query parameter; absent or unparseable
// values disable the filter
func boolQuery(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}
