package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookshelf/internal/config"
)

func TestApp_ServesBookAPI(t *testing.T) {
	cfg := &config.Config{Port: 5000, EventLogCapacity: 10}
	application, err := NewWithConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	defer application.Shutdown()

	assert.Equal(t, ":5000", application.server.Addr)
	assert.Nil(t, application.bot)

	req := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(`{"name":"Sapiens","pageCount":10,"readPage":3}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data struct {
			BookID string `json:"bookId"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/books/"+created.Data.BookID, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Sapiens"`)

	rec = httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"action":"created"`)
}

func TestApp_WebhookRouteRequiresBot(t *testing.T) {
	cfg := &config.Config{Port: 5000, EventLogCapacity: 10}
	application, err := NewWithConfig(cfg, zap.NewNop())
	require.NoError(t, err)
	defer application.Shutdown()

	rec := httptest.NewRecorder()
	application.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/telegram-webhook", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
