package api

import (
	"errors"
	"net/http"

	"bookshelf/internal/service"
)

const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// response is the JSON envelope of every reply
type response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func fail(message string) response {
	return response{Status: statusFail, Message: message}
}

func errorResponse(message string) response {
	return response{Status: statusError, Message: message}
}

// fromError maps a service error to an HTTP status and envelope
func fromError(err error) (int, response) {
	message := "Internal server error"
	var serr *service.Error
	if errors.As(err, &serr) {
		message = serr.Message
	}

	switch service.KindOf(err) {
	case service.KindValidation:
		return http.StatusBadRequest, fail(message)
	case service.KindNotFound:
		return http.StatusNotFound, fail(message)
	default:
		return http.StatusInternalServerError, errorResponse(message)
	}
}
