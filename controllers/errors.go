package controllers

import (
	"Playroom/services/lobby"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StatusFor maps a lobby error to its HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, lobby.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, lobby.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, lobby.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, lobby.ErrConflict),
		errors.Is(err, lobby.ErrFull),
		errors.Is(err, lobby.ErrNotReady),
		errors.Is(err, lobby.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, lobby.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func respondError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		// don't leak internals
		_ = c.Error(err)
		logrus.WithField("path", c.FullPath()).WithError(err).Error("[HTTP] internal error")
		c.JSON(status, ErrorResponse{Error: "internal server error", Code: lobby.ErrorCode(err)})
		return
	}
	c.JSON(status, ErrorResponse{Error: err.Error(), Code: lobby.ErrorCode(err)})
}

// badRequest reports a body or query that could not be bound
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: lobby.ErrorCode(lobby.ErrValidation)})
}
