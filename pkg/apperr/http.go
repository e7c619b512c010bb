package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vmnc/esports-api/repos/store"
)

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidCollection),
		errors.Is(err, store.ErrInvalidID):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Respond writes err as a JSON error body and aborts the chain. Storage and
// unexpected errors are logged and replaced by a generic message.
func Respond(c *gin.Context, log zerolog.Logger, err error) {
	status := Status(err)
	message := err.Error()

	var appErr *Error
	switch {
	case status == http.StatusServiceUnavailable:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("storage unavailable")
		message = "Database unavailable"
	case status == http.StatusInternalServerError:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		message = "Internal server error"
	case status == http.StatusUnauthorized:
		message = "Unauthorized"
	case errors.Is(err, store.ErrInvalidID):
		message = "Invalid identifier"
	case errors.As(err, &appErr):
		message = appErr.Message
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// Recovery turns a panic into the standard 500 body.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("recovered from panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	})
}

// NoRoute answers unknown routes.
func NoRoute(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
}
