package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/program-catalog-api/internal/models"
	"github.com/program-catalog-api/internal/validation"
	"github.com/rs/zerolog"
)

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch models.ErrorKind(err) {
	case "not_found":
		return http.StatusNotFound
	case "invalid_request":
		return http.StatusBadRequest
	case "upstream_unavailable":
		return http.StatusServiceUnavailable
	case "conflict":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as JSON. Internal errors are logged and their
// message is not exposed.
func respondError(c *gin.Context, log zerolog.Logger, err error) {
	status := statusFor(err)

	var details validation.Errors
	if errors.As(err, &details) {
		c.JSON(status, gin.H{
			"error":   "validation failed",
			"kind":    models.ErrorKind(err),
			"details": details,
		})
		return
	}

	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
		c.JSON(status, gin.H{"error": "Internal server error", "kind": "internal"})
		return
	}

	if status == http.StatusServiceUnavailable {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Provider unavailable")
	}

	c.JSON(status, gin.H{
		"error": err.Error(),
		"kind":  models.ErrorKind(err),
	})
}

// respondInvalid writes a 400 when errs is non-empty and reports whether it did
func respondInvalid(c *gin.Context, log zerolog.Logger, errs []validation.ValidationError) bool {
	if len(errs) == 0 {
		return false
	}
	respondError(c, log, validation.AsError(errs))
	return true
}
