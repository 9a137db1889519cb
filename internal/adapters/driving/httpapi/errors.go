package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
	"github.com/custodia-labs/verdict-cli/internal/logger"
)

// Error codes in API responses.
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeNotFound          = "NOT_FOUND"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeUnavailable       = "SERVICE_UNAVAILABLE"
	CodeTimeout           = "TIMEOUT"
	CodeInternal          = "INTERNAL_ERROR"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps a domain error onto a status and code.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, domain.ErrUnsupportedType):
		respondError(c, http.StatusBadRequest, CodeUnsupportedFormat, err.Error())
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrNERUnavailable),
		errors.Is(err, domain.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, CodeUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, CodeTimeout, err.Error())
	default:
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}
