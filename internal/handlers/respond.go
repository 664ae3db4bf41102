package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/selotroca/selotroca-backend/internal/services"
	"golang.org/x/exp/slog"
)

// statusForCode maps business error codes to HTTP statuses.
func statusForCode(code services.ErrorCode) int {
	switch code {
	case services.CodeNotFound:
		return http.StatusNotFound
	case services.CodeForbidden:
		return http.StatusForbidden
	case services.CodeConflictingListing:
		return http.StatusConflict
	case services.CodeUnauthorized, services.CodeSessionExpired, services.CodeInvalidCredentials:
		return http.StatusUnauthorized
	case services.CodeInvalidStateTransition, services.CodeQuotaExceeded,
		services.CodeValidation, services.CodeInvalidOtp,
		services.CodeOtpExpired, services.CodeTooManyAttempts:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders a service error. Business errors carry their
// machine-readable code; anything else is a 500 with the detail kept out of
// the response body.
func respondError(c *gin.Context, err error) {
	if de, ok := services.AsDomainError(err); ok {
		c.JSON(statusForCode(de.Code), gin.H{"error": de.Message, "code": de.Code})
		return
	}

	requestID, _ := c.Get("RequestID")
	slog.Error("Request failed", "error", err, "path", c.Request.URL.Path, "requestId", requestID)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// respondBindError renders a malformed-request error with field detail.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": "Invalid request: " + err.Error(),
		"code":  services.CodeValidation,
	})
}
