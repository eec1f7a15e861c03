package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body returned by every handler.
type ErrorResponse struct {
	Error string `json:"error"`
}

// currentUserID reads the authenticated user ID or aborts with 401.
func currentUserID(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	return userID, true
}

// respondServiceError maps service errors to HTTP statuses. Client errors
// carry the error text; anything else is logged and reported as fallback.
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrReportInput):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrDuplicate), errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(status, ErrorResponse{Error: fallback})
		return
	}
	logger.Warn(fallback, slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, ErrorResponse{Error: err.Error()})
}
