package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/dto"
	"github.com/SscSPs/ledgerify/internal/middleware"
	"github.com/gin-gonic/gin"
)

type eventLogHandler struct {
	eventLogService portssvc.EventLogSvc
}

func registerEventLogRoutes(rg *gin.RouterGroup, eventLogService portssvc.EventLogSvc) {
	h := &eventLogHandler{eventLogService: eventLogService}
	rg.GET("/event-logs", h.listEventLogs)
}

// listEventLogs godoc
// @Summary List event logs
// @Description Lists audit records newest first. Managers and administrators only.
// @Tags event-logs
// @Produce json
// @Param table query string false "Table name" Enums(accounts, entries, users)
// @Param recordID query string false "Record ID"
// @Param limit query int false "Maximum records" default(50)
// @Success 200 {object} dto.ListEventLogsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/event-logs [get]
func (h *eventLogHandler) listEventLogs(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListEventLogsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEventLogs", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := currentUserID(c, logger)
	if !ok {
		return
	}

	events, err := h.eventLogService.ListEvents(c.Request.Context(), params.ToFilter(), userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list event logs")
		return
	}
	if events == nil {
		events = []domain.EventLogRecord{}
	}

	c.JSON(http.StatusOK, dto.ListEventLogsResponse{Events: events})
}
