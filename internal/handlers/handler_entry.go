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

// entryHandler serves one entry kind. Journal and adjusting entries share
// the handler and differ only in the kind passed to the service.
type entryHandler struct {
	entryService portssvc.EntrySvcFacade
	kind         domain.EntryKind
}

func newEntryHandler(es portssvc.EntrySvcFacade, kind domain.EntryKind) *entryHandler {
	return &entryHandler{entryService: es, kind: kind}
}

// registerEntryRoutes registers the entry routes of one kind under path.
func registerEntryRoutes(rg *gin.RouterGroup, path string, kind domain.EntryKind, entryService portssvc.EntrySvcFacade) {
	h := newEntryHandler(entryService, kind)

	entries := rg.Group(path)
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:entryID", h.getEntry)
		entries.PATCH("/:entryID/status", h.updateEntryStatus)
	}
}

// createEntry godoc
// @Summary Create an entry
// @Description Creates a journal or adjusting entry. Entries by managers are approved immediately and update account balances; others await review.
// @Tags entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateEntryRequest true "Entry details"
// @Success 201 {object} dto.EntryOutcomeResponse
// @Failure 400 {object} ErrorResponse "Unbalanced entry or invalid lines"
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/journal-entries [post]
// @Router /api/v1/adjusting-entries [post]
func (h *entryHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(h.kind)))
	var req dto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := currentUserID(c, logger)
	if !ok {
		return
	}

	outcome, err := h.entryService.CreateEntry(c.Request.Context(), h.kind, req, creatorUserID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create entry")
		return
	}

	c.JSON(http.StatusCreated, dto.ToEntryOutcomeResponse(outcome))
}

// listEntries godoc
// @Summary List entries
// @Description Lists entries newest first. Non-managers only see their own entries.
// @Tags entries
// @Produce json
// @Param status query string false "Filter by status" Enums(Pending Review, Approved, Rejected)
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/journal-entries [get]
// @Router /api/v1/adjusting-entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("kind", string(h.kind)))

	var params dto.ListEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListEntries", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	userID, ok := currentUserID(c, logger)
	if !ok {
		return
	}

	entries, next, err := h.entryService.ListEntries(c.Request.Context(), h.kind, params, userID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToListEntriesResponse(entries, next))
}

// getEntry godoc
// @Summary Get an entry
// @Tags entries
// @Produce json
// @Param entryID path string true "Entry ID"
// @Success 200 {object} dto.EntryResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/journal-entries/{entryID} [get]
// @Router /api/v1/adjusting-entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")

	userID, ok := currentUserID(c, logger)
	if !ok {
		return
	}

	entry, err := h.entryService.GetEntryByID(c.Request.Context(), h.kind, entryID, userID)
	if err != nil {
		respondServiceError(c, logger.With(slog.String("entry_id", entryID)), err, "Failed to retrieve entry")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// updateEntryStatus godoc
// @Summary Approve or reject an entry
// @Description Managers move an entry between Pending Review, Approved and Rejected. Approval applies the entry to account balances; leaving Approved reverses it.
// @Tags entries
// @Accept json
// @Produce json
// @Param entryID path string true "Entry ID"
// @Param status body dto.UpdateEntryStatusRequest true "New status"
// @Success 200 {object} dto.EntryOutcomeResponse
// @Failure 400 {object} ErrorResponse "Unknown status or missing rejection reason"
// @Failure 403 {object} ErrorResponse "Only managers may review entries"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Status changed by another request"
// @Security BearerAuth
// @Router /api/v1/journal-entries/{entryID}/status [patch]
// @Router /api/v1/adjusting-entries/{entryID}/status [patch]
func (h *entryHandler) updateEntryStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("entryID")
	logger = logger.With(slog.String("entry_id", entryID))

	var req dto.UpdateEntryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateEntryStatus", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := currentUserID(c, logger)
	if !ok {
		return
	}

	outcome, err := h.entryService.UpdateEntryStatus(c.Request.Context(), h.kind, entryID, req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to update entry status")
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryOutcomeResponse(outcome))
}
