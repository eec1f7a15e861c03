package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/dto"
	"github.com/SscSPs/ledgerify/internal/middleware"
	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests related to financial reports
type reportingHandler struct {
	reportingService portssvc.ReportingSvc
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingSvc) *reportingHandler {
	return &reportingHandler{reportingService: rs}
}

// registerReportingRoutes registers routes related to financial reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingSvc) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/drift", h.getBalanceDrift)
		reportingGroup.GET("/:reportType", h.getReport)
	}
}

// getReport godoc
// @Summary Generate a financial report
// @Description Generates a trial balance, income statement, balance sheet, retained earnings statement or ratio set from approved entries.
// @Tags reports
// @Produce json
// @Param reportType path string true "Report type" Enums(trial-balance, income-statement, balance-sheet, retained-earnings, financial-ratios)
// @Param asOf query string false "Report date (YYYY-MM-DD)"
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} domain.Report
// @Failure 400 {object} ErrorResponse "Unknown report type or missing date"
// @Failure 500 {object} ErrorResponse "Failed to generate report"
// @Security BearerAuth
// @Router /api/v1/reports/{reportType} [get]
func (h *reportingHandler) getReport(c *gin.Context) {
	reportType := domain.ReportType(c.Param("reportType"))
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("report_type", string(reportType)))

	var params dto.ReportQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	asOf, from, to, err := params.Parse()
	if err != nil {
		logger.Warn("Invalid report date", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid date format. Use YYYY-MM-DD"})
		return
	}

	report, err := h.reportingService.GenerateReport(c.Request.Context(), reportType, asOf, from, to)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate report")
		return
	}

	c.JSON(http.StatusOK, report)
}

// getBalanceDrift godoc
// @Summary Balance drift check
// @Description Compares each account's cached balance with the balance replayed from every approved entry.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.DriftResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/v1/reports/drift [get]
func (h *reportingHandler) getBalanceDrift(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	checkedAt := time.Now().UTC()
	drifts, checked, err := h.reportingService.CheckBalanceDrift(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to check balance drift")
		return
	}
	if drifts == nil {
		drifts = []domain.BalanceDrift{}
	}

	c.JSON(http.StatusOK, dto.DriftResponse{CheckedAt: checkedAt, Drifted: drifts, Accounts: checked})
}
