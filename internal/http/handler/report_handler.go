package handler

import (
	"net/http"

	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/service"
	"go.uber.org/zap"
)

// exportFormats lists the formats accepted by the export query parameter
var exportFormats = map[string]bool{
	"csv":  true,
	"xlsx": true,
	"pdf":  true,
}

// ReportHandler handles report aggregation endpoints
type ReportHandler struct {
	reportService *service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// exportFormat validates the optional export query parameter. Returns false
// and writes a 400 on an unrecognized format.
func exportFormat(w http.ResponseWriter, r *http.Request) (string, bool) {
	format := r.URL.Query().Get("export")
	if format != "" && !exportFormats[format] {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid export format. Must be one of: csv, xlsx, pdf",
		})
		return "", false
	}
	return format, true
}

// respond writes the report, auditing the export only after a successful
// build so a denied request leaves no export trail.
func (h *ReportHandler) respond(w http.ResponseWriter, r *http.Request, result interface{}, err error, reportName, format, logMsg string) {
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error(logMsg, zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to build report",
		})
		return
	}
	if format != "" {
		h.reportService.RecordExport(r.Context(), reportName, format)
	}
	respondJSON(w, http.StatusOK, result)
}

// StatusDistribution godoc
// @Summary Contract status distribution
// @Description Contract counts and percentages per lifecycle status
// @Tags Reports
// @Produce json
// @Param export query string false "Record an export of this report" Enums(csv, xlsx, pdf)
// @Success 200 {object} domain.StatusDistributionDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/status [get]
func (h *ReportHandler) StatusDistribution(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	result, err := h.reportService.StatusDistribution(r.Context())
	h.respond(w, r, result, err, "status_distribution", format, "failed to build status distribution report")
}

// PartyReport godoc
// @Summary Contracts by client and supplier
// @Description Contract counts and total values grouped by party
// @Tags Reports
// @Produce json
// @Param export query string false "Record an export of this report" Enums(csv, xlsx, pdf)
// @Success 200 {object} domain.PartyReportDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/parties [get]
func (h *ReportHandler) PartyReport(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	result, err := h.reportService.PartyReport(r.Context())
	h.respond(w, r, result, err, "party_report", format, "failed to build party report")
}

// ExpirationReport godoc
// @Summary Contract expiration buckets
// @Description Active contracts bucketed by days remaining until expiration
// @Tags Reports
// @Produce json
// @Param export query string false "Record an export of this report" Enums(csv, xlsx, pdf)
// @Success 200 {object} domain.ExpirationBucketsDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/expirations [get]
func (h *ReportHandler) ExpirationReport(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	result, err := h.reportService.ExpirationReport(r.Context())
	h.respond(w, r, result, err, "expiration_report", format, "failed to build expiration report")
}

// FinancialReport godoc
// @Summary Financial summary
// @Description Contract value totals, averages, type breakdown and monthly trend
// @Tags Reports
// @Produce json
// @Param export query string false "Record an export of this report" Enums(csv, xlsx, pdf)
// @Success 200 {object} domain.FinancialReportDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/financial [get]
func (h *ReportHandler) FinancialReport(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	result, err := h.reportService.FinancialReport(r.Context())
	h.respond(w, r, result, err, "financial_report", format, "failed to build financial report")
}

// SupplementReport godoc
// @Summary Supplement activity
// @Description Supplement counts by status, by contract and by month
// @Tags Reports
// @Produce json
// @Param export query string false "Record an export of this report" Enums(csv, xlsx, pdf)
// @Success 200 {object} domain.SupplementReportDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/supplements [get]
func (h *ReportHandler) SupplementReport(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	result, err := h.reportService.SupplementReport(r.Context())
	h.respond(w, r, result, err, "supplement_report", format, "failed to build supplement report")
}

// ModificationReport godoc
// @Summary Contract modifications
// @Description Contracts with supplements and each contract's latest modification
// @Tags Reports
// @Produce json
// @Param export query string false "Record an export of this report" Enums(csv, xlsx, pdf)
// @Success 200 {object} domain.ModificationReportDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /reports/modifications [get]
func (h *ReportHandler) ModificationReport(w http.ResponseWriter, r *http.Request) {
	format, ok := exportFormat(w, r)
	if !ok {
		return
	}
	result, err := h.reportService.ModificationReport(r.Context())
	h.respond(w, r, result, err, "modification_report", format, "failed to build modification report")
}
