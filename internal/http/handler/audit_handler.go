package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/service"
	"go.uber.org/zap"
)

// validAuditActions contains all recognized audit action values
var validAuditActions = map[domain.AuditAction]bool{
	domain.AuditActionCreate: true,
	domain.AuditActionUpdate: true,
	domain.AuditActionDelete: true,
	domain.AuditActionLogin:  true,
	domain.AuditActionExport: true,
}

// AuditHandler handles audit log related HTTP requests
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description List audit trail entries with optional filters, newest first
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param contractId query string false "Filter by contract ID" format(uuid)
// @Param userId query string false "Filter by user ID"
// @Param action query string false "Filter by action" Enums(create, update, delete, login, export)
// @Param start query string false "Start of time range (RFC 3339)"
// @Param end query string false "End of time range (RFC 3339)"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /audit-logs [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params := service.AuditLogQueryParams{
		UserID: query.Get("userId"),
	}
	params.Page, _ = strconv.Atoi(query.Get("page"))
	params.PageSize, _ = strconv.Atoi(query.Get("pageSize"))

	if raw := query.Get("contractId"); raw != "" {
		contractID, err := uuid.Parse(raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid contractId format",
			})
			return
		}
		params.ContractID = &contractID
	}

	if raw := query.Get("action"); raw != "" {
		action := domain.AuditAction(raw)
		if !validAuditActions[action] {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid action. Must be one of: create, update, delete, login, export",
			})
			return
		}
		params.Action = &action
	}

	if raw := query.Get("start"); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid start time. Use RFC 3339 format",
			})
			return
		}
		params.StartTime = &start
	}

	if raw := query.Get("end"); raw != "" {
		end, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid end time. Use RFC 3339 format",
			})
			return
		}
		params.EndTime = &end
	}

	result, err := h.auditService.List(r.Context(), params)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to list audit logs", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list audit logs",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetStats godoc
// @Summary Audit activity statistics
// @Description Count audit entries per action within a time range. Defaults
// to the last 30 days when no range is given.
// @Tags Audit
// @Produce json
// @Param start query string false "Start of time range (RFC 3339)"
// @Param end query string false "End of time range (RFC 3339)"
// @Success 200 {object} map[string]int64
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /audit-logs/stats [get]
func (h *AuditHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid start time. Use RFC 3339 format",
			})
			return
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid end time. Use RFC 3339 format",
			})
			return
		}
		end = parsed
	}

	stats, err := h.auditService.GetStats(r.Context(), start, end)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to get audit stats", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get audit statistics",
		})
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
