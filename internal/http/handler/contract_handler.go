package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/repository"
	"github.com/mowgliph/pacta-api/internal/service"
	"go.uber.org/zap"
)

// ContractHandler handles HTTP requests for contracts and their
// supplements, documents, notifications and audit history.
type ContractHandler struct {
	contractService   *service.ContractService
	supplementService *service.SupplementService
	auditService      *service.AuditLogService
	logger            *zap.Logger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(
	contractService *service.ContractService,
	supplementService *service.SupplementService,
	auditService *service.AuditLogService,
	logger *zap.Logger,
) *ContractHandler {
	return &ContractHandler{
		contractService:   contractService,
		supplementService: supplementService,
		auditService:      auditService,
		logger:            logger,
	}
}

// List godoc
// @Summary List contracts
// @Description Get paginated list of contracts with filtering and sorting
// @Tags Contracts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page (max 200)" default(20)
// @Param search query string false "Search by contract number or title"
// @Param status query string false "Filter by status" Enums(active, expired, pending, cancelled)
// @Param type query string false "Filter by type" Enums(service, purchase, lease, partnership, employment, other)
// @Param clientId query string false "Filter by client" format(uuid)
// @Param supplierId query string false "Filter by supplier" format(uuid)
// @Param endBefore query string false "End date upper bound (YYYY-MM-DD)"
// @Param endAfter query string false "End date lower bound (YYYY-MM-DD)"
// @Param sortBy query string false "Sort field" Enums(contractNumber, title, startDate, endDate, amount, status, createdAt)
// @Param sortOrder query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ContractDTO}
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	filters := repository.ContractFilters{
		Search: r.URL.Query().Get("search"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		s := domain.ContractStatus(status)
		if !s.IsValid() {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid status filter",
			})
			return
		}
		filters.Status = &s
	}
	if ctype := r.URL.Query().Get("type"); ctype != "" {
		t := domain.ContractType(ctype)
		if !t.IsValid() {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid type filter",
			})
			return
		}
		filters.Type = &t
	}
	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		id, err := uuid.Parse(clientID)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid clientId filter",
			})
			return
		}
		filters.ClientID = &id
	}
	if supplierID := r.URL.Query().Get("supplierId"); supplierID != "" {
		id, err := uuid.Parse(supplierID)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid supplierId filter",
			})
			return
		}
		filters.SupplierID = &id
	}
	if endBefore := r.URL.Query().Get("endBefore"); endBefore != "" {
		t, err := time.Parse("2006-01-02", endBefore)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid endBefore date, expected YYYY-MM-DD",
			})
			return
		}
		filters.EndBefore = &t
	}
	if endAfter := r.URL.Query().Get("endAfter"); endAfter != "" {
		t, err := time.Parse("2006-01-02", endAfter)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid endAfter date, expected YYYY-MM-DD",
			})
			return
		}
		filters.EndAfter = &t
	}

	sortBy := r.URL.Query().Get("sortBy")
	sortOrder := r.URL.Query().Get("sortOrder")

	result, err := h.contractService.List(r.Context(), filters, page, pageSize, sortBy, sortOrder)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to list contracts", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list contracts",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get contract by ID
// @Description Get a contract with its parties, supplement count and document count
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [get]
func (h *ContractHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	contract, err := h.contractService.GetByID(r.Context(), id)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrContractNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Contract not found",
			})
			return
		}
		h.logger.Error("failed to get contract", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get contract",
		})
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// Create godoc
// @Summary Create contract
// @Description Create a new contract. The contract number must be unique and the start date must not be after the end date.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param request body domain.CreateContractRequest true "Contract data"
// @Success 201 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse "Invalid data or date range"
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Client or supplier not found"
// @Failure 409 {object} domain.ErrorResponse "Duplicate contract number"
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	createdBy := ""
	if userCtx, ok := auth.FromContext(r.Context()); ok && userCtx != nil {
		createdBy = userCtx.UserID.String()
	}

	contract, err := h.contractService.Create(r.Context(), &req, createdBy)
	if err != nil {
		h.respondContractError(w, err, "Failed to create contract")
		return
	}

	w.Header().Set("Location", "/api/v1/contracts/"+contract.ID.String())
	respondJSON(w, http.StatusCreated, contract)
}

// Update godoc
// @Summary Update contract
// @Description Update the mutable fields of a contract. The contract number and parties are fixed.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.UpdateContractRequest true "Contract data"
// @Success 200 {object} domain.ContractDTO
// @Failure 400 {object} domain.ErrorResponse "Invalid data or date range"
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [put]
func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	var req domain.UpdateContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	contract, err := h.contractService.Update(r.Context(), id, &req)
	if err != nil {
		h.respondContractError(w, err, "Failed to update contract")
		return
	}

	respondJSON(w, http.StatusOK, contract)
}

// Delete godoc
// @Summary Delete contract
// @Description Delete a contract together with its supplements, documents and notifications. Audit history is retained.
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id} [delete]
func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	if err := h.contractService.Delete(r.Context(), id); err != nil {
		h.respondContractError(w, err, "Failed to delete contract")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListSupplements godoc
// @Summary List contract supplements
// @Description Get all supplements of a contract, newest effective date first
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 200 {array} domain.SupplementDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/supplements [get]
func (h *ContractHandler) ListSupplements(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	supplements, err := h.supplementService.ListByContract(r.Context(), id)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to list supplements", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list supplements",
		})
		return
	}

	respondJSON(w, http.StatusOK, supplements)
}

// CreateSupplement godoc
// @Summary Create contract supplement
// @Description Attach a new supplement to a contract. Supplement numbers are unique per contract.
// @Tags Contracts
// @Accept json
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param request body domain.CreateSupplementRequest true "Supplement data"
// @Success 201 {object} domain.SupplementDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Duplicate supplement number"
// @Security BearerAuth
// @Router /contracts/{id}/supplements [post]
func (h *ContractHandler) CreateSupplement(w http.ResponseWriter, r *http.Request) {
	contractID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	var req domain.CreateSupplementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid request body",
		})
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	createdBy := ""
	if userCtx, ok := auth.FromContext(r.Context()); ok && userCtx != nil {
		createdBy = userCtx.UserID.String()
	}

	supplement, err := h.supplementService.Create(r.Context(), contractID, &req, createdBy)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrContractNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Contract not found",
			})
			return
		}
		if errors.Is(err, service.ErrSupplementNumberTaken) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A supplement with this number already exists for the contract",
			})
			return
		}
		h.logger.Error("failed to create supplement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create supplement",
		})
		return
	}

	respondJSON(w, http.StatusCreated, supplement)
}

// ListAuditLogs godoc
// @Summary List contract audit history
// @Description Get the newest audit entries for a contract
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.AuditLogDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/audit [get]
func (h *ContractHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.auditService.ListForContract(r.Context(), id, limit)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to list contract audit logs", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list audit history",
		})
		return
	}

	respondJSON(w, http.StatusOK, logs)
}

// respondContractError maps contract service errors to HTTP responses.
func (h *ContractHandler) respondContractError(w http.ResponseWriter, err error, fallback string) {
	if respondPermissionError(w, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrContractNotFound):
		respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Error:   "Not Found",
			Message: "Contract not found",
		})
	case errors.Is(err, service.ErrContractPartyNotFound):
		respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
			Error:   "Not Found",
			Message: "Referenced client or supplier not found",
		})
	case errors.Is(err, service.ErrContractNumberTaken):
		respondJSON(w, http.StatusConflict, domain.ErrorResponse{
			Error:   "Conflict",
			Message: "A contract with this number already exists",
		})
	case errors.Is(err, service.ErrInvalidDateRange):
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Start date must not be after end date",
		})
	case errors.Is(err, service.ErrInvalidInput):
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
		})
	default:
		h.logger.Error("contract operation failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: fallback,
		})
	}
}
