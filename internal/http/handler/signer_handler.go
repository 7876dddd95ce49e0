package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/auth"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/service"
	"go.uber.org/zap"
)

// SignerHandler handles HTTP requests for authorized signers
type SignerHandler struct {
	signerService *service.SignerService
	logger        *zap.Logger
}

// NewSignerHandler creates a new signer handler
func NewSignerHandler(signerService *service.SignerService, logger *zap.Logger) *SignerHandler {
	return &SignerHandler{
		signerService: signerService,
		logger:        logger,
	}
}

// Create godoc
// @Summary Create authorized signer
// @Description Register an authorized signer for a client or supplier
// @Tags Signers
// @Accept json
// @Produce json
// @Param request body domain.CreateSignerRequest true "Signer data"
// @Success 201 {object} domain.AuthorizedSignerDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse "Company not found"
// @Security BearerAuth
// @Router /signers [post]
func (h *SignerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateSignerRequest
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

	signer, err := h.signerService.Create(r.Context(), &req, createdBy)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrSignerCompanyNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Referenced company not found",
			})
			return
		}
		h.logger.Error("failed to create signer", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to create signer",
		})
		return
	}

	respondJSON(w, http.StatusCreated, signer)
}

// GetByID godoc
// @Summary Get authorized signer by ID
// @Tags Signers
// @Produce json
// @Param id path string true "Signer ID" format(uuid)
// @Success 200 {object} domain.AuthorizedSignerDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /signers/{id} [get]
func (h *SignerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid signer ID format",
		})
		return
	}

	signer, err := h.signerService.GetByID(r.Context(), id)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrSignerNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Signer not found",
			})
			return
		}
		h.logger.Error("failed to get signer", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get signer",
		})
		return
	}

	respondJSON(w, http.StatusOK, signer)
}

// Update godoc
// @Summary Update authorized signer
// @Description Update a signer's personal details. The company binding is fixed.
// @Tags Signers
// @Accept json
// @Produce json
// @Param id path string true "Signer ID" format(uuid)
// @Param request body domain.UpdateSignerRequest true "Signer data"
// @Success 200 {object} domain.AuthorizedSignerDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /signers/{id} [put]
func (h *SignerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid signer ID format",
		})
		return
	}

	var req domain.UpdateSignerRequest
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

	signer, err := h.signerService.Update(r.Context(), id, &req)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrSignerNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Signer not found",
			})
			return
		}
		h.logger.Error("failed to update signer", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update signer",
		})
		return
	}

	respondJSON(w, http.StatusOK, signer)
}

// Delete godoc
// @Summary Delete authorized signer
// @Tags Signers
// @Produce json
// @Param id path string true "Signer ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /signers/{id} [delete]
func (h *SignerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid signer ID format",
		})
		return
	}

	if err := h.signerService.Delete(r.Context(), id); err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrSignerNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Signer not found",
			})
			return
		}
		h.logger.Error("failed to delete signer", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete signer",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
