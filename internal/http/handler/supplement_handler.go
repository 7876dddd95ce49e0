package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/service"
	"go.uber.org/zap"
)

// SupplementHandler handles standalone supplement endpoints
type SupplementHandler struct {
	supplementService *service.SupplementService
	logger            *zap.Logger
}

// NewSupplementHandler creates a new supplement handler
func NewSupplementHandler(supplementService *service.SupplementService, logger *zap.Logger) *SupplementHandler {
	return &SupplementHandler{
		supplementService: supplementService,
		logger:            logger,
	}
}

// GetByID godoc
// @Summary Get supplement by ID
// @Tags Supplements
// @Produce json
// @Param id path string true "Supplement ID" format(uuid)
// @Success 200 {object} domain.SupplementDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /supplements/{id} [get]
func (h *SupplementHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid supplement ID format",
		})
		return
	}

	supplement, err := h.supplementService.GetByID(r.Context(), id)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrSupplementNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Supplement not found",
			})
			return
		}
		h.logger.Error("failed to get supplement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get supplement",
		})
		return
	}

	respondJSON(w, http.StatusOK, supplement)
}

// Update godoc
// @Summary Update supplement
// @Description Update a supplement's details and status
// @Tags Supplements
// @Accept json
// @Produce json
// @Param id path string true "Supplement ID" format(uuid)
// @Param request body domain.UpdateSupplementRequest true "Supplement data"
// @Success 200 {object} domain.SupplementDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /supplements/{id} [put]
func (h *SupplementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid supplement ID format",
		})
		return
	}

	var req domain.UpdateSupplementRequest
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

	supplement, err := h.supplementService.Update(r.Context(), id, &req)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrSupplementNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Supplement not found",
			})
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: err.Error(),
			})
			return
		}
		h.logger.Error("failed to update supplement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update supplement",
		})
		return
	}

	respondJSON(w, http.StatusOK, supplement)
}

// Delete godoc
// @Summary Delete supplement
// @Tags Supplements
// @Produce json
// @Param id path string true "Supplement ID" format(uuid)
// @Success 204 "No Content"
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /supplements/{id} [delete]
func (h *SupplementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid supplement ID format",
		})
		return
	}

	if err := h.supplementService.Delete(r.Context(), id); err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrSupplementNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Supplement not found",
			})
			return
		}
		h.logger.Error("failed to delete supplement", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to delete supplement",
		})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
