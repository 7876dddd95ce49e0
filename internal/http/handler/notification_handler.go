package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/service"
	"go.uber.org/zap"
)

// NotificationHandler handles HTTP requests for expiration notifications
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new NotificationHandler instance
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary List notifications
// @Description List expiration notifications, optionally filtered by status
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param status query string false "Notification status" Enums(unread, read, acknowledged)
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	var status *domain.NotificationStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.NotificationStatus(raw)
		switch s {
		case domain.NotificationStatusUnread, domain.NotificationStatusRead, domain.NotificationStatusAcknowledged:
			status = &s
		default:
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Invalid status. Must be one of: unread, read, acknowledged",
			})
			return
		}
	}

	result, err := h.notificationService.List(r.Context(), page, pageSize, status)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to list notifications", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list notifications",
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// UnreadCount godoc
// @Summary Count unread notifications
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.UnreadCountDTO
// @Security BearerAuth
// @Router /notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.CountUnread(r.Context())
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to count unread notifications", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to count unread notifications",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.UnreadCountDTO{Count: count})
}

// ListByContract godoc
// @Summary List notifications for a contract
// @Tags Notifications
// @Produce json
// @Param id path string true "Contract ID" format(uuid)
// @Success 200 {array} domain.NotificationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /contracts/{id}/notifications [get]
func (h *NotificationHandler) ListByContract(w http.ResponseWriter, r *http.Request) {
	contractID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid contract ID format",
		})
		return
	}

	notifications, err := h.notificationService.ListByContract(r.Context(), contractID)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to list contract notifications", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to list contract notifications",
		})
		return
	}

	respondJSON(w, http.StatusOK, notifications)
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Description Transition an unread notification to read. Reading an already
// read or acknowledged notification is a no-op.
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} domain.NotificationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.notificationService.MarkAsRead, "failed to mark notification as read")
}

// MarkAsAcknowledged godoc
// @Summary Acknowledge notification
// @Description Transition a notification to acknowledged from any prior state
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} domain.NotificationDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 404 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/{id}/acknowledge [post]
func (h *NotificationHandler) MarkAsAcknowledged(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.notificationService.MarkAsAcknowledged, "failed to acknowledge notification")
}

func (h *NotificationHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	fn func(ctx context.Context, id uuid.UUID) (*domain.NotificationDTO, error),
	logMsg string,
) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid notification ID format",
		})
		return
	}

	notification, err := fn(r.Context(), id)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrNotificationNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "Notification not found",
			})
			return
		}
		h.logger.Error(logMsg, zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update notification",
		})
		return
	}

	respondJSON(w, http.StatusOK, notification)
}

// GetSettings godoc
// @Summary Get notification settings
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.NotificationSettingsDTO
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/settings [get]
func (h *NotificationHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.notificationService.GetSettings(r.Context())
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		h.logger.Error("failed to get notification settings", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to get notification settings",
		})
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// UpdateSettings godoc
// @Summary Update notification settings
// @Description Replace the expiration alert thresholds and recipients
// @Tags Notifications
// @Accept json
// @Produce json
// @Param request body domain.UpdateNotificationSettingsRequest true "Settings"
// @Success 200 {object} domain.NotificationSettingsDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /notifications/settings [put]
func (h *NotificationHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNotificationSettingsRequest
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

	settings, err := h.notificationService.UpdateSettings(r.Context(), &req)
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrInvalidThreshold) {
			respondJSON(w, http.StatusBadRequest, domain.ErrorResponse{
				Error:   "Bad Request",
				Message: "Thresholds must be positive day counts",
			})
			return
		}
		h.logger.Error("failed to update notification settings", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to update notification settings",
		})
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
