package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mowgliph/pacta-api/internal/domain"
	"github.com/mowgliph/pacta-api/internal/service"
	"go.uber.org/zap"
)

// AuthHandler handles login, registration and the current-user endpoint
type AuthHandler struct {
	authService *service.AuthService
	permissions *service.PermissionService
	logger      *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, permissions *service.PermissionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		permissions: permissions,
		logger:      logger,
	}
}

// Login godoc
// @Summary Log in
// @Description Verify credentials and issue a JWT access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.LoginRequest true "Credentials"
// @Success 200 {object} domain.LoginResponse
// @Failure 400 {object} domain.ErrorResponse
// @Failure 401 {object} domain.ErrorResponse
// @Failure 403 {object} domain.ErrorResponse "Account inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
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

	resp, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			respondJSON(w, http.StatusUnauthorized, domain.ErrorResponse{
				Error:   "Unauthorized",
				Message: "Invalid email or password",
			})
			return
		}
		if errors.Is(err, service.ErrUserInactive) {
			respondJSON(w, http.StatusForbidden, domain.ErrorResponse{
				Error:   "Forbidden",
				Message: "Account is inactive",
			})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to log in",
		})
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Register godoc
// @Summary Register a user account
// @Description Create a new account. The first registered user becomes an administrator; later registrations default to viewer.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Account data"
// @Success 201 {object} domain.UserDTO
// @Failure 400 {object} domain.ErrorResponse
// @Failure 409 {object} domain.ErrorResponse "Email already registered"
// @Router /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
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

	user, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondJSON(w, http.StatusConflict, domain.ErrorResponse{
				Error:   "Conflict",
				Message: "A user with this email already exists",
			})
			return
		}
		h.logger.Error("registration failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to register user",
		})
		return
	}

	respondJSON(w, http.StatusCreated, user)
}

// Me godoc
// @Summary Get current user
// @Description Return the profile and effective permissions of the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.CurrentUserResponse
// @Failure 401 {object} domain.ErrorResponse
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.CurrentUser(r.Context())
	if err != nil {
		if respondPermissionError(w, err) {
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			respondJSON(w, http.StatusNotFound, domain.ErrorResponse{
				Error:   "Not Found",
				Message: "User not found",
			})
			return
		}
		h.logger.Error("failed to load current user", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to load current user",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.CurrentUserResponse{
		User: *user,
		Permissions: domain.UserPermissionsDTO{
			CanEdit:       h.permissions.CheckPermission(r.Context(), domain.RoleEditor),
			CanManage:     h.permissions.CheckPermission(r.Context(), domain.RoleManager),
			CanAdminister: h.permissions.CheckPermission(r.Context(), domain.RoleAdmin),
		},
	})
}
