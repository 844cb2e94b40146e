package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/infosort/infosort/internal/handler/dto"
	"github.com/infosort/infosort/internal/service"
)

// UserHandler handles HTTP requests for user registration and lifecycle.
type UserHandler struct {
	svc    *service.UserService
	logger *slog.Logger
	dev    bool
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService, logger *slog.Logger, dev bool) *UserHandler {
	return &UserHandler{svc: svc, logger: logger, dev: dev}
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	req.LineUserID = strings.TrimSpace(req.LineUserID)
	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", dto.ValidationMessage(err))
		return
	}

	user, err := h.svc.Register(r.Context(), req.LineUserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.LineUserID)

	writeJSON(w, http.StatusCreated, user)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.List(r.Context())
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// Get handles GET /api/users/{lineUserId}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	lineUserID := chi.URLParam(r, "lineUserId")

	user, err := h.svc.Get(r.Context(), lineUserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{lineUserId}.
// Returns the removed record; blocked while the user owns items.
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	lineUserID := chi.URLParam(r, "lineUserId")

	user, err := h.svc.Delete(r.Context(), lineUserID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", lineUserID)

	writeJSON(w, http.StatusOK, dto.DeleteUserResponse{
		Message: "User deleted successfully",
		User:    user,
	})
}

// handleServiceError maps service errors to HTTP responses.
func (h *UserHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrUserExists):
		writeError(w, http.StatusConflict, "USER_EXISTS", "User with this LINE User ID already exists")
	case errors.Is(err, service.ErrUserHasItems):
		writeError(w, http.StatusConflict, "USER_HAS_ITEMS", "User cannot be deleted while owning information items")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", internalMessage(err, h.dev))
	}
}
