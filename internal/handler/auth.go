package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/infosort/infosort/internal/handler/dto"
	"github.com/infosort/infosort/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
	dev    bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger, dev bool) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger, dev: dev}
}

// Login handles POST /api/auth/login.
// Validates the LINE User ID against registered users and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	req.LineUserID = strings.TrimSpace(req.LineUserID)
	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", dto.ValidationMessage(err))
		return
	}

	user, token, err := h.svc.Login(r.Context(), req.LineUserID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogin) {
			writeError(w, http.StatusUnauthorized, "INVALID_LOGIN", "Invalid LINE User ID or user does not exist")
			return
		}
		h.internalError(w, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", user.LineUserID)

	writeJSON(w, http.StatusOK, dto.ToLoginResponse(user, token))
}

func (h *AuthHandler) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("internal_error", "error", err)
	writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", internalMessage(err, h.dev))
}

// internalMessage redacts unexpected error detail outside development mode.
func internalMessage(err error, dev bool) string {
	if dev {
		return err.Error()
	}
	return "An internal error occurred"
}
