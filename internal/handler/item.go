package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/infosort/infosort/internal/handler/dto"
	"github.com/infosort/infosort/internal/service"
)

// ItemHandler handles HTTP requests for information item operations.
//
// Mutations are keyed by item id only. The routes require a valid bearer
// token but do not check that the caller owns the item.
type ItemHandler struct {
	svc    *service.ItemService
	logger *slog.Logger
	dev    bool
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger, dev bool) *ItemHandler {
	return &ItemHandler{svc: svc, logger: logger, dev: dev}
}

// Create handles POST /api/items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", dto.ValidationMessage(err))
		return
	}

	item, err := h.svc.Create(r.Context(), service.CreateItemInput{
		UserID:          req.UserID,
		Type:            req.Type,
		Title:           req.Title,
		OriginalContent: req.OriginalContent,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("item_created", "item_id", item.ID, "user_id", item.UserID, "type", item.Type)

	writeJSON(w, http.StatusCreated, item)
}

// List handles GET /api/items?userId=.
// The userId query parameter is required.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "MISSING_USER_ID", "User ID is required")
		return
	}

	items, err := h.svc.List(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// ListByType handles GET /api/items/type/{type}?userId=.
// The userId query parameter optionally narrows the result to one owner.
func (h *ItemHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	itemType := chi.URLParam(r, "type")

	var userID *string
	if id := r.URL.Query().Get("userId"); id != "" {
		userID = &id
	}

	items, err := h.svc.ListByType(r.Context(), itemType, userID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.svc.Get(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, item)
}

// Update handles PUT /api/items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	item, err := h.svc.Update(r.Context(), service.UpdateItemInput{
		ID:              id,
		Type:            req.Type,
		Title:           req.Title,
		OriginalContent: req.OriginalContent,
	})
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("item_updated", "item_id", item.ID)

	writeJSON(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), id); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("item_deleted", "item_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps service errors to HTTP responses.
func (h *ItemHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Information item not found")
	case errors.Is(err, service.ErrItemOwnerMissing):
		writeError(w, http.StatusBadRequest, "UNKNOWN_USER", "Item owner does not exist")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", internalMessage(err, h.dev))
	}
}
