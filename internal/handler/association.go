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

// AssociationHandler handles HTTP requests for item/tag associations.
type AssociationHandler struct {
	svc    *service.AssociationService
	logger *slog.Logger
	dev    bool
}

// NewAssociationHandler creates a new AssociationHandler.
func NewAssociationHandler(svc *service.AssociationService, logger *slog.Logger, dev bool) *AssociationHandler {
	return &AssociationHandler{svc: svc, logger: logger, dev: dev}
}

// Create handles POST /api/item-tag-associations.
func (h *AssociationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAssociationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", dto.ValidationMessage(err))
		return
	}

	assoc, err := h.svc.Link(r.Context(), req.ItemID, req.TagID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("association_created", "item_id", assoc.ItemID, "tag_id", assoc.TagID)

	writeJSON(w, http.StatusCreated, assoc)
}

// Delete handles DELETE /api/item-tag-associations/{itemId}/{tagId}.
// Removing a link that does not exist still returns 204.
func (h *AssociationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")
	tagID := chi.URLParam(r, "tagId")

	if err := h.svc.Unlink(r.Context(), itemID, tagID); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.logger.Info("association_deleted", "item_id", itemID, "tag_id", tagID)

	w.WriteHeader(http.StatusNoContent)
}

// TagsForItem handles GET /api/item-tag-associations/item/{itemId}/tags.
func (h *AssociationHandler) TagsForItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemId")

	tags, err := h.svc.TagsForItem(r.Context(), itemID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

// ItemsForTag handles GET /api/item-tag-associations/tag/{tagId}/items.
func (h *AssociationHandler) ItemsForTag(w http.ResponseWriter, r *http.Request) {
	tagID := chi.URLParam(r, "tagId")

	items, err := h.svc.ItemsForTag(r.Context(), tagID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

// handleServiceError maps service errors to HTTP responses.
func (h *AssociationHandler) handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateAssociation):
		writeError(w, http.StatusConflict, "ASSOCIATION_EXISTS", "This tag is already associated with this item")
	case errors.Is(err, service.ErrAssociationBadRef):
		writeError(w, http.StatusBadRequest, "UNKNOWN_REFERENCE", "Item or tag does not exist")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", internalMessage(err, h.dev))
	}
}
