package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/services"
)

// ReadStateHandler, okuma durumu endpoint'lerini yöneten struct.
type ReadStateHandler struct {
	readStateService services.ReadStateService
}

// NewReadStateHandler, constructor.
func NewReadStateHandler(readStateService services.ReadStateService) *ReadStateHandler {
	return &ReadStateHandler{readStateService: readStateService}
}

// MarkRead godoc
// POST /api/read-state/mark
// Body: { "channelId": 5, "messageId": 42 }
//
// Watermark'ı ilerletir; response tüm kanalların güncel okunmamış
// sayılarıdır — client sidebar badge'lerini tek seferde tazeler.
func (h *ReadStateHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.MarkReadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.readStateService.MarkRead(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}

// UnreadCounts godoc
// GET /api/read-state/unread
func (h *ReadStateHandler) UnreadCounts(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	counts, err := h.readStateService.UnreadCounts(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]any{"unreadCounts": counts})
}
