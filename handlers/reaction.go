package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/services"
)

// ReactionHandler, reaction endpoint'ini yöneten struct.
type ReactionHandler struct {
	reactionService services.ReactionService
}

// NewReactionHandler, constructor.
func NewReactionHandler(reactionService services.ReactionService) *ReactionHandler {
	return &ReactionHandler{reactionService: reactionService}
}

// Toggle godoc
// POST /api/reactions/toggle
// Body: { "messageId": 42, "reactionType": "👍", "scope": "main|thread" }
//
// Aynı kullanıcı + mesaj + emoji için toggle: yoksa ekler ("added"),
// varsa kaldırır ("removed"). Response güncel gruplu özeti de taşır.
func (h *ReactionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.ToggleReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.reactionService.Toggle(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, result)
}
