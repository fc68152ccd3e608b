package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/services"
)

// ThreadHandler, thread endpoint'lerini yöneten struct.
type ThreadHandler struct {
	threadService services.ThreadService
}

// NewThreadHandler, constructor.
func NewThreadHandler(threadService services.ThreadService) *ThreadHandler {
	return &ThreadHandler{threadService: threadService}
}

// List godoc
// GET /api/channels/{id}/messages/{messageId}/thread
// Parent mesajın canlı yanıtlarını döner.
func (h *ThreadHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	parentID, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}

	replies, err := h.threadService.List(r.Context(), channelID, parentID, user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, replies)
}

// Reply godoc
// POST /api/channels/{id}/messages/{messageId}/thread
// Body: { "body": "yanıt metni" }
func (h *ThreadHandler) Reply(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	parentID, ok := pathID(w, r, "messageId")
	if !ok {
		return
	}

	var req models.CreateThreadMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := h.threadService.Reply(r.Context(), channelID, parentID, user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, payload)
}

// Delete godoc
// DELETE /api/channels/{id}/thread-messages/{replyId}
func (h *ThreadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	replyID, ok := pathID(w, r, "replyId")
	if !ok {
		return
	}

	if err := h.threadService.Delete(r.Context(), channelID, replyID, user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
