package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/services"
)

// MessageHandler, mesaj endpoint'lerini yöneten struct.
type MessageHandler struct {
	messageService services.MessageService
}

// NewMessageHandler, constructor.
func NewMessageHandler(messageService services.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// List godoc
// GET /api/channels/{id}/messages?before=ID&limit=50
// Mesajları cursor-based pagination ile döner.
//
// Query parametreleri:
// - before: Bu mesaj ID'sinden önceki mesajları getir (boşsa en yenilerden başla)
// - limit: Kaç mesaj dönsün (default 50, max 100)
func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var beforeID int64
	if b := r.URL.Query().Get("before"); b != "" {
		parsed, err := strconv.ParseInt(b, 10, 64)
		if err != nil {
			pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid before parameter")
			return
		}
		beforeID = parsed
	}

	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	list, err := h.messageService.List(r.Context(), channelID, user.ID, beforeID, limit)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, list)
}

// Create godoc
// POST /api/channels/{id}/messages
// Body: { "body": "mesaj metni", "attachment_ids": ["uuid", ...] }
func (h *MessageHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := h.messageService.Create(r.Context(), channelID, user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, payload)
}

// Update godoc
// PATCH /api/messages/{id}
// Body: { "body": "düzeltilmiş metin" }
func (h *MessageHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	messageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	payload, err := h.messageService.Update(r.Context(), messageID, user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, payload)
}

// Delete godoc
// DELETE /api/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	messageID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.messageService.Delete(r.Context(), messageID, user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
