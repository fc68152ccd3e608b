package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/services"
)

// AttachmentHandler, attachment metadata endpoint'ini yöneten struct.
type AttachmentHandler struct {
	attachmentService services.AttachmentService
}

// NewAttachmentHandler, constructor.
func NewAttachmentHandler(attachmentService services.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Register godoc
// POST /api/attachments
// Body: { "filename": "...", "file_url": "...", "file_size": 1024, "mime_type": "image/png" }
//
// Dosya upload'ı burada YAPILMAZ — client dosyayı dış servise yükler,
// dönen URL'i buraya kaydeder ve mesaj gönderirken id'yi kullanır.
func (h *AttachmentHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	var req models.RegisterAttachmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	att, err := h.attachmentService.Register(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, att)
}
