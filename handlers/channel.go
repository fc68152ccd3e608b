package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/services"
)

// ChannelHandler, kanal endpoint'lerini yöneten struct.
type ChannelHandler struct {
	channelService services.ChannelService
}

// NewChannelHandler, constructor.
func NewChannelHandler(channelService services.ChannelService) *ChannelHandler {
	return &ChannelHandler{channelService: channelService}
}

// List godoc
// GET /api/channels
// Kullanıcının üyesi olduğu kanalları okunmamış sayılarıyla döner.
func (h *ChannelHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	summaries, err := h.channelService.ListForUser(r.Context(), user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, summaries)
}

// Create godoc
// POST /api/channels
// Body: { "name": "...", "type": "direct|group", "member_ids": [2, 3] }
func (h *ChannelHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req models.CreateChannelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	channel, err := h.channelService.Create(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, channel)
}

// Get godoc
// GET /api/channels/{id}
// Response kanalın yanında çağıranın okuma durumunu da taşır
// (unread_count + last_read_message_id).
func (h *ChannelHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.channelService.Get(r.Context(), channelID, user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, detail)
}

// Join godoc
// POST /api/channels/{id}/join
func (h *ChannelHandler) Join(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.channelService.Join(r.Context(), channelID, user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "joined"})
}

// Leave godoc
// POST /api/channels/{id}/leave
func (h *ChannelHandler) Leave(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.channelService.Leave(r.Context(), channelID, user.ID); err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"message": "left"})
}

// Members godoc
// GET /api/channels/{id}/members
func (h *ChannelHandler) Members(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	channelID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.channelService.Members(r.Context(), channelID, user.ID)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusOK, members)
}

// pathID, path parametresini int64'e çevirir.
// Geçersizse 400 yazar ve (0, false) döner — handler hemen return etmelidir.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid "+name+" path parameter")
		return 0, false
	}
	return id, true
}
