package handlers

import (
	"net/http"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/pkg"
)

// HealthHandler, /api/health endpoint'ini yöneten struct.
type HealthHandler struct {
	db *database.DB
}

// NewHealthHandler, constructor.
func NewHealthHandler(db *database.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check godoc
// GET /api/health
// DB bağlantısını ping'ler — load balancer / uptime monitör için.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Conn.PingContext(r.Context()); err != nil {
		pkg.ErrorWithMessage(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}

	pkg.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
