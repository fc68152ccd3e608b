// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Middleware chain helper'ları burada tanımlıdır:
//   - public: sadece metrics (auth yok)
//   - auth: metrics + JWT token doğrulaması
//
// metrics.Middleware route kaydı sırasında sarılır — Go 1.22+ router
// pattern'i (r.Pattern) ancak kayıtlı handler çağrılırken dolu olur,
// mux'un dışına sarılan bir middleware pattern'i göremez.
package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edulink/chatsync/metrics"
	"github.com/edulink/chatsync/middleware"
	"github.com/edulink/chatsync/repository"
	"github.com/edulink/chatsync/services"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerden ÖNCE
// tanımlanmalı — Go router aksi halde literal kelimeyi parametre sanır.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	authService services.AuthService,
	userRepo repository.UserRepository,
) {
	// ─── Middleware ───
	authMw := middleware.NewAuthMiddleware(authService, userRepo)

	// ─── Middleware Chain Helpers ───
	public := func(handler http.HandlerFunc) http.Handler {
		return metrics.Middleware(http.HandlerFunc(handler))
	}
	auth := func(handler http.HandlerFunc) http.Handler {
		return metrics.Middleware(authMw.Require(http.HandlerFunc(handler)))
	}

	// ─── Auth ───
	mux.Handle("POST /api/auth/register", public(h.Auth.Register))
	mux.Handle("POST /api/auth/login", public(h.Auth.Login))
	mux.Handle("POST /api/auth/refresh", public(h.Auth.Refresh))
	mux.Handle("POST /api/auth/logout", auth(h.Auth.Logout))
	mux.Handle("GET /api/users/me", auth(h.Auth.Me))

	// ─── Channels ───
	mux.Handle("GET /api/channels", auth(h.Channel.List))
	mux.Handle("POST /api/channels", auth(h.Channel.Create))
	mux.Handle("GET /api/channels/{id}", auth(h.Channel.Get))
	mux.Handle("POST /api/channels/{id}/join", auth(h.Channel.Join))
	mux.Handle("POST /api/channels/{id}/leave", auth(h.Channel.Leave))
	mux.Handle("GET /api/channels/{id}/members", auth(h.Channel.Members))

	// ─── Messages ───
	mux.Handle("GET /api/channels/{id}/messages", auth(h.Message.List))
	mux.Handle("POST /api/channels/{id}/messages", auth(h.Message.Create))
	mux.Handle("PATCH /api/messages/{id}", auth(h.Message.Update))
	mux.Handle("DELETE /api/messages/{id}", auth(h.Message.Delete))

	// ─── Threads ───
	mux.Handle("GET /api/channels/{id}/messages/{messageId}/thread", auth(h.Thread.List))
	mux.Handle("POST /api/channels/{id}/messages/{messageId}/thread", auth(h.Thread.Reply))
	mux.Handle("DELETE /api/channels/{id}/thread-messages/{replyId}", auth(h.Thread.Delete))

	// ─── Reactions ───
	mux.Handle("POST /api/reactions/toggle", auth(h.Reaction.Toggle))

	// ─── Read State ───
	mux.Handle("POST /api/read-state/mark", auth(h.ReadState.MarkRead))
	mux.Handle("GET /api/read-state/unread", auth(h.ReadState.UnreadCounts))

	// ─── Attachments ───
	mux.Handle("POST /api/attachments", auth(h.Attachment.Register))

	// ─── Sync (poll endpoint) ───
	mux.Handle("GET /api/channels/{id}/sync", auth(h.Sync.Poll))

	// ─── Observability ───
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /api/health", public(h.Health.Check))
}
