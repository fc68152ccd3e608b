// Package main — Handler katmanı başlatma.
//
// initHandlers, tüm HTTP handler'larını oluşturur.
// Handler'lar "thin" dir — sadece HTTP parse + service call + response write.
package main

import (
	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/handlers"
)

// Handlers, tüm handler instance'larını tutan container struct.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Channel    *handlers.ChannelHandler
	Message    *handlers.MessageHandler
	Thread     *handlers.ThreadHandler
	Reaction   *handlers.ReactionHandler
	ReadState  *handlers.ReadStateHandler
	Attachment *handlers.AttachmentHandler
	Sync       *handlers.SyncHandler
	Health     *handlers.HealthHandler
}

// initHandlers, tüm handler'ları service dependency'leri ile oluşturur.
func initHandlers(svcs *Services, limiters *RateLimiters, engine *SyncEngine, db *database.DB) *Handlers {
	return &Handlers{
		Auth:       handlers.NewAuthHandler(svcs.Auth),
		Channel:    handlers.NewChannelHandler(svcs.Channel),
		Message:    handlers.NewMessageHandler(svcs.Message),
		Thread:     handlers.NewThreadHandler(svcs.Thread),
		Reaction:   handlers.NewReactionHandler(svcs.Reaction),
		ReadState:  handlers.NewReadStateHandler(svcs.ReadState),
		Attachment: handlers.NewAttachmentHandler(svcs.Attachment),
		Sync:       handlers.NewSyncHandler(engine.Poller, svcs.Channel, limiters.Poll),
		Health:     handlers.NewHealthHandler(db),
	}
}
