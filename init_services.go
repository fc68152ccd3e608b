// Package main — Service katmanı başlatma.
//
// initServices, tüm service implementasyonlarını oluşturur.
// Her service, ihtiyaç duyduğu repository interface'lerini ve sync
// engine parçalarını (producer, hydrator) constructor injection ile alır.
package main

import (
	"time"

	"github.com/edulink/chatsync/config"
	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/pkg/ratelimit"
	"github.com/edulink/chatsync/services"
)

// Services, tüm service instance'larını tutan container struct.
type Services struct {
	Auth       services.AuthService
	Channel    services.ChannelService
	Message    services.MessageService
	Thread     services.ThreadService
	Reaction   services.ReactionService
	ReadState  services.ReadStateService
	Attachment services.AttachmentService
}

// RateLimiters, rate limiter instance'larını tutan container.
type RateLimiters struct {
	Poll *ratelimit.PollRateLimiter
}

// initServices, tüm service'leri ve rate limiter'ları oluşturur.
//
// db *database.DB — channel ve message service'leri multi-statement
// akışlarda (create + member ekleme, create + attachment claim)
// database.WithTx ile kendi transaction'larını açar.
func initServices(db *database.DB, repos *Repositories, engine *SyncEngine, cfg *config.Config) (*Services, *RateLimiters) {
	channelService := services.NewChannelService(db, repos.Channel, repos.ReadCursor)

	svcs := &Services{
		Auth: services.NewAuthService(
			repos.User, repos.Session,
			cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
		),
		Channel: channelService,
		Message: services.NewMessageService(
			db, repos.Message, repos.Attachment, repos.Channel,
			engine.Producer, engine.Hydrator,
		),
		Thread: services.NewThreadService(
			repos.Thread, repos.Message, repos.Channel,
			engine.Producer, engine.Hydrator,
		),
		Reaction: services.NewReactionService(
			repos.Reaction, repos.Message, repos.Thread, repos.Channel,
			engine.Producer, engine.Hydrator,
		),
		ReadState:  services.NewReadStateService(repos.ReadCursor, repos.Channel),
		Attachment: services.NewAttachmentService(repos.Attachment),
	}

	// Poll rate limiter — blocking poll uzun ömürlü request tuttuğu için
	// kullanıcı başına dakikadaki poll sayısı sınırlanır.
	limiters := &RateLimiters{
		Poll: ratelimit.NewPollRateLimiter(120, time.Minute),
	}

	return svcs, limiters
}
