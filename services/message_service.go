package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/repository"
	"github.com/edulink/chatsync/sync"
)

// MessageService, ana kanal mesajı iş mantığı interface'i.
//
// Yazan her operasyon aynı sırayı izler: validation → üyelik/sahiplik →
// store yazması → producer publish. Publish HER ZAMAN store yazması
// başarıyla bittikten sonra çağrılır; hiçbir event store'da olmayan bir
// şeyi duyurmaz.
type MessageService interface {
	List(ctx context.Context, channelID, userID, beforeID int64, limit int) (*MessageList, error)
	Create(ctx context.Context, channelID, userID int64, req *models.CreateMessageRequest) (*models.EventPayload, error)
	Update(ctx context.Context, messageID, userID int64, req *models.UpdateMessageRequest) (*models.EventPayload, error)
	Delete(ctx context.Context, messageID, userID int64) error
}

// MessageList, mesaj listeleme response'u — hydrate edilmiş payload'lar.
type MessageList struct {
	Messages []models.EventPayload `json:"messages"`
	HasMore  bool                  `json:"has_more"`
}

type messageService struct {
	db             *database.DB
	messageRepo    repository.MessageRepository
	attachmentRepo repository.AttachmentRepository
	channelRepo    repository.ChannelRepository
	producer       *sync.Producer
	hydrator       *sync.Hydrator
}

// NewMessageService, constructor.
func NewMessageService(
	db *database.DB,
	messageRepo repository.MessageRepository,
	attachmentRepo repository.AttachmentRepository,
	channelRepo repository.ChannelRepository,
	producer *sync.Producer,
	hydrator *sync.Hydrator,
) MessageService {
	return &messageService{
		db:             db,
		messageRepo:    messageRepo,
		attachmentRepo: attachmentRepo,
		channelRepo:    channelRepo,
		producer:       producer,
		hydrator:       hydrator,
	}
}

// List, kanal geçmişini cursor-based pagination ile döner (yeniden eskiye
// doğru sayfalanır, sayfa içi sıra eski→yeni). Poll ile aynı hydrate yolu
// kullanılır — history ve canlı akış aynı payload şeklini üretir.
func (s *messageService) List(ctx context.Context, channelID, userID, beforeID int64, limit int) (*MessageList, error) {
	if err := s.requireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	page, err := s.messageRepo.ListBefore(ctx, channelID, beforeID, limit)
	if err != nil {
		return nil, err
	}

	scope := models.Scope{ChannelID: channelID}
	payloads := s.hydrator.HydrateBatch(ctx, scope, page.Messages, userID)
	if payloads == nil {
		payloads = []models.EventPayload{}
	}

	return &MessageList{Messages: payloads, HasMore: page.HasMore}, nil
}

// Create, yeni mesajı kaydeder, attachment'ları bağlar ve event yayınlar.
//
// Mesaj + attachment claim tek transaction'dadır. Event timestamp'i mesajın
// created_at'idir — queue yolu ile DB fallback'i aynı sırayı üretsin diye.
func (s *messageService) Create(ctx context.Context, channelID, userID int64, req *models.CreateMessageRequest) (*models.EventPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if err := s.requireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ChannelID: channelID,
		UserID:    userID,
		Body:      req.Body,
	}

	err := database.WithTx(ctx, s.db.Conn, func(tx *sql.Tx) error {
		if err := repository.NewSQLiteMessageRepo(tx).Create(ctx, message); err != nil {
			return err
		}
		return repository.NewSQLiteAttachmentRepo(tx).ClaimForMessage(ctx, message.ID, req.AttachmentIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	scope := models.Scope{ChannelID: channelID}
	s.producer.Publish(ctx, models.EventMessagePosted, scope, message.ID, message.CreatedAt)

	return s.hydrator.Hydrate(ctx, scope, message.ID, userID)
}

// Update, mesaj gövdesini düzenler ve mesajı YENİDEN yayınlar.
//
// Düzenlemenin ayrı bir event türü yoktur: aynı id taze payload'la tekrar
// "posted" olarak gelir, client yerinde günceller. Event timestamp'i
// düzenleme anıdır — cursor'u mesajın orijinal created_at'ini geçmiş
// client'lar da güncellemeyi görür.
func (s *messageService) Update(ctx context.Context, messageID, userID int64, req *models.UpdateMessageRequest) (*models.EventPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.UserID != userID {
		return nil, fmt.Errorf("%w: you can only edit your own messages", pkg.ErrForbidden)
	}

	updatedAt, err := s.messageRepo.UpdateBody(ctx, messageID, req.Body)
	if err != nil {
		return nil, err
	}

	scope := models.Scope{ChannelID: message.ChannelID}
	s.producer.Publish(ctx, models.EventMessagePosted, scope, messageID, updatedAt)

	return s.hydrator.Hydrate(ctx, scope, messageID, userID)
}

// Delete, mesajı soft-delete eder ve tombstone yayınlar.
//
// Satır DB'de kalır (deleted_at dolu) ama hiçbir okuma yolunda görünmez.
// Tombstone minimaldir: sadece id'ler, içerik client'lara bir daha gitmez.
func (s *messageService) Delete(ctx context.Context, messageID, userID int64) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return fmt.Errorf("%w: you can only delete your own messages", pkg.ErrForbidden)
	}

	deletedAt, err := s.messageRepo.SoftDelete(ctx, messageID)
	if err != nil {
		return err
	}

	scope := models.Scope{ChannelID: message.ChannelID}
	s.producer.Publish(ctx, models.EventMessageDeleted, scope, messageID, deletedAt)

	return nil
}

func (s *messageService) requireMember(ctx context.Context, channelID, userID int64) error {
	ok, err := s.channelRepo.IsMember(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not a member of this channel", pkg.ErrForbidden)
	}
	return nil
}
