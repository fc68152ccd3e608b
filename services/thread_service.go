package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/repository"
	"github.com/edulink/chatsync/sync"
)

// ThreadService, thread yanıtı iş mantığı interface'i.
//
// Her thread yazması iki iz bırakır: yanıtın kendisi ve parent mesaj
// üzerindeki denormalize özet (thread_count, thread_last_reply_at).
// Özet her yazma VE silme sonrası canlı reply'lardan yeniden hesaplanır —
// artırma/azaltma sayaçları yerine yeniden hesap, özet ile gerçeğin
// birbirinden kaymasını imkansız kılar.
type ThreadService interface {
	List(ctx context.Context, channelID, parentID, userID int64) ([]models.EventPayload, error)
	Reply(ctx context.Context, channelID, parentID, userID int64, req *models.CreateThreadMessageRequest) (*models.EventPayload, error)
	Delete(ctx context.Context, channelID, replyID, userID int64) error
}

type threadService struct {
	threadRepo  repository.ThreadRepository
	messageRepo repository.MessageRepository
	channelRepo repository.ChannelRepository
	producer    *sync.Producer
	hydrator    *sync.Hydrator
}

// NewThreadService, constructor.
func NewThreadService(
	threadRepo repository.ThreadRepository,
	messageRepo repository.MessageRepository,
	channelRepo repository.ChannelRepository,
	producer *sync.Producer,
	hydrator *sync.Hydrator,
) ThreadService {
	return &threadService{
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		channelRepo: channelRepo,
		producer:    producer,
		hydrator:    hydrator,
	}
}

// List, bir thread'in canlı yanıtlarını hydrate edilmiş olarak döner.
func (s *threadService) List(ctx context.Context, channelID, parentID, userID int64) ([]models.EventPayload, error) {
	if err := s.requireParent(ctx, channelID, parentID, userID); err != nil {
		return nil, err
	}

	replies, err := s.threadRepo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}

	scope := models.Scope{ChannelID: channelID, ThreadID: parentID}
	payloads := s.hydrator.HydrateThreadBatch(ctx, scope, replies, userID)
	if payloads == nil {
		payloads = []models.EventPayload{}
	}

	return payloads, nil
}

// Reply, thread'e yanıt ekler, parent özetini günceller ve İKİ scope'a
// event yayınlar: thread scope'una yanıtın kendisi, ana kanal scope'una
// parent'ın güncel hali (thread_count badge'i değişti — kanalı izleyen
// client'lar da görmeli).
func (s *threadService) Reply(ctx context.Context, channelID, parentID, userID int64, req *models.CreateThreadMessageRequest) (*models.EventPayload, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}
	if err := s.requireParent(ctx, channelID, parentID, userID); err != nil {
		return nil, err
	}

	reply := &models.ThreadMessage{
		ParentMessageID: parentID,
		UserID:          userID,
		Body:            req.Body,
	}
	if err := s.threadRepo.Create(ctx, reply); err != nil {
		return nil, err
	}

	s.recomputeAggregate(ctx, channelID, parentID)

	threadScope := models.Scope{ChannelID: channelID, ThreadID: parentID}
	s.producer.Publish(ctx, models.EventThreadMessagePosted, threadScope, reply.ID, reply.CreatedAt)

	return s.hydrator.Hydrate(ctx, threadScope, reply.ID, userID)
}

// Delete, yanıtı soft-delete eder, parent özetini yeniden hesaplar ve
// thread scope'una tombstone yayınlar. Son canlı yanıt silindiğinde parent
// özeti 0 / NULL'a döner — asla bayat sayı kalmaz.
func (s *threadService) Delete(ctx context.Context, channelID, replyID, userID int64) error {
	reply, err := s.threadRepo.GetByID(ctx, replyID)
	if err != nil {
		return err
	}
	if reply.UserID != userID {
		return fmt.Errorf("%w: you can only delete your own replies", pkg.ErrForbidden)
	}
	if err := s.requireParent(ctx, channelID, reply.ParentMessageID, userID); err != nil {
		return err
	}

	deletedAt, err := s.threadRepo.SoftDelete(ctx, replyID)
	if err != nil {
		return err
	}

	s.recomputeAggregate(ctx, channelID, reply.ParentMessageID)

	threadScope := models.Scope{ChannelID: channelID, ThreadID: reply.ParentMessageID}
	s.producer.Publish(ctx, models.EventThreadMessageDeleted, threadScope, replyID, deletedAt)

	return nil
}

// recomputeAggregate, parent özetini canlı reply'lardan yeniden hesaplayıp
// yazar ve parent'ı ana kanal scope'una yeniden yayınlar.
//
// Best-effort: özet güncellemesi başarısız olursa yanıtın kendisi zaten
// kaydedilmiştir; hata loglanır, bir sonraki thread yazması özeti düzeltir.
func (s *threadService) recomputeAggregate(ctx context.Context, channelID, parentID int64) {
	agg, err := s.threadRepo.AggregateLive(ctx, parentID)
	if err != nil {
		log.Printf("[thread] aggregate recompute failed (parent=%d): %v", parentID, err)
		return
	}
	if err := s.messageRepo.SetThreadAggregate(ctx, parentID, agg); err != nil {
		log.Printf("[thread] aggregate write failed (parent=%d): %v", parentID, err)
		return
	}

	// Parent'ın badge'i değişti — kanalı izleyenlere güncel halini duyur.
	// Yeniden yayın olduğu için timestamp işlem anıdır, parent'ın created_at'i
	// değil: kanalın cursor'unu çoktan geçmiş client'lar da görmeli.
	channelScope := models.Scope{ChannelID: channelID}
	s.producer.Publish(ctx, models.EventMessagePosted, channelScope, parentID, time.Now().Unix())
}

// requireParent, parent'ın bu kanalda canlı bir mesaj olduğunu ve
// kullanıcının kanal üyesi olduğunu doğrular.
func (s *threadService) requireParent(ctx context.Context, channelID, parentID, userID int64) error {
	ok, err := s.channelRepo.IsMember(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not a member of this channel", pkg.ErrForbidden)
	}

	parent, err := s.messageRepo.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.ChannelID != channelID {
		return fmt.Errorf("%w: message does not belong to this channel", pkg.ErrBadRequest)
	}

	return nil
}
