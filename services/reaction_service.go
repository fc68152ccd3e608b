package services

import (
	"context"
	"fmt"
	"time"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/repository"
	"github.com/edulink/chatsync/sync"
)

// ReactionService, emoji reaction iş mantığı interface'i.
type ReactionService interface {
	Toggle(ctx context.Context, userID int64, req *models.ToggleReactionRequest) (*models.ToggleReactionResult, error)
}

type reactionService struct {
	reactionRepo repository.ReactionRepository
	messageRepo  repository.MessageRepository
	threadRepo   repository.ThreadRepository
	channelRepo  repository.ChannelRepository
	producer     *sync.Producer
	hydrator     *sync.Hydrator
}

// NewReactionService, constructor.
func NewReactionService(
	reactionRepo repository.ReactionRepository,
	messageRepo repository.MessageRepository,
	threadRepo repository.ThreadRepository,
	channelRepo repository.ChannelRepository,
	producer *sync.Producer,
	hydrator *sync.Hydrator,
) ReactionService {
	return &reactionService{
		reactionRepo: reactionRepo,
		messageRepo:  messageRepo,
		threadRepo:   threadRepo,
		channelRepo:  channelRepo,
		producer:     producer,
		hydrator:     hydrator,
	}
}

// Toggle, reaction'ı ekler/kaldırır ve mesajı yeniden yayınlar.
//
// Akış: validation → hedef mesajın varlığı + üyelik → atomik toggle →
// özet cache invalidation → güncel payload'ın republish'i. Reaction
// değişikliğinin ayrı event türü yoktur; mesaj taze reaction özetiyle
// "posted" olarak tekrar gelir ve client yerinde günceller.
//
// Sonuç action ("added"|"removed") + güncel gruplu özettir — toggle'ı
// yapan client poll beklemeden kendi UI'ını günceller.
func (s *reactionService) Toggle(ctx context.Context, userID int64, req *models.ToggleReactionRequest) (*models.ToggleReactionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	rscope := models.ReactionScope(req.Scope)

	// Hedefi çöz: canlı mı, hangi kanalda, hangi sync scope'unda?
	syncScope, err := s.resolveTarget(ctx, rscope, req.MessageID, userID)
	if err != nil {
		return nil, err
	}

	action, err := s.reactionRepo.Toggle(ctx, rscope, req.MessageID, userID, req.Reaction)
	if err != nil {
		return nil, err
	}

	s.hydrator.InvalidateReactions(rscope, req.MessageID)

	kind := models.EventMessagePosted
	if rscope == models.ReactionScopeThread {
		kind = models.EventThreadMessagePosted
	}
	// Republish timestamp'i işlem anıdır — mesajı çoktan tüketmiş
	// cursor'lar da değişikliği görür.
	s.producer.Publish(ctx, kind, syncScope, req.MessageID, time.Now().Unix())

	groups, err := s.reactionRepo.Groups(ctx, rscope, req.MessageID)
	if err != nil {
		return nil, err
	}
	for i := range groups {
		for _, id := range groups[i].UserIDs {
			if id == userID {
				groups[i].CallerReacted = true
				break
			}
		}
	}

	return &models.ToggleReactionResult{Action: action, Reactions: groups}, nil
}

// resolveTarget, toggle hedefinin canlı olduğunu ve kullanıcının ilgili
// kanala üye olduğunu doğrular; event'in yayınlanacağı scope'u döner.
// Soft-delete edilmiş mesaja reaction ErrNotFound ile reddedilir.
func (s *reactionService) resolveTarget(ctx context.Context, rscope models.ReactionScope, messageID, userID int64) (models.Scope, error) {
	var channelID int64
	var scope models.Scope

	if rscope == models.ReactionScopeThread {
		reply, err := s.threadRepo.GetByID(ctx, messageID)
		if err != nil {
			return models.Scope{}, err
		}
		parent, err := s.messageRepo.GetByID(ctx, reply.ParentMessageID)
		if err != nil {
			return models.Scope{}, err
		}
		channelID = parent.ChannelID
		scope = models.Scope{ChannelID: channelID, ThreadID: reply.ParentMessageID}
	} else {
		msg, err := s.messageRepo.GetByID(ctx, messageID)
		if err != nil {
			return models.Scope{}, err
		}
		channelID = msg.ChannelID
		scope = models.Scope{ChannelID: channelID}
	}

	ok, err := s.channelRepo.IsMember(ctx, channelID, userID)
	if err != nil {
		return models.Scope{}, err
	}
	if !ok {
		return models.Scope{}, fmt.Errorf("%w: not a member of this channel", pkg.ErrForbidden)
	}

	return scope, nil
}
