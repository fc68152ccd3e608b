package services

import (
	"context"
	"fmt"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/repository"
)

// ReadStateService, okuma durumu (unread watermark) iş mantığı interface'i.
type ReadStateService interface {
	MarkRead(ctx context.Context, userID int64, req *models.MarkReadRequest) (*models.MarkReadResult, error)
	UnreadCounts(ctx context.Context, userID int64) (map[int64]int, error)
}

type readStateService struct {
	readRepo    repository.ReadCursorRepository
	channelRepo repository.ChannelRepository
}

// NewReadStateService, constructor.
func NewReadStateService(readRepo repository.ReadCursorRepository, channelRepo repository.ChannelRepository) ReadStateService {
	return &readStateService{readRepo: readRepo, channelRepo: channelRepo}
}

// MarkRead, watermark'ı ilerletir ve TÜM kanalların güncel okunmamış
// sayılarını döner — client sidebar'ını tek response'la tazeler.
//
// İlerletme monotoniktir (repo MAX upsert'i): eski bir messageID ile gelen
// istek mevcut watermark'ı düşürmez, sessizce no-op olur. Bu bir hata
// durumu değildir — sekmeler arası yarışta doğal olarak olur.
func (s *readStateService) MarkRead(ctx context.Context, userID int64, req *models.MarkReadRequest) (*models.MarkReadResult, error) {
	if req.ChannelID <= 0 || req.MessageID <= 0 {
		return nil, fmt.Errorf("%w: channelId and messageId are required", pkg.ErrBadRequest)
	}

	ok, err := s.channelRepo.IsMember(ctx, req.ChannelID, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: not a member of this channel", pkg.ErrForbidden)
	}

	if err := s.readRepo.MarkRead(ctx, userID, req.ChannelID, req.MessageID); err != nil {
		return nil, err
	}

	counts, err := s.readRepo.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &models.MarkReadResult{UnreadCounts: counts}, nil
}

// UnreadCounts, kullanıcının tüm kanallarının okunmamış sayılarını döner.
func (s *readStateService) UnreadCounts(ctx context.Context, userID int64) (map[int64]int, error) {
	return s.readRepo.UnreadCounts(ctx, userID)
}
