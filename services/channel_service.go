package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/pkg/cache"
	"github.com/edulink/chatsync/repository"
)

// membershipKey, üyelik cache'inin bileşik anahtarı.
type membershipKey struct {
	ChannelID int64
	UserID    int64
}

// ChannelService, kanal ve üyelik iş mantığı interface'i.
type ChannelService interface {
	Create(ctx context.Context, creatorID int64, req *models.CreateChannelRequest) (*models.Channel, error)
	Get(ctx context.Context, channelID, userID int64) (*models.ChannelDetail, error)
	ListForUser(ctx context.Context, userID int64) ([]models.ChannelSummary, error)
	Join(ctx context.Context, channelID, userID int64) error
	Leave(ctx context.Context, channelID, userID int64) error
	Members(ctx context.Context, channelID, userID int64) ([]models.Member, error)
	RequireMember(ctx context.Context, channelID, userID int64) error
}

type channelService struct {
	db          *database.DB
	channelRepo repository.ChannelRepository
	readRepo    repository.ReadCursorRepository

	// membership: üyelik kontrolü HER poll'de çalışır — blocking poll'ler
	// saniyede binlerce kontrol üretebilir. Kısa TTL'li cache SELECT
	// yağmurunu keser. Sadece POZİTİF sonuç cache'lenir: üye olmayan biri
	// join ettiğinde anında geçebilmeli, bayat bir "değil" onu bekletmemeli.
	membership *cache.TTLCache[membershipKey, bool]
}

// NewChannelService, constructor.
// db: kanal + üyeler tek transaction'da oluşturulsun diye gerekir.
func NewChannelService(db *database.DB, channelRepo repository.ChannelRepository, readRepo repository.ReadCursorRepository) ChannelService {
	return &channelService{
		db:          db,
		channelRepo: channelRepo,
		readRepo:    readRepo,
		membership:  cache.New[membershipKey, bool](30*time.Second, 5*time.Minute),
	}
}

// Create, kanalı ve başlangıç üyeliklerini TEK transaction'da oluşturur.
// Kanal oluşup üye eklenememesi yarım bir durum bırakırdı — ya hepsi ya hiçbiri.
func (s *channelService) Create(ctx context.Context, creatorID int64, req *models.CreateChannelRequest) (*models.Channel, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	channel := &models.Channel{
		Name:      req.Name,
		Type:      models.ChannelType(req.Type),
		CreatedBy: creatorID,
	}

	err := database.WithTx(ctx, s.db.Conn, func(tx *sql.Tx) error {
		txChannels := repository.NewSQLiteChannelRepo(tx)

		if err := txChannels.Create(ctx, channel); err != nil {
			return err
		}
		if err := txChannels.AddMember(ctx, channel.ID, creatorID); err != nil {
			return err
		}
		for _, memberID := range req.MemberIDs {
			if memberID == creatorID {
				continue
			}
			if err := txChannels.AddMember(ctx, channel.ID, memberID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	return channel, nil
}

// Get, kanalı çağıranın okuma durumuyla birlikte döner — sadece üyeler görebilir.
// Hiç mark-read yapmamış kullanıcı için LastReadMessageID 0'dır: her şey okunmamış.
func (s *channelService) Get(ctx context.Context, channelID, userID int64) (*models.ChannelDetail, error) {
	if err := s.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}

	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}

	lastRead, err := s.readRepo.Get(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}
	unread, err := s.readRepo.UnreadCount(ctx, userID, channelID)
	if err != nil {
		return nil, err
	}

	return &models.ChannelDetail{
		Channel:           *channel,
		UnreadCount:       unread,
		LastReadMessageID: lastRead,
	}, nil
}

// ListForUser, kullanıcının kanallarını okunmamış sayılarıyla döner.
// Unread'ler tek batch sorguyla gelir, kanal başına ayrı sorgu atılmaz.
func (s *channelService) ListForUser(ctx context.Context, userID int64) ([]models.ChannelSummary, error) {
	channels, err := s.channelRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	unread, err := s.readRepo.UnreadCounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChannelSummary, 0, len(channels))
	for _, ch := range channels {
		summaries = append(summaries, models.ChannelSummary{
			Channel:     ch,
			UnreadCount: unread[ch.ID],
		})
	}

	return summaries, nil
}

// Join, kullanıcıyı group kanala ekler.
// Direct kanallara sonradan katılım yoktur — iki kişilik yapı bozulamaz.
func (s *channelService) Join(ctx context.Context, channelID, userID int64) error {
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if channel.Type == models.ChannelTypeDirect {
		return fmt.Errorf("%w: cannot join a direct channel", pkg.ErrForbidden)
	}

	return s.channelRepo.AddMember(ctx, channelID, userID)
}

// Leave, kullanıcıyı kanaldan çıkarır ve üyelik cache'ini düşürür —
// ayrılan kullanıcı TTL dolana kadar poll'e devam edememeli.
func (s *channelService) Leave(ctx context.Context, channelID, userID int64) error {
	if err := s.channelRepo.RemoveMember(ctx, channelID, userID); err != nil {
		return err
	}
	s.membership.Delete(membershipKey{ChannelID: channelID, UserID: userID})
	return nil
}

// Members, kanal üyelerini döner — sadece üyeler görebilir.
func (s *channelService) Members(ctx context.Context, channelID, userID int64) ([]models.Member, error) {
	if err := s.RequireMember(ctx, channelID, userID); err != nil {
		return nil, err
	}
	return s.channelRepo.Members(ctx, channelID)
}

// RequireMember, üyelik ön koşulunu uygular.
// Üye olmayan için ErrForbidden döner — poll dahil tüm kanal-scoped
// endpoint'ler store'a inmeden önce bu kontrolden geçer.
func (s *channelService) RequireMember(ctx context.Context, channelID, userID int64) error {
	key := membershipKey{ChannelID: channelID, UserID: userID}
	if _, ok := s.membership.Get(key); ok {
		return nil
	}

	ok, err := s.channelRepo.IsMember(ctx, channelID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not a member of this channel", pkg.ErrForbidden)
	}

	s.membership.Set(key, true)
	return nil
}
