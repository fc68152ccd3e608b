package repository

import (
	"context"

	"github.com/edulink/chatsync/models"
)

// ChannelRepository, kanal ve kanal üyeliği veritabanı işlemleri için interface.
//
// IsMember, poll endpoint'inin authorization ön koşuludur: üye olmayan
// kullanıcının poll'ü collector'a hiç ulaşmadan reddedilir.
type ChannelRepository interface {
	Create(ctx context.Context, channel *models.Channel) error
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	ListForUser(ctx context.Context, userID int64) ([]models.Channel, error)
	IsMember(ctx context.Context, channelID, userID int64) (bool, error)
	AddMember(ctx context.Context, channelID, userID int64) error
	RemoveMember(ctx context.Context, channelID, userID int64) error
	Members(ctx context.Context, channelID int64) ([]models.Member, error)
}
