package repository

import (
	"context"

	"github.com/edulink/chatsync/models"
)

// AttachmentRepository, attachment metadata veritabanı işlemleri için interface.
//
// Akış iki aşamalıdır: önce Register ile metadata kaydedilir (message_id
// NULL), sonra mesaj gönderilirken ClaimForMessage ile mesaja bağlanır.
// Başka bir mesaja zaten bağlı bir attachment ikinci kez claim edilemez.
type AttachmentRepository interface {
	Register(ctx context.Context, att *models.Attachment) error
	ClaimForMessage(ctx context.Context, messageID int64, attachmentIDs []string) error
	ListByMessage(ctx context.Context, messageID int64) ([]models.Attachment, error)
	ListByMessageIDs(ctx context.Context, messageIDs []int64) (map[int64][]models.Attachment, error)
}
