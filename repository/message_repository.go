package repository

import (
	"context"

	"github.com/edulink/chatsync/models"
)

// MessageRepository, ana kanal mesajı veritabanı işlemleri için interface.
//
// Görünürlük kuralı her sorguya gömülüdür: deleted_at dolu bir mesaj
// GetByID, ListAfter ve ListBefore'dan ASLA dönmez. Soft delete edilen
// mesajın satırı kalır ama store açısından yok hükmündedir.
//
// ListAfter, collector'ın Durable Store fallback'idir: cursor'dan kesin
// olarak sonraki canlı mesajları (created_at, id) artan sırada, limit'le
// sınırlı döner. Queue'daki fast path ile aynı sıralama kuralını kullanır —
// iki yol aynı satır kümesi için aynı çıktıyı üretmek ZORUNDADIR.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id int64) (*models.Message, error)
	ListAfter(ctx context.Context, channelID int64, cursor models.Cursor, limit int) ([]models.Message, error)
	ListBefore(ctx context.Context, channelID, beforeID int64, limit int) (*models.MessagePage, error)
	UpdateBody(ctx context.Context, id int64, body string) (updatedAt int64, err error)
	SoftDelete(ctx context.Context, id int64) (deletedAt int64, err error)
	SetThreadAggregate(ctx context.Context, parentID int64, agg models.ThreadAggregate) error
}
