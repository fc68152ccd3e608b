package repository

import (
	"context"

	"github.com/edulink/chatsync/models"
)

// ThreadRepository, thread yanıtı veritabanı işlemleri için interface.
//
// AggregateLive, parent'ın canlı (silinmemiş) reply'larından count + son
// reply zamanını hesaplar. Thread'e her yazma/silme sonrası service bu
// değeri parent'a geri yazar; son canlı reply silindiğinde sonuç
// {Count: 0, LastReplyAt: nil} olmak zorundadır.
type ThreadRepository interface {
	Create(ctx context.Context, reply *models.ThreadMessage) error
	GetByID(ctx context.Context, id int64) (*models.ThreadMessage, error)
	ListAfter(ctx context.Context, parentID int64, cursor models.Cursor, limit int) ([]models.ThreadMessage, error)
	ListByParent(ctx context.Context, parentID int64) ([]models.ThreadMessage, error)
	SoftDelete(ctx context.Context, id int64) (deletedAt int64, err error)
	AggregateLive(ctx context.Context, parentID int64) (models.ThreadAggregate, error)
}
