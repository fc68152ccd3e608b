package sync

import (
	"context"
	"log"

	"github.com/edulink/chatsync/metrics"
	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/queue"
)

// Producer, store yazması başarıyla tamamlandıktan SONRA ephemeral queue'ya
// bildirim event'i ekler ve bekleyen poll'leri uyandırır.
//
// Publish best-effort'tur: queue hatası loglanır ve yutulur, asıl yazma
// işlemine asla hata olarak dönmez. Queue'ya girmeyen bir event kaybolmaz —
// collector'ın DB fallback'i bir sonraki poll'de onu bulur.
type Producer struct {
	queue    queue.EventQueue
	notifier *Notifier
}

// NewProducer, constructor.
func NewProducer(q queue.EventQueue, n *Notifier) *Producer {
	return &Producer{queue: q, notifier: n}
}

// Publish, scope'un ilgili listesine (tür yeni mi silme mi) bir entry ekler
// ve Notifier üzerinden scope'un bekleyenlerini uyandırır.
//
// ts, event'in sıralama timestamp'idir: yeni mesajlarda mesajın created_at'i
// (queue yolu ile DB fallback aynı sırayı üretsin diye), yeniden yayınlarda
// ve silmelerde işlem anının unix saniyesi.
func (p *Producer) Publish(ctx context.Context, kind models.EventKind, scope models.Scope, messageID, ts int64) {
	key := queue.PostedKey(scope)
	if kind.IsDeletion() {
		key = queue.DeletedKey(scope)
	}

	entry := queue.Entry{
		Kind:      kind,
		ChannelID: scope.ChannelID,
		ThreadID:  scope.ThreadID,
		MessageID: messageID,
		Timestamp: ts,
	}

	if err := p.queue.Append(ctx, key, entry); err != nil {
		// Best-effort: fallback doğruluğu garanti eder, sadece logla.
		log.Printf("[sync] queue append failed (key=%s msg=%d): %v", key, messageID, err)
		metrics.QueueOpsTotal.WithLabelValues("append", "error").Inc()
	} else {
		metrics.QueueOpsTotal.WithLabelValues("append", "ok").Inc()
	}

	p.notifier.Wake(scope)
}
