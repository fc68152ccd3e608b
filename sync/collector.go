package sync

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/edulink/chatsync/metrics"
	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/queue"
	"github.com/edulink/chatsync/repository"
)

// Collector, tek bir poll turunda client'a dönecek event kümesini toplar.
//
// İki yol vardır ve ikisi de aynı sıralama kuralını üretir:
//
//  1. Fast path: queue'dan cursor'un kabul ettiği entry'ler atomik tüketilir
//     ve tek tek hydrate edilir. Queue'da eşleşme varsa fallback HİÇ çalışmaz.
//  2. Fallback: queue boş (veya hatalı) çıktığında Durable Store'dan cursor
//     sonrası canlı satırlar sınırlı bir range sorgusuyla okunur. Queue bir
//     hızlandırıcı olduğu için TTL/trim ile event kaybetmesi doğruluğu
//     bozmaz — kayıp burada telafi edilir.
//
// Silme tombstone'ları ayrı listeden okunur ve iki yolun sonucuna aynı
// (timestamp, id) karşılaştırıcısıyla merge edilir.
type Collector struct {
	queue         queue.EventQueue
	messages      repository.MessageRepository
	threads       repository.ThreadRepository
	hydrator      *Hydrator
	fallbackLimit int
}

// NewCollector, constructor.
func NewCollector(q queue.EventQueue, messages repository.MessageRepository, threads repository.ThreadRepository, h *Hydrator, fallbackLimit int) *Collector {
	return &Collector{
		queue:         q,
		messages:      messages,
		threads:       threads,
		hydrator:      h,
		fallbackLimit: fallbackLimit,
	}
}

// Collect, cursor sonrası event'leri toplar.
// Dönüş: (event'ler, hasMore, error). Event'ler (timestamp, id) artan sıralıdır.
func (c *Collector) Collect(ctx context.Context, scope models.Scope, cursor models.Cursor, viewerID int64) ([]models.SyncEvent, bool, error) {
	accepts := func(e queue.Entry) bool {
		return cursor.Accepts(e.Timestamp, e.MessageID)
	}

	posted, err := c.queue.Consume(ctx, queue.PostedKey(scope), accepts)
	if err != nil {
		// Queue arızası fallback'i tetikler, poll'ü düşürmez.
		log.Printf("[sync] queue consume failed (scope=%+v): %v", scope, err)
		metrics.QueueOpsTotal.WithLabelValues("consume", "error").Inc()
		posted = nil
	} else {
		metrics.QueueOpsTotal.WithLabelValues("consume", "ok").Inc()
	}

	var events []models.SyncEvent
	var hasMore bool

	if len(posted) > 0 {
		events = c.hydrateEntries(ctx, scope, posted, viewerID)
		metrics.CollectsTotal.WithLabelValues("queue").Inc()
	} else {
		events, hasMore, err = c.collectFromStore(ctx, scope, cursor, viewerID)
		if err != nil {
			return nil, false, err
		}
		if len(events) > 0 {
			metrics.CollectsTotal.WithLabelValues("fallback").Inc()
		} else {
			metrics.CollectsTotal.WithLabelValues("empty").Inc()
		}
	}

	events = append(events, c.collectTombstones(ctx, scope, accepts)...)

	// Tek kanonik sıra: timestamp artan, eşitlikte id artan.
	// Client cursor'unu son event'e ilerleteceği için bu sıra bozulursa
	// aradaki event'ler bir daha asla teslim edilmez.
	sort.Slice(events, func(i, j int) bool {
		if events[i].Timestamp != events[j].Timestamp {
			return events[i].Timestamp < events[j].Timestamp
		}
		return events[i].MessageID < events[j].MessageID
	})

	for _, e := range events {
		metrics.EventsDeliveredTotal.WithLabelValues(string(e.Type)).Inc()
	}

	return events, hasMore, nil
}

// hydrateEntries, queue entry'lerini tek tek payload'a çevirir.
// Hydrate (nil, nil) dönerse (mesaj bu arada silinmiş) event düşürülür —
// silme tombstone'u zaten ayrı listeden gelir.
func (c *Collector) hydrateEntries(ctx context.Context, scope models.Scope, entries []queue.Entry, viewerID int64) []models.SyncEvent {
	events := make([]models.SyncEvent, 0, len(entries))
	for _, e := range entries {
		payload, err := c.hydrator.Hydrate(ctx, scope, e.MessageID, viewerID)
		if err != nil {
			log.Printf("[sync] hydrate failed (msg=%d): %v", e.MessageID, err)
			continue
		}
		if payload == nil {
			continue
		}
		events = append(events, models.SyncEvent{
			Type:      e.Kind,
			Data:      payload,
			Timestamp: e.Timestamp,
			MessageID: e.MessageID,
		})
	}
	return events
}

// collectFromStore, Durable Store fallback'i: cursor sonrası canlı satırları
// sınırlı sayıda okur ve batch hydrate eder.
//
// Event timestamp'i satırın created_at'idir — producer yeni mesaj event'lerine
// aynı değeri yazdığı için iki yol aynı satır kümesinde aynı çıktıyı üretir.
func (c *Collector) collectFromStore(ctx context.Context, scope models.Scope, cursor models.Cursor, viewerID int64) ([]models.SyncEvent, bool, error) {
	if scope.IsThread() {
		replies, err := c.threads.ListAfter(ctx, scope.ThreadID, cursor, c.fallbackLimit+1)
		if err != nil {
			return nil, false, fmt.Errorf("fallback thread scan: %w", err)
		}

		hasMore := len(replies) > c.fallbackLimit
		if hasMore {
			replies = replies[:c.fallbackLimit]
		}

		payloads := c.hydrator.HydrateThreadBatch(ctx, scope, replies, viewerID)
		return payloadEvents(models.EventThreadMessagePosted, payloads), hasMore, nil
	}

	msgs, err := c.messages.ListAfter(ctx, scope.ChannelID, cursor, c.fallbackLimit+1)
	if err != nil {
		return nil, false, fmt.Errorf("fallback channel scan: %w", err)
	}

	hasMore := len(msgs) > c.fallbackLimit
	if hasMore {
		msgs = msgs[:c.fallbackLimit]
	}

	payloads := c.hydrator.HydrateBatch(ctx, scope, msgs, viewerID)
	return payloadEvents(models.EventMessagePosted, payloads), hasMore, nil
}

// collectTombstones, silme listesinden cursor sonrası tombstone'ları tüketir.
// Tombstone hydrate edilmez — içerik yoktur, sadece id'ler taşınır.
func (c *Collector) collectTombstones(ctx context.Context, scope models.Scope, accepts func(queue.Entry) bool) []models.SyncEvent {
	deleted, err := c.queue.Consume(ctx, queue.DeletedKey(scope), accepts)
	if err != nil {
		log.Printf("[sync] tombstone consume failed (scope=%+v): %v", scope, err)
		metrics.QueueOpsTotal.WithLabelValues("consume", "error").Inc()
		return nil
	}
	metrics.QueueOpsTotal.WithLabelValues("consume", "ok").Inc()

	events := make([]models.SyncEvent, 0, len(deleted))
	for _, e := range deleted {
		events = append(events, models.SyncEvent{
			Type: e.Kind,
			Data: models.Tombstone{
				ID:        e.MessageID,
				ChannelID: e.ChannelID,
				ThreadID:  e.ThreadID,
			},
			Timestamp: e.Timestamp,
			MessageID: e.MessageID,
		})
	}
	return events
}

// payloadEvents, batch hydrate sonucunu event listesine çevirir.
func payloadEvents(kind models.EventKind, payloads []models.EventPayload) []models.SyncEvent {
	events := make([]models.SyncEvent, 0, len(payloads))
	for i := range payloads {
		events = append(events, models.SyncEvent{
			Type:      kind,
			Data:      &payloads[i],
			Timestamp: payloads[i].CreatedAt,
			MessageID: payloads[i].ID,
		})
	}
	return events
}
