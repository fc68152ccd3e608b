// Package main — Sync engine başlatma.
//
// initSyncEngine, senkronizasyon hattının tüm parçalarını oluşturur:
// queue → producer → notifier → hydrator → collector → poller.
//
// Queue seçimi config'e bağlıdır: REDIS_ADDR boşsa in-memory queue
// kullanılır (tek process), doluysa Redis (çok process deployment).
// İkisi de aynı EventQueue interface'ini implement eder — sync paketinin
// geri kalanı hangisinin seçildiğini bilmez.
package main

import (
	"context"
	"log"

	"github.com/edulink/chatsync/config"
	"github.com/edulink/chatsync/queue"
	"github.com/edulink/chatsync/sync"
)

// SyncEngine, senkronizasyon hattının instance'larını tutan container.
//
// Producer service'lere (yazma yolu), Poller sync handler'a (okuma yolu)
// gider. Queue ve Hydrator shutdown'da kapatılmak için burada tutulur.
type SyncEngine struct {
	Queue    queue.EventQueue
	Notifier *sync.Notifier
	Producer *sync.Producer
	Hydrator *sync.Hydrator
	Poller   *sync.Poller
}

// initSyncEngine, queue'yu seçer ve sync hattını kurar.
func initSyncEngine(cfg *config.Config, repos *Repositories) (*SyncEngine, error) {
	var q queue.EventQueue
	if cfg.Redis.Addr == "" {
		q = queue.NewMemory(cfg.Queue.TTL, cfg.Queue.MaxLen)
		log.Println("[main] event queue: in-memory")
	} else {
		rq, err := queue.NewRedis(context.Background(), cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Queue.TTL, cfg.Queue.MaxLen)
		if err != nil {
			return nil, err
		}
		q = rq
		log.Printf("[main] event queue: redis (%s)", cfg.Redis.Addr)
	}

	notifier := sync.NewNotifier()
	producer := sync.NewProducer(q, notifier)
	hydrator := sync.NewHydrator(repos.User, repos.Message, repos.Thread, repos.Reaction, repos.Attachment)
	collector := sync.NewCollector(q, repos.Message, repos.Thread, hydrator, cfg.Poll.FallbackLimit)
	poller := sync.NewPoller(collector, notifier, cfg.Poll.MaxTimeout, cfg.Poll.Interval)

	return &SyncEngine{
		Queue:    q,
		Notifier: notifier,
		Producer: producer,
		Hydrator: hydrator,
		Poller:   poller,
	}, nil
}
