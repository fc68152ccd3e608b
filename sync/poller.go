// Package sync, poll tabanlı senkronizasyon motorunun çekirdeğidir.
//
// Akış: servisler store'a yazar → Producer queue'ya bildirim ekler ve
// Notifier'ı uyandırır → poll eden client'ın Collector'ı queue'yu tüketir
// (boşsa Durable Store fallback'i) → Hydrator payload'ları doldurur →
// Poller response'u şekillendirir. Sunucu çağrılar arası client state'i
// TUTMAZ: cursor tamamen client'tadır, her poll kendi başına tamamdır.
package sync

import (
	"context"
	"time"

	"github.com/edulink/chatsync/metrics"
	"github.com/edulink/chatsync/models"
)

// PollRequest, tek bir poll çağrısının çözümlenmiş parametreleri.
type PollRequest struct {
	Scope    models.Scope
	Cursor   models.Cursor
	ViewerID int64
	Blocking bool
	Timeout  time.Duration
}

// Poller, poll isteklerinin iki modunu yürütür.
//
// Non-blocking: tek collect, anında dön — event olsun olmasın.
//
// Blocking (long-poll): event yoksa pencere dolana kadar bekle; bekleyiş
// hem periyodik tick ile (kaçan wakeup'lara karşı güvence) hem de Notifier
// wakeup'ı ile (publish anında düşük gecikme) kesilir. Pencere sunucu
// tarafında clamp edilir — client 600 saniye istese de üst sınır uygulanır,
// aksi halde handler goroutine'leri keyfi uzunlukta rehin kalırdı.
//
// Pencere event'siz dolarsa bu bir HATA DEĞİLDİR: timedOut=true ile normal
// response döner, client hemen yeniden poll eder.
type Poller struct {
	collector  *Collector
	notifier   *Notifier
	maxTimeout time.Duration
	interval   time.Duration
}

// NewPoller, constructor.
func NewPoller(c *Collector, n *Notifier, maxTimeout, interval time.Duration) *Poller {
	return &Poller{
		collector:  c,
		notifier:   n,
		maxTimeout: maxTimeout,
		interval:   interval,
	}
}

// Poll, isteği moduna göre yürütür ve wire response'unu döner.
func (p *Poller) Poll(ctx context.Context, req PollRequest) (*models.PollResponse, error) {
	if !req.Blocking {
		resp, err := p.collectOnce(ctx, req)
		if err != nil {
			return nil, err
		}
		outcome := "empty"
		if len(resp.Events) > 0 {
			outcome = "events"
		}
		metrics.PollsTotal.WithLabelValues("non_blocking", outcome).Inc()
		return resp, nil
	}

	return p.pollBlocking(ctx, req)
}

func (p *Poller) pollBlocking(ctx context.Context, req PollRequest) (*models.PollResponse, error) {
	timeout := req.Timeout
	if timeout <= 0 || timeout > p.maxTimeout {
		timeout = p.maxTimeout
	}

	start := time.Now()
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		// Wakeup kanalı collect'ten ÖNCE kaydedilir: collect ile bekleme
		// arasında yayınlanan bir event'in sinyali kaybolmaz.
		wake := p.notifier.Subscribe(req.Scope)

		resp, err := p.collectOnce(ctx, req)
		if err != nil {
			p.notifier.Unsubscribe(req.Scope, wake)
			return nil, err
		}
		if len(resp.Events) > 0 {
			p.notifier.Unsubscribe(req.Scope, wake)
			metrics.PollsTotal.WithLabelValues("blocking", "events").Inc()
			metrics.BlockingWaitSeconds.Observe(time.Since(start).Seconds())
			return resp, nil
		}

		select {
		case <-wake:
			// Publish geldi — kanal Wake tarafından kapatıldı ve kaydı
			// silindi, doğrudan yeni tura geç.
		case <-ticker.C:
			p.notifier.Unsubscribe(req.Scope, wake)
		case <-deadline.C:
			p.notifier.Unsubscribe(req.Scope, wake)
			resp.TimedOut = true
			resp.ServerTime = time.Now().Unix()
			metrics.PollsTotal.WithLabelValues("blocking", "timeout").Inc()
			metrics.BlockingWaitSeconds.Observe(time.Since(start).Seconds())
			return resp, nil
		case <-ctx.Done():
			// Client bağlantıyı kopardı — sessizce çık.
			p.notifier.Unsubscribe(req.Scope, wake)
			return nil, ctx.Err()
		}
	}
}

// collectOnce, tek bir collector turunu response'a sarar.
// Events daima non-nil başlatılır: boş sonuç JSON'da null değil [] olur.
func (p *Poller) collectOnce(ctx context.Context, req PollRequest) (*models.PollResponse, error) {
	events, hasMore, err := p.collector.Collect(ctx, req.Scope, req.Cursor, req.ViewerID)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.SyncEvent{}
	}

	return &models.PollResponse{
		Events:     events,
		ServerTime: time.Now().Unix(),
		HasMore:    hasMore,
	}, nil
}
