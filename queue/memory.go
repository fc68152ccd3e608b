package queue

import (
	"context"
	"sync"
	"time"

	"github.com/edulink/chatsync/metrics"
)

// memoryList, tek bir queue key'inin entry listesi + son kullanma tarihi.
// TTL key bazlıdır: her Append tazeler, süre dolunca liste komple düşer.
type memoryList struct {
	entries   []Entry
	expiresAt time.Time
}

// Memory, EventQueue'nun in-memory implementasyonu.
//
// Tek instance deploy için yeterlidir ve testlerin çalıştığı implementasyondur.
// pkg/cache.TTLCache ile aynı iskelet: RWMutex korumalı map + periyodik
// temizleme goroutine'i. Ayrı bir tip olmasının nedeni list semantiği —
// trim-to-N ve selective consume TTLCache'in key-value API'sine sığmaz.
type Memory struct {
	mu          sync.Mutex
	lists       map[string]*memoryList
	ttl         time.Duration
	maxLen      int
	stopCleanup chan struct{}
}

// NewMemory, yeni bir in-memory queue oluşturur.
// ttl: key'in son append'ten sonraki yaşam süresi.
// maxLen: key başına tutulan en fazla entry; aşılırsa en eskiler atılır.
func NewMemory(ttl time.Duration, maxLen int) *Memory {
	m := &Memory{
		lists:       make(map[string]*memoryList),
		ttl:         ttl,
		maxLen:      maxLen,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(ttl)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.evictExpired()
			case <-m.stopCleanup:
				return
			}
		}
	}()

	return m
}

// Append, entry'yi key'in listesine ekler.
// Liste maxLen'i aşarsa baştan (en eski) kırpılır; TTL tazelenir.
func (m *Memory) Append(_ context.Context, key string, e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	l, ok := m.lists[key]
	if !ok || now.After(l.expiresAt) {
		if ok && len(l.entries) > 0 {
			metrics.QueueEvictionsTotal.WithLabelValues("ttl").Add(float64(len(l.entries)))
		}
		l = &memoryList{}
		m.lists[key] = l
	}

	l.entries = append(l.entries, e)
	if over := len(l.entries) - m.maxLen; over > 0 {
		l.entries = l.entries[over:]
		metrics.QueueEvictionsTotal.WithLabelValues("trim").Add(float64(over))
	}
	l.expiresAt = now.Add(m.ttl)

	return nil
}

// Consume, match'in true döndüğü entry'leri çıkarıp döner; kalanlar listede kalır.
// Key yok veya süresi dolmuşsa (nil, nil) döner — "queue'da bir şey yok".
func (m *Memory) Consume(_ context.Context, key string, match func(Entry) bool) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, ok := m.lists[key]
	if !ok {
		return nil, nil
	}
	if time.Now().After(l.expiresAt) {
		metrics.QueueEvictionsTotal.WithLabelValues("ttl").Add(float64(len(l.entries)))
		delete(m.lists, key)
		return nil, nil
	}

	var matched []Entry
	remaining := l.entries[:0]
	for _, e := range l.entries {
		if match(e) {
			matched = append(matched, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	l.entries = remaining

	if len(l.entries) == 0 {
		delete(m.lists, key)
	}

	return matched, nil
}

// Close, periyodik temizleme goroutine'ini durdurur.
func (m *Memory) Close() error {
	close(m.stopCleanup)
	return nil
}

// evictExpired, süresi dolan key'leri map'ten fiziksel olarak siler.
func (m *Memory) evictExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, l := range m.lists {
		if now.After(l.expiresAt) {
			metrics.QueueEvictionsTotal.WithLabelValues("ttl").Add(float64(len(l.entries)))
			delete(m.lists, key)
		}
	}
}
