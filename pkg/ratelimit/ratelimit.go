// Package ratelimit — PollRateLimiter: kullanıcı bazlı poll rate limiting.
//
// Tasarım:
// - Her kullanıcı için sliding window ile istek sayısı takip edilir.
// - Window süresi içinde maxAttempts aşılırsa istek reddedilir.
// - Background goroutine ile süresi dolmuş bucket'lar temizlenir.
//
// Blocking poll bir worker'ı timeout penceresi boyunca meşgul eder — sunucu
// tarafı timeout clamp'i tek çağrıyı sınırlar, bu limiter ise aynı
// kullanıcının paralel/aşırı sık çağrılarla worker havuzunu doldurmasını
// sınırlar.
//
// Neden in-memory?
// - SQLite'a her request'te yazmak gereksiz I/O + contention yaratır.
// - Poll zaten instance'a gelen istektir; instance başına limit yeterli.
//
// pkg/ratelimit hiçbir proje içi pakete bağımlı değildir (leaf dependency).
package ratelimit

import (
	"sync"
	"time"
)

// bucket, bir kullanıcı için istek sayacı ve window başlangıç zamanı tutar.
//
// Sliding window:
// - İlk istekte windowStart = now, count = 1.
// - Sonraki istekler: window süresi geçmemişse count++.
// - Süre geçmişse window sıfırlanır.
type bucket struct {
	count       int
	windowStart time.Time
}

// PollRateLimiter, kullanıcı bazlı poll rate limiting.
//
// maxAttempts: Bir window içinde izin verilen maksimum istek sayısı.
// window: Rate limit pencere süresi.
//
//	limiter := ratelimit.NewPollRateLimiter(120, time.Minute)
//	if !limiter.Allow(userID) { return 429 }
type PollRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[int64]*bucket
	maxAttempts int
	window      time.Duration
	stopCleanup chan struct{}
}

// NewPollRateLimiter, yeni rate limiter oluşturur ve arka plan temizleme
// goroutine'ini başlatır.
func NewPollRateLimiter(maxAttempts int, window time.Duration) *PollRateLimiter {
	l := &PollRateLimiter{
		buckets:     make(map[int64]*bucket),
		maxAttempts: maxAttempts,
		window:      window,
		stopCleanup: make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.cleanup()
			case <-l.stopCleanup:
				return
			}
		}
	}()

	return l
}

// Allow, kullanıcının yeni bir poll isteğine izin verilip verilmediğini döner.
func (l *PollRateLimiter) Allow(userID int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, ok := l.buckets[userID]
	if !ok || now.Sub(b.windowStart) >= l.window {
		l.buckets[userID] = &bucket{count: 1, windowStart: now}
		return true
	}

	if b.count >= l.maxAttempts {
		return false
	}

	b.count++
	return true
}

// Close, arka plan temizleme goroutine'ini durdurur.
func (l *PollRateLimiter) Close() {
	close(l.stopCleanup)
}

// cleanup, window'u geçmiş bucket'ları siler (memory leak engeli).
func (l *PollRateLimiter) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for userID, b := range l.buckets {
		if now.Sub(b.windowStart) >= l.window {
			delete(l.buckets, userID)
		}
	}
}
