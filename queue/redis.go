package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edulink/chatsync/metrics"
)

// maxTxRetries, WATCH çakışmasında (başka bir client key'i değiştirdi)
// optimistic transaction'ın kaç kez yeniden deneneceği.
const maxTxRetries = 5

// Redis, EventQueue'nun Redis-backed implementasyonu.
//
// Her queue key'i tek bir Redis string value'sudur: JSON-encoded Entry dizisi,
// EXPIRE ile TTL'li. Liste yapısı (LPUSH/LRANGE) yerine değer-olarak-dizi
// tutulur çünkü Consume "oku → filtrele → kalanı geri yaz" ister ve bunun
// atomik olması gerekir — WATCH/MULTI ile GET+SET optimistic transaction'ı
// bunu tam karşılar. Çakışmada redis.TxFailedErr döner, yeniden denenir.
//
// Birden fazla API replica'sı aynı Redis'i paylaştığında producer bir
// replica'da, poll eden client başka replica'da olabilir — queue'nun
// process dışında olmasının asıl nedeni budur.
type Redis struct {
	rdb    *redis.Client
	ttl    time.Duration
	maxLen int
}

// NewRedis, Redis-backed queue oluşturur ve bağlantıyı doğrular.
func NewRedis(ctx context.Context, addr, password string, db int, ttl time.Duration, maxLen int) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Redis{rdb: rdb, ttl: ttl, maxLen: maxLen}, nil
}

// Append, entry'yi key'in JSON dizisine ekler (trim + TTL tazeleme dahil).
func (r *Redis) Append(ctx context.Context, key string, e Entry) error {
	var trimmed int
	err := r.withTx(ctx, key, func(entries []Entry, tx *redis.Tx) error {
		entries = append(entries, e)
		if trimmed = len(entries) - r.maxLen; trimmed > 0 {
			entries = entries[trimmed:]
		}

		data, err := json.Marshal(entries)
		if err != nil {
			return fmt.Errorf("failed to marshal queue entries: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		return err
	})
	if err == nil && trimmed > 0 {
		metrics.QueueEvictionsTotal.WithLabelValues("trim").Add(float64(trimmed))
	}
	return err
}

// Consume, match'in true döndüğü entry'leri çıkarıp döner; kalan entry'ler
// key'in mevcut TTL'i korunarak geri yazılır (KeepTTL — consume TTL tazelemez,
// sadece append tazeler).
func (r *Redis) Consume(ctx context.Context, key string, match func(Entry) bool) ([]Entry, error) {
	var matched []Entry

	err := r.withTx(ctx, key, func(entries []Entry, tx *redis.Tx) error {
		matched = matched[:0]
		var remaining []Entry
		for _, e := range entries {
			if match(e) {
				matched = append(matched, e)
			} else {
				remaining = append(remaining, e)
			}
		}

		// Hiçbir şey eşleşmedi — yazmaya gerek yok.
		if len(matched) == 0 {
			return nil
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			if len(remaining) == 0 {
				pipe.Del(ctx, key)
				return nil
			}
			data, err := json.Marshal(remaining)
			if err != nil {
				return fmt.Errorf("failed to marshal queue entries: %w", err)
			}
			pipe.Set(ctx, key, data, redis.KeepTTL)
			return nil
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return matched, nil
}

// Close, Redis bağlantısını kapatır.
func (r *Redis) Close() error {
	return r.rdb.Close()
}

// withTx, key üzerinde WATCH'lı optimistic read-modify-write çalıştırır.
// fn'e key'in mevcut entry dizisi (key yoksa nil) ve transaction verilir;
// TxFailedErr'da maxTxRetries'e kadar yeniden denenir.
func (r *Redis) withTx(ctx context.Context, key string, fn func(entries []Entry, tx *redis.Tx) error) error {
	for i := 0; i < maxTxRetries; i++ {
		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			raw, err := tx.Get(ctx, key).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}

			var entries []Entry
			if raw != "" {
				if err := json.Unmarshal([]byte(raw), &entries); err != nil {
					// Bozuk değer — queue otorite değildir, sıfırdan başlamak
					// fallback'in kapsadığı güvenli bir kayıptır.
					entries = nil
				}
			}

			return fn(entries, tx)
		}, key)

		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}

	return fmt.Errorf("queue key %s: transaction retries exhausted", key)
}
