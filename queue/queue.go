// Package queue — Ephemeral Event Queue.
//
// Gerçek bir message broker yerine geçen hafif yapı: isimlendirilmiş,
// TTL ile süresi dolan, uzunluğu sınırlı listeler. Her yazma işleminden sonra
// producer ilgili listeye bir bildirim event'i ekler; poll eden client'ların
// collector'ı listeyi okuyup cursor'dan yeni olanları tüketir.
//
// Queue OTORİTE DEĞİLDİR — sadece teslimat hızlandırıcısıdır. Bir event
// tüketilmeden evict edilirse Durable Store fallback'i (collector'da) bir
// sonraki poll'de doğruluğu garanti eder. Bu yüzden Append best-effort'tur:
// başarısızlığı asıl yazma işlemini asla geri almaz.
//
// İki implementasyon: Memory (tek instance, testler) ve Redis (çoklu replica).
package queue

import (
	"context"
	"fmt"

	"github.com/edulink/chatsync/models"
)

// Entry, queue'daki tek bir bildirim event'i.
// Otorite olmayan, minimal bir kayıt: hangi mesaj, hangi scope, ne zaman.
type Entry struct {
	Kind      models.EventKind `json:"kind"`
	ChannelID int64            `json:"channel_id"`
	ThreadID  int64            `json:"thread_id"`
	MessageID int64            `json:"message_id"`
	Timestamp int64            `json:"timestamp"`
}

// EventQueue, ephemeral queue operasyonları için interface.
//
// Append: Entry'yi key'in listesine ekler; liste maxLen'i aşarsa en eskiler
// atılır, key'in TTL'i tazelenir. Append ve Consume key başına atomiktir —
// aynı kanala eşzamanlı iki mesaj üretildiğinde update kaybolmaz.
//
// Consume: match'in true döndüğü entry'leri listeden ATOMIK olarak çıkarıp
// döner; eşleşmeyenler (başka consumer'ların cursor'ları için) listede kalır.
//
// Servisler bu interface'e bağımlıdır, concrete implementasyona değil —
// testler in-memory fake yerine doğrudan Memory implementasyonunu kullanır.
type EventQueue interface {
	Append(ctx context.Context, key string, e Entry) error
	Consume(ctx context.Context, key string, match func(Entry) bool) ([]Entry, error)
	Close() error
}

// Queue key şeması: event sınıfı (yeni/silme) + scope.
// Ana kanal ve thread ayrı key'lerde yaşar; bir thread'i izleyen client
// ana kanal trafiğini taramaz.

// PostedKey, scope'un yeni-mesaj listesinin key'ini döner.
func PostedKey(s models.Scope) string {
	if s.IsThread() {
		return fmt.Sprintf("thread:%d:new", s.ThreadID)
	}
	return fmt.Sprintf("chan:%d:new", s.ChannelID)
}

// DeletedKey, scope'un silme (tombstone) listesinin key'ini döner.
func DeletedKey(s models.Scope) string {
	if s.IsThread() {
		return fmt.Sprintf("thread:%d:del", s.ThreadID)
	}
	return fmt.Sprintf("chan:%d:del", s.ChannelID)
}
