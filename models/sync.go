package models

import "time"

// Bu dosya, poll tabanlı senkronizasyon motorunun wire tiplerini içerir.
//
// Client her poll çağrısında bir Cursor taşır: son tükettiği event'in
// (timestamp, id) çifti. Sunucu cross-call state tutmaz — cursor tamamen
// client'tadır, bu yüzden poll handler stateless ve sticky session'sız
// yatay ölçeklenebilir.

// Cursor, bir scope için son tüketilen event'i işaretleyen
// (unix saniye, mesaj id) çifti.
//
// Bileşik karşılaştırma zorunludur: birden fazla mesaj aynı tam-saniye
// timestamp'ini paylaşabilir. Eşit timestamp'te id düşük olan önce gelir —
// bu kural birebir korunmazsa client'lar event'leri sıra dışı alıp
// cursor'larını görmedikleri bir event'in ötesine ilerletebilir.
type Cursor struct {
	Timestamp int64 `json:"lastTimestamp"`
	MessageID int64 `json:"lastMessageId"`
}

// Accepts, (t, id) çiftindeki bir event'in bu cursor'a göre "yeni" olup
// olmadığını döner: t > c.Timestamp VEYA (t == c.Timestamp VE id > c.MessageID).
func (c Cursor) Accepts(t, id int64) bool {
	if t != c.Timestamp {
		return t > c.Timestamp
	}
	return id > c.MessageID
}

// Scope, poll'ün hedefini belirtir: (channelID, threadID) çifti.
// ThreadID 0 ise ana kanal feed'i, değilse ilgili parent mesajın thread'i.
type Scope struct {
	ChannelID int64
	ThreadID  int64
}

// IsThread, scope'un bir thread'i hedefleyip hedeflemediğini döner.
func (s Scope) IsThread() bool { return s.ThreadID != 0 }

// EventKind, poll response'undaki event türü.
//
// Düzenleme ve reaction değişiklikleri ayrı bir tür TAŞIMAZ: ilgili mesaj
// güncel payload'ıyla yeniden "posted" olarak yayınlanır, client id'yi zaten
// biliyorsa yerinde günceller. Silmeler ise hydrate edilmeden tombstone olarak
// iletilir.
type EventKind string

const (
	EventMessagePosted        EventKind = "message_posted"
	EventMessageDeleted       EventKind = "message_deleted"
	EventThreadMessagePosted  EventKind = "thread_message_posted"
	EventThreadMessageDeleted EventKind = "thread_message_deleted"
)

// IsDeletion, event türünün tombstone taşıyıp taşımadığını döner.
func (k EventKind) IsDeletion() bool {
	return k == EventMessageDeleted || k == EventThreadMessageDeleted
}

// EventPayload, hydrate edilmiş tam client payload'ı.
//
// Zenginleştirme alanları (attachments, reactions, thread özeti) best-effort
// doldurulur: alt lookup başarısız olursa alan boş/sıfır kalır, payload yine
// döner. ThreadID 0 ise bu bir ana kanal mesajıdır.
type EventPayload struct {
	ID                int64           `json:"id"`
	ChannelID         int64           `json:"channel_id"`
	ThreadID          int64           `json:"thread_id"`
	UserID            int64           `json:"user_id"`
	SenderName        string          `json:"sender_name"`
	Body              string          `json:"body"`
	CreatedAt         int64           `json:"created_at"`
	CreatedAtText     string          `json:"created_at_text"`
	UpdatedAt         *int64          `json:"updated_at"`
	Attachments       []Attachment    `json:"attachments"`
	Reactions         []ReactionGroup `json:"reactions"`
	ThreadCount       int             `json:"thread_count"`
	ThreadLastReplyAt *int64          `json:"thread_last_reply_at"`
	IsOwn             bool            `json:"is_own"`
}

// Tombstone, silme event'inin minimal payload'ı — sadece id'ler, içerik yok.
type Tombstone struct {
	ID        int64 `json:"id"`
	ChannelID int64 `json:"channel_id"`
	ThreadID  int64 `json:"thread_id"`
}

// SyncEvent, poll response'undaki tek bir event.
// Data ya *EventPayload ya da Tombstone'dur (Type'a göre).
//
// MessageID wire'a yazılmaz — collector'ın (timestamp, id) sıralama
// karşılaştırıcısı ve client cursor ilerletme testi için taşınır;
// client zaten id'yi Data içinden okur.
type SyncEvent struct {
	Type      EventKind `json:"type"`
	Data      any       `json:"data"`
	Timestamp int64     `json:"timestamp"`
	MessageID int64     `json:"-"`
}

// PollResponse, poll endpoint'inin response gövdesi.
//
// Events boş olduğunda null değil [] serialize edilmelidir — handler'lar
// slice'ı her zaman non-nil başlatır.
// TimedOut true ise bu bir hata değildir: blocking poll penceresi event'siz
// doldu, client backoff uygulamadan hemen yeniden poll eder.
type PollResponse struct {
	Events     []SyncEvent `json:"events"`
	ServerTime int64       `json:"serverTime"`
	HasMore    bool        `json:"hasMore"`
	TimedOut   bool        `json:"timedOut"`
}

// FormatTimestamp, unix saniyeyi client'ın gösterdiği mutlak biçime çevirir.
func FormatTimestamp(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("02 Jan 2006 15:04")
}
