package models

// ReadCursor, bir kullanıcının belirli bir kanaldaki okuma durumunu temsil eder.
//
// Watermark pattern: Her mesajı tek tek "okundu" olarak işaretlemek yerine
// "bu mesaja kadar okudum" bilgisini tutarız. Okunmamış mesaj sayısı =
// bu id'den sonraki canlı mesaj sayısı olarak hesaplanır.
//
// LastReadMessageID monotoniktir: sadece yükselir. Eski bir mesaj için gelen
// eşzamanlı mark-read no-op'tur, regression değil.
type ReadCursor struct {
	UserID            int64 `json:"user_id"`
	ChannelID         int64 `json:"channel_id"`
	LastReadMessageID int64 `json:"last_read_message_id"`
	LastReadAt        int64 `json:"last_read_at"`
}

// UnreadInfo, bir kanalın okunmamış mesaj bilgisini taşır.
type UnreadInfo struct {
	ChannelID   int64 `json:"channel_id"`
	UnreadCount int   `json:"unread_count"`
}

// MarkReadRequest, mark-read endpoint'inin body'si.
type MarkReadRequest struct {
	ChannelID int64 `json:"channelId"`
	MessageID int64 `json:"messageId"`
}

// MarkReadResult, mark-read sonrası kullanıcının TÜM kanallarının güncel
// okunmamış sayıları. Key JSON'da string olur (map[int64] → "5": 3).
type MarkReadResult struct {
	UnreadCounts map[int64]int `json:"unreadCounts"`
}
