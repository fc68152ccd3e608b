package repository

import "context"

// ReadCursorRepository, okuma durumu (unread watermark) veritabanı işlemleri
// için interface.
//
// MarkRead monotoniktir: cursor asla geri gitmez. Eşzamanlı veya eski bir
// messageID ile yapılan çağrı mevcut watermark'ı düşürmez.
type ReadCursorRepository interface {
	Get(ctx context.Context, userID, channelID int64) (int64, error)
	MarkRead(ctx context.Context, userID, channelID, messageID int64) error
	UnreadCount(ctx context.Context, userID, channelID int64) (int, error)
	UnreadCounts(ctx context.Context, userID int64) (map[int64]int, error)
}
