package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
)

// sqliteReadCursorRepo, ReadCursorRepository interface'inin SQLite implementasyonu.
type sqliteReadCursorRepo struct {
	db database.TxQuerier
}

// NewSQLiteReadCursorRepo, constructor — interface döner.
func NewSQLiteReadCursorRepo(db database.TxQuerier) ReadCursorRepository {
	return &sqliteReadCursorRepo{db: db}
}

// Get, kullanıcının kanaldaki son okunan mesaj id'sini döner.
// Satır yoksa 0 döner — "hiç okumadı" ile "0. mesaja kadar okudu" aynıdır.
func (r *sqliteReadCursorRepo) Get(ctx context.Context, userID, channelID int64) (int64, error) {
	query := `
		SELECT last_read_message_id
		FROM read_cursors
		WHERE user_id = ? AND channel_id = ?`

	var lastRead int64
	err := r.db.QueryRowContext(ctx, query, userID, channelID).Scan(&lastRead)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get read cursor: %w", err)
	}

	return lastRead, nil
}

// MarkRead, watermark'ı günceller.
//
// Upsert içindeki MAX() monotonikliği garanti eder: iki istek sırasız
// gelse bile (önce id=9, sonra id=5) cursor 9'da kalır. Check-then-write
// yerine karşılaştırmayı DB'ye yaptırmak race condition'ı kökten kapatır.
func (r *sqliteReadCursorRepo) MarkRead(ctx context.Context, userID, channelID, messageID int64) error {
	query := `
		INSERT INTO read_cursors (user_id, channel_id, last_read_message_id, last_read_at)
		VALUES (?, ?, ?, unixepoch())
		ON CONFLICT(user_id, channel_id) DO UPDATE SET
			last_read_message_id = MAX(last_read_message_id, excluded.last_read_message_id),
			last_read_at = excluded.last_read_at`

	_, err := r.db.ExecContext(ctx, query, userID, channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to mark read: %w", err)
	}

	return nil
}

// UnreadCount, tek bir kanaldaki okunmamış mesaj sayısını hesaplar.
//
// Sayıma girenler: watermark'tan sonraki, silinmemiş, BAŞKASININ yazdığı
// mesajlar. Kullanıcının kendi mesajları okunmamış sayılmaz.
func (r *sqliteReadCursorRepo) UnreadCount(ctx context.Context, userID, channelID int64) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM messages m
		WHERE m.channel_id = ?
		  AND m.deleted_at IS NULL
		  AND m.user_id != ?
		  AND m.id > COALESCE(
			(SELECT last_read_message_id FROM read_cursors
			 WHERE user_id = ? AND channel_id = m.channel_id), 0)`

	var count int
	err := r.db.QueryRowContext(ctx, query, channelID, userID, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}

	return count, nil
}

// UnreadCounts, kullanıcının üyesi olduğu TÜM kanalların okunmamış
// sayılarını tek sorguda döner.
//
// N+1 yerine tek GROUP BY: kanal listesi her poll'da gösterildiği için
// bu sorgu sık çalışır, kanal başına ayrı sorgu pahalı olurdu.
// Hiç okunmamışı olmayan kanallar da 0 ile map'te yer alır.
func (r *sqliteReadCursorRepo) UnreadCounts(ctx context.Context, userID int64) (map[int64]int, error) {
	query := `
		SELECT cm.channel_id,
		       COUNT(m.id) AS unread
		FROM channel_members cm
		LEFT JOIN messages m
		  ON m.channel_id = cm.channel_id
		 AND m.deleted_at IS NULL
		 AND m.user_id != cm.user_id
		 AND m.id > COALESCE(
			(SELECT last_read_message_id FROM read_cursors rc
			 WHERE rc.user_id = cm.user_id AND rc.channel_id = cm.channel_id), 0)
		WHERE cm.user_id = ?
		GROUP BY cm.channel_id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages per channel: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var info models.UnreadInfo
		if err := rows.Scan(&info.ChannelID, &info.UnreadCount); err != nil {
			return nil, fmt.Errorf("failed to scan unread count: %w", err)
		}
		counts[info.ChannelID] = info.UnreadCount
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unread count rows: %w", err)
	}

	return counts, nil
}
