package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
)

// sqliteMessageRepo, MessageRepository interface'inin SQLite implementasyonu.
type sqliteMessageRepo struct {
	db database.TxQuerier
}

// NewSQLiteMessageRepo, constructor — interface döner.
func NewSQLiteMessageRepo(db database.TxQuerier) MessageRepository {
	return &sqliteMessageRepo{db: db}
}

func (r *sqliteMessageRepo) Create(ctx context.Context, message *models.Message) error {
	query := `
		INSERT INTO messages (channel_id, user_id, body)
		VALUES (?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		message.ChannelID,
		message.UserID,
		message.Body,
	).Scan(&message.ID, &message.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *sqliteMessageRepo) GetByID(ctx context.Context, id int64) (*models.Message, error) {
	query := `
		SELECT id, channel_id, user_id, body, created_at, updated_at,
		       thread_count, thread_last_reply_at
		FROM messages
		WHERE id = ? AND deleted_at IS NULL`

	msg := &models.Message{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&msg.ID, &msg.ChannelID, &msg.UserID, &msg.Body, &msg.CreatedAt, &msg.UpdatedAt,
		&msg.ThreadCount, &msg.ThreadLastReplyAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message by id: %w", err)
	}

	return msg, nil
}

// ListAfter, cursor'dan kesin olarak sonraki canlı mesajları döner.
//
// Bileşik cursor karşılaştırması SQL'de birebir aynıdır:
// created_at > t VEYA (created_at = t VE id > son id).
// Aynı saniyede birden fazla mesaj olabileceği için sadece created_at
// karşılaştırmak yetmez — eşitlikte id tie-break'i zorunludur.
func (r *sqliteMessageRepo) ListAfter(ctx context.Context, channelID int64, cursor models.Cursor, limit int) ([]models.Message, error) {
	query := `
		SELECT id, channel_id, user_id, body, created_at, updated_at,
		       thread_count, thread_last_reply_at
		FROM messages
		WHERE channel_id = ?
		  AND deleted_at IS NULL
		  AND (created_at > ? OR (created_at = ? AND id > ?))
		ORDER BY created_at ASC, id ASC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query,
		channelID, cursor.Timestamp, cursor.Timestamp, cursor.MessageID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages after cursor: %w", err)
	}
	defer rows.Close()

	return scanMessages(rows)
}

// ListBefore, cursor-based pagination ile geçmişe doğru mesaj getirir.
//
// beforeID 0 ise en yeni mesajlardan başlar. limit+1 satır istenir:
// fazladan satır geldiyse daha eski sayfa vardır (HasMore).
// Sonuç eski→yeni sıralı döner — client append ederken ters çevirmez.
func (r *sqliteMessageRepo) ListBefore(ctx context.Context, channelID, beforeID int64, limit int) (*models.MessagePage, error) {
	var rows *sql.Rows
	var err error

	if beforeID > 0 {
		query := `
			SELECT id, channel_id, user_id, body, created_at, updated_at,
			       thread_count, thread_last_reply_at
			FROM messages
			WHERE channel_id = ?
			  AND deleted_at IS NULL
			  AND id < ?
			ORDER BY id DESC
			LIMIT ?`
		rows, err = r.db.QueryContext(ctx, query, channelID, beforeID, limit+1)
	} else {
		query := `
			SELECT id, channel_id, user_id, body, created_at, updated_at,
			       thread_count, thread_last_reply_at
			FROM messages
			WHERE channel_id = ?
			  AND deleted_at IS NULL
			ORDER BY id DESC
			LIMIT ?`
		rows, err = r.db.QueryContext(ctx, query, channelID, limit+1)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list messages before cursor: %w", err)
	}
	defer rows.Close()

	messages, err := scanMessages(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(messages) > limit
	if hasMore {
		messages = messages[:limit]
	}

	// DESC geldi — eski→yeni çevir
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return &models.MessagePage{Messages: messages, HasMore: hasMore}, nil
}

func (r *sqliteMessageRepo) UpdateBody(ctx context.Context, id int64, body string) (int64, error) {
	now := time.Now().Unix()
	query := `UPDATE messages SET body = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, body, now, id)
	if err != nil {
		return 0, fmt.Errorf("failed to update message body: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update message rows affected: %w", err)
	}
	if affected == 0 {
		return 0, pkg.ErrNotFound
	}

	return now, nil
}

func (r *sqliteMessageRepo) SoftDelete(ctx context.Context, id int64) (int64, error) {
	now := time.Now().Unix()
	// deleted_at IS NULL şartı çifte silmeyi no-op'a çevirmez — ikinci silme
	// ErrNotFound döner; mesaj zaten store açısından yoktur.
	query := `UPDATE messages SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return 0, pkg.ErrNotFound
	}

	return now, nil
}

func (r *sqliteMessageRepo) SetThreadAggregate(ctx context.Context, parentID int64, agg models.ThreadAggregate) error {
	query := `UPDATE messages SET thread_count = ?, thread_last_reply_at = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, agg.Count, agg.LastReplyAt, parentID); err != nil {
		return fmt.Errorf("failed to set thread aggregate: %w", err)
	}
	return nil
}

// scanMessages, mesaj SELECT sorgularının ortak satır okuma döngüsü.
func scanMessages(rows *sql.Rows) ([]models.Message, error) {
	messages := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(
			&m.ID, &m.ChannelID, &m.UserID, &m.Body, &m.CreatedAt, &m.UpdatedAt,
			&m.ThreadCount, &m.ThreadLastReplyAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating message rows: %w", err)
	}

	return messages, nil
}
