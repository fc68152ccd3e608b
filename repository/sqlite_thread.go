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

// sqliteThreadRepo, ThreadRepository interface'inin SQLite implementasyonu.
type sqliteThreadRepo struct {
	db database.TxQuerier
}

// NewSQLiteThreadRepo, constructor — interface döner.
func NewSQLiteThreadRepo(db database.TxQuerier) ThreadRepository {
	return &sqliteThreadRepo{db: db}
}

func (r *sqliteThreadRepo) Create(ctx context.Context, reply *models.ThreadMessage) error {
	query := `
		INSERT INTO thread_messages (parent_message_id, user_id, body)
		VALUES (?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reply.ParentMessageID,
		reply.UserID,
		reply.Body,
	).Scan(&reply.ID, &reply.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create thread message: %w", err)
	}

	return nil
}

func (r *sqliteThreadRepo) GetByID(ctx context.Context, id int64) (*models.ThreadMessage, error) {
	query := `
		SELECT id, parent_message_id, user_id, body, created_at
		FROM thread_messages
		WHERE id = ? AND deleted_at IS NULL`

	reply := &models.ThreadMessage{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&reply.ID, &reply.ParentMessageID, &reply.UserID, &reply.Body, &reply.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get thread message by id: %w", err)
	}

	return reply, nil
}

// ListAfter, ana kanal ListAfter'ının thread karşılığı —
// aynı bileşik cursor karşılaştırması, aynı sıralama.
func (r *sqliteThreadRepo) ListAfter(ctx context.Context, parentID int64, cursor models.Cursor, limit int) ([]models.ThreadMessage, error) {
	query := `
		SELECT id, parent_message_id, user_id, body, created_at
		FROM thread_messages
		WHERE parent_message_id = ?
		  AND deleted_at IS NULL
		  AND (created_at > ? OR (created_at = ? AND id > ?))
		ORDER BY created_at ASC, id ASC
		LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query,
		parentID, cursor.Timestamp, cursor.Timestamp, cursor.MessageID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread messages after cursor: %w", err)
	}
	defer rows.Close()

	return scanThreadMessages(rows)
}

func (r *sqliteThreadRepo) ListByParent(ctx context.Context, parentID int64) ([]models.ThreadMessage, error) {
	query := `
		SELECT id, parent_message_id, user_id, body, created_at
		FROM thread_messages
		WHERE parent_message_id = ? AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list thread messages: %w", err)
	}
	defer rows.Close()

	return scanThreadMessages(rows)
}

func (r *sqliteThreadRepo) SoftDelete(ctx context.Context, id int64) (int64, error) {
	now := time.Now().Unix()
	query := `UPDATE thread_messages SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, now, id)
	if err != nil {
		return 0, fmt.Errorf("failed to soft delete thread message: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("thread soft delete rows affected: %w", err)
	}
	if affected == 0 {
		return 0, pkg.ErrNotFound
	}

	return now, nil
}

// AggregateLive, canlı reply'lardan thread özetini hesaplar.
// MAX(created_at) boş kümede NULL döner — sql.NullInt64 ile okunur,
// böylece "hiç reply yok" durumu LastReplyAt = nil olarak temsil edilir.
func (r *sqliteThreadRepo) AggregateLive(ctx context.Context, parentID int64) (models.ThreadAggregate, error) {
	query := `
		SELECT COUNT(*), MAX(created_at)
		FROM thread_messages
		WHERE parent_message_id = ? AND deleted_at IS NULL`

	var count int
	var last sql.NullInt64
	err := r.db.QueryRowContext(ctx, query, parentID).Scan(&count, &last)
	if err != nil {
		return models.ThreadAggregate{}, fmt.Errorf("failed to aggregate thread: %w", err)
	}

	agg := models.ThreadAggregate{Count: count}
	if last.Valid {
		agg.LastReplyAt = &last.Int64
	}

	return agg, nil
}

// scanThreadMessages, thread SELECT sorgularının ortak satır okuma döngüsü.
func scanThreadMessages(rows *sql.Rows) ([]models.ThreadMessage, error) {
	replies := []models.ThreadMessage{}
	for rows.Next() {
		var tm models.ThreadMessage
		if err := rows.Scan(&tm.ID, &tm.ParentMessageID, &tm.UserID, &tm.Body, &tm.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan thread message: %w", err)
		}
		replies = append(replies, tm)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating thread message rows: %w", err)
	}

	return replies, nil
}
