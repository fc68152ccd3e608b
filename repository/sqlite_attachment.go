package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
)

// sqliteAttachmentRepo, AttachmentRepository interface'inin SQLite implementasyonu.
type sqliteAttachmentRepo struct {
	db database.TxQuerier
}

// NewSQLiteAttachmentRepo, constructor — interface döner.
func NewSQLiteAttachmentRepo(db database.TxQuerier) AttachmentRepository {
	return &sqliteAttachmentRepo{db: db}
}

func (r *sqliteAttachmentRepo) Register(ctx context.Context, att *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, filename, file_url, file_size, mime_type)
		VALUES (?, ?, ?, ?, ?)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		att.ID,
		att.Filename,
		att.FileURL,
		att.FileSize,
		att.MimeType,
	).Scan(&att.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to register attachment: %w", err)
	}

	return nil
}

// ClaimForMessage, upload edilmiş attachment'ları bir mesaja bağlar.
// message_id IS NULL şartı, aynı attachment'ın iki mesaja bağlanmasını önler.
func (r *sqliteAttachmentRepo) ClaimForMessage(ctx context.Context, messageID int64, attachmentIDs []string) error {
	if len(attachmentIDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(attachmentIDs))
	args := make([]any, 0, len(attachmentIDs)+1)
	args = append(args, messageID)
	for i, id := range attachmentIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`
		UPDATE attachments SET message_id = ?
		WHERE id IN (%s) AND message_id IS NULL`,
		strings.Join(placeholders, ","))

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to claim attachments: %w", err)
	}

	return nil
}

func (r *sqliteAttachmentRepo) ListByMessage(ctx context.Context, messageID int64) ([]models.Attachment, error) {
	query := `
		SELECT id, message_id, filename, file_url, file_size, mime_type, created_at
		FROM attachments
		WHERE message_id = ?
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	attachments := []models.Attachment{}
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment rows: %w", err)
	}

	return attachments, nil
}

// ListByMessageIDs, birden fazla mesajın attachment'larını batch yükler.
// Reaction'lardaki GroupsByMessageIDs ile aynı N+1 çözümü.
func (r *sqliteAttachmentRepo) ListByMessageIDs(ctx context.Context, messageIDs []int64) (map[int64][]models.Attachment, error) {
	if len(messageIDs) == 0 {
		return make(map[int64][]models.Attachment), nil
	}

	placeholders := make([]string, len(messageIDs))
	args := make([]any, len(messageIDs))
	for i, id := range messageIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, message_id, filename, file_url, file_size, mime_type, created_at
		FROM attachments
		WHERE message_id IN (%s)
		ORDER BY message_id, created_at ASC, id ASC`,
		strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments by message ids: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.Attachment)
	for rows.Next() {
		att, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		if att.MessageID != nil {
			result[*att.MessageID] = append(result[*att.MessageID], att)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating attachment rows: %w", err)
	}

	return result, nil
}

// scanAttachment, attachment SELECT sorgularının ortak satır okuması.
func scanAttachment(rows *sql.Rows) (models.Attachment, error) {
	var att models.Attachment
	err := rows.Scan(
		&att.ID,
		&att.MessageID,
		&att.Filename,
		&att.FileURL,
		&att.FileSize,
		&att.MimeType,
		&att.CreatedAt,
	)
	if err != nil {
		return models.Attachment{}, fmt.Errorf("failed to scan attachment: %w", err)
	}
	return att, nil
}
