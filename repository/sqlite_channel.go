package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
)

// sqliteChannelRepo, ChannelRepository interface'inin SQLite implementasyonu.
type sqliteChannelRepo struct {
	db database.TxQuerier
}

// NewSQLiteChannelRepo, constructor — interface döner.
func NewSQLiteChannelRepo(db database.TxQuerier) ChannelRepository {
	return &sqliteChannelRepo{db: db}
}

func (r *sqliteChannelRepo) Create(ctx context.Context, channel *models.Channel) error {
	query := `
		INSERT INTO channels (name, type, created_by)
		VALUES (?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		channel.Name,
		channel.Type,
		channel.CreatedBy,
	).Scan(&channel.ID, &channel.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create channel: %w", err)
	}

	return nil
}

func (r *sqliteChannelRepo) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	query := `
		SELECT id, name, type, created_by, created_at
		FROM channels
		WHERE id = ?`

	channel := &models.Channel{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&channel.ID, &channel.Name, &channel.Type, &channel.CreatedBy, &channel.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get channel by id: %w", err)
	}

	return channel, nil
}

func (r *sqliteChannelRepo) ListForUser(ctx context.Context, userID int64) ([]models.Channel, error) {
	query := `
		SELECT c.id, c.name, c.type, c.created_by, c.created_at
		FROM channels c
		INNER JOIN channel_members cm ON cm.channel_id = c.id
		WHERE cm.user_id = ?
		ORDER BY c.id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels for user: %w", err)
	}
	defer rows.Close()

	channels := []models.Channel{}
	for rows.Next() {
		var c models.Channel
		if err := rows.Scan(&c.ID, &c.Name, &c.Type, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}
		channels = append(channels, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating channel rows: %w", err)
	}

	return channels, nil
}

func (r *sqliteChannelRepo) IsMember(ctx context.Context, channelID, userID int64) (bool, error) {
	query := `SELECT 1 FROM channel_members WHERE channel_id = ? AND user_id = ?`

	var one int
	err := r.db.QueryRowContext(ctx, query, channelID, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check channel membership: %w", err)
	}

	return true, nil
}

func (r *sqliteChannelRepo) AddMember(ctx context.Context, channelID, userID int64) error {
	// INSERT OR IGNORE: zaten üye olan kullanıcı için no-op — çifte join
	// isteği hata üretmez.
	query := `INSERT OR IGNORE INTO channel_members (channel_id, user_id) VALUES (?, ?)`

	if _, err := r.db.ExecContext(ctx, query, channelID, userID); err != nil {
		return fmt.Errorf("failed to add channel member: %w", err)
	}
	return nil
}

func (r *sqliteChannelRepo) RemoveMember(ctx context.Context, channelID, userID int64) error {
	query := `DELETE FROM channel_members WHERE channel_id = ? AND user_id = ?`

	if _, err := r.db.ExecContext(ctx, query, channelID, userID); err != nil {
		return fmt.Errorf("failed to remove channel member: %w", err)
	}
	return nil
}

func (r *sqliteChannelRepo) Members(ctx context.Context, channelID int64) ([]models.Member, error) {
	query := `
		SELECT u.id, u.username, u.display_name, cm.joined_at
		FROM channel_members cm
		INNER JOIN users u ON u.id = cm.user_id
		WHERE cm.channel_id = ?
		ORDER BY cm.joined_at ASC`

	rows, err := r.db.QueryContext(ctx, query, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channel members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(&m.UserID, &m.Username, &m.DisplayName, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan channel member: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}
