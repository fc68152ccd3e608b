package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
)

// sqliteReactionRepo, ReactionRepository interface'inin SQLite implementasyonu.
type sqliteReactionRepo struct {
	db database.TxQuerier
}

// NewSQLiteReactionRepo, constructor — interface döner.
func NewSQLiteReactionRepo(db database.TxQuerier) ReactionRepository {
	return &sqliteReactionRepo{db: db}
}

// reactionTable, scope'u tablo + FK kolon adına çevirir.
// İki scope aynı sorgu iskeletini paylaşır, sadece hedef tablo değişir.
func reactionTable(scope models.ReactionScope) (table, fkColumn string) {
	if scope == models.ReactionScopeThread {
		return "thread_reactions", "thread_message_id"
	}
	return "reactions", "message_id"
}

// Toggle, bir reaction'ı ekler veya kaldırır.
//
// Strateji: INSERT OR IGNORE ile eklemeyi dene.
// rowsAffected == 0 → UNIQUE constraint nedeniyle eklenmedi → zaten var → DELETE yap.
// rowsAffected == 1 → başarıyla eklendi.
//
// Bu pattern, iki ayrı SELECT + INSERT/DELETE yerine tek bir atomik işlem sağlar.
// Race condition riski yoktur çünkü UNIQUE constraint DB seviyesinde korunur.
// İşlem asla çoğaltmaz: hızlı çift tıklama net sıfır değişiklikle biter.
func (r *sqliteReactionRepo) Toggle(ctx context.Context, scope models.ReactionScope, messageID, userID int64, reaction string) (models.ToggleAction, error) {
	table, fk := reactionTable(scope)

	insertQuery := fmt.Sprintf(`
		INSERT OR IGNORE INTO %s (%s, user_id, reaction)
		VALUES (?, ?, ?)`, table, fk)

	result, err := r.db.ExecContext(ctx, insertQuery, messageID, userID, reaction)
	if err != nil {
		return "", fmt.Errorf("toggle reaction insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("toggle reaction rows affected: %w", err)
	}

	// INSERT başarılı — yeni reaction eklendi
	if rowsAffected > 0 {
		return models.ToggleAdded, nil
	}

	// INSERT başarısız (UNIQUE constraint) — reaction zaten var, sil
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = ? AND user_id = ? AND reaction = ?`, table, fk)
	_, err = r.db.ExecContext(ctx, deleteQuery, messageID, userID, reaction)
	if err != nil {
		return "", fmt.Errorf("toggle reaction delete: %w", err)
	}

	return models.ToggleRemoved, nil
}

// Groups, tek bir mesajın reaction'larını gruplanmış olarak döner.
//
// GROUP BY reaction ile aynı emojileri birleştirir.
// GROUP_CONCAT(user_id) ile tepki veren kullanıcı ID'lerini virgülle ayırır.
// COUNT(*) ile her emojinin toplam sayısını hesaplar.
//
// Sonuç ReactionGroup dizisi: [{type: "👍", count: 3, userIds: [1,2,3]}]
// CallerReacted burada doldurulmaz; service katmanı isteği yapan
// kullanıcıyı bildiği için orada işaretlenir.
func (r *sqliteReactionRepo) Groups(ctx context.Context, scope models.ReactionScope, messageID int64) ([]models.ReactionGroup, error) {
	table, fk := reactionTable(scope)

	query := fmt.Sprintf(`
		SELECT reaction, COUNT(*) as count, GROUP_CONCAT(user_id) as users
		FROM %s
		WHERE %s = ?
		GROUP BY reaction
		ORDER BY MIN(created_at) ASC`, table, fk)

	rows, err := r.db.QueryContext(ctx, query, messageID)
	if err != nil {
		return nil, fmt.Errorf("get reactions by message: %w", err)
	}
	defer rows.Close()

	groups := []models.ReactionGroup{}
	for rows.Next() {
		var reaction, usersStr string
		var count int
		if err := rows.Scan(&reaction, &count, &usersStr); err != nil {
			return nil, fmt.Errorf("scan reaction group: %w", err)
		}

		userIDs, err := parseUserIDList(usersStr)
		if err != nil {
			return nil, err
		}
		groups = append(groups, models.ReactionGroup{
			Reaction: reaction,
			Count:    count,
			UserIDs:  userIDs,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reaction rows: %w", err)
	}

	return groups, nil
}

// GroupsByMessageIDs, birden fazla mesajın reaction'larını batch olarak yükler.
//
// N+1 problemi çözümü: 50 mesaj varsa 50 ayrı sorgu yerine
// WHERE message_id IN (?, ?, ...) ile tek sorgu yapılır.
//
// Return: map[messageID] → []ReactionGroup
// Reaction'ı olmayan mesajlar map'te key olarak bulunmaz.
func (r *sqliteReactionRepo) GroupsByMessageIDs(ctx context.Context, scope models.ReactionScope, messageIDs []int64) (map[int64][]models.ReactionGroup, error) {
	if len(messageIDs) == 0 {
		return make(map[int64][]models.ReactionGroup), nil
	}

	table, fk := reactionTable(scope)

	// Dinamik placeholder oluştur: (?, ?, ?, ...)
	placeholders := make([]string, len(messageIDs))
	args := make([]any, len(messageIDs))
	for i, id := range messageIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT %s, reaction, COUNT(*) as count, GROUP_CONCAT(user_id) as users
		FROM %s
		WHERE %s IN (%s)
		GROUP BY %s, reaction
		ORDER BY %s, MIN(created_at) ASC`,
		fk, table, fk, strings.Join(placeholders, ","), fk, fk)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get reactions by message ids: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.ReactionGroup)
	for rows.Next() {
		var messageID int64
		var reaction, usersStr string
		var count int
		if err := rows.Scan(&messageID, &reaction, &count, &usersStr); err != nil {
			return nil, fmt.Errorf("scan reaction group: %w", err)
		}

		userIDs, err := parseUserIDList(usersStr)
		if err != nil {
			return nil, err
		}
		result[messageID] = append(result[messageID], models.ReactionGroup{
			Reaction: reaction,
			Count:    count,
			UserIDs:  userIDs,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reaction rows: %w", err)
	}

	return result, nil
}

// parseUserIDList, GROUP_CONCAT çıktısını ("1,5,12") int64 dizisine çevirir.
func parseUserIDList(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse reaction user id %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
