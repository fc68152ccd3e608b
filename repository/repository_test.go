package repository

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/database"
)

// newTestDB, t.TempDir() içinde gerçek bir SQLite dosyası açar ve
// embedded migration'ları uygular. Her test kendi izole DB'sini alır.
func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

// ─── Fixture helpers ───
//
// created_at kontrolü gereken testler repo Create'ini (DB default unixepoch)
// değil, açık timestamp'li raw INSERT'leri kullanır.

func seedUser(t *testing.T, db *database.DB, username string) int64 {
	t.Helper()

	var id int64
	err := db.Conn.QueryRowContext(context.Background(),
		`INSERT INTO users (username, password_hash) VALUES (?, 'x') RETURNING id`,
		username,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedChannel(t *testing.T, db *database.DB, createdBy int64, memberIDs ...int64) int64 {
	t.Helper()
	ctx := context.Background()

	var id int64
	err := db.Conn.QueryRowContext(ctx,
		`INSERT INTO channels (name, type, created_by) VALUES ('test', 'group', ?) RETURNING id`,
		createdBy,
	).Scan(&id)
	require.NoError(t, err)

	for _, uid := range memberIDs {
		_, err := db.Conn.ExecContext(ctx,
			`INSERT INTO channel_members (channel_id, user_id) VALUES (?, ?)`, id, uid)
		require.NoError(t, err)
	}
	return id
}

func seedMessage(t *testing.T, db *database.DB, channelID, userID, createdAt int64) int64 {
	t.Helper()

	var id int64
	err := db.Conn.QueryRowContext(context.Background(),
		`INSERT INTO messages (channel_id, user_id, body, created_at) VALUES (?, ?, 'hello', ?) RETURNING id`,
		channelID, userID, createdAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func seedReply(t *testing.T, db *database.DB, parentID, userID, createdAt int64) int64 {
	t.Helper()

	var id int64
	err := db.Conn.QueryRowContext(context.Background(),
		`INSERT INTO thread_messages (parent_message_id, user_id, body, created_at) VALUES (?, ?, 'reply', ?) RETURNING id`,
		parentID, userID, createdAt,
	).Scan(&id)
	require.NoError(t, err)
	return id
}
