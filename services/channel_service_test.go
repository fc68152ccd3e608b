package services

import (
	"context"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/database"
	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
	"github.com/edulink/chatsync/repository"
)

type channelServiceFixture struct {
	db       *database.DB
	svc      ChannelService
	readRepo repository.ReadCursorRepository
}

func newChannelServiceFixture(t *testing.T) *channelServiceFixture {
	t.Helper()

	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	readRepo := repository.NewSQLiteReadCursorRepo(db.Conn)
	svc := NewChannelService(db, repository.NewSQLiteChannelRepo(db.Conn), readRepo)

	return &channelServiceFixture{db: db, svc: svc, readRepo: readRepo}
}

func (f *channelServiceFixture) seedUser(t *testing.T, username string) int64 {
	t.Helper()
	var id int64
	err := f.db.Conn.QueryRow(
		`INSERT INTO users (username, password_hash) VALUES (?, 'x') RETURNING id`,
		username,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func (f *channelServiceFixture) seedMessage(t *testing.T, channelID, userID int64) int64 {
	t.Helper()
	var id int64
	err := f.db.Conn.QueryRow(
		`INSERT INTO messages (channel_id, user_id, body) VALUES (?, ?, 'merhaba') RETURNING id`,
		channelID, userID,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

// Kanal detayı, çağıranın okuma durumunu taşımalı: hiç mark-read yapmamış
// üye her şeyi okunmamış görür, watermark ilerledikçe sayı düşer.
func TestChannelService_GetIncludesReadState(t *testing.T) {
	f := newChannelServiceFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	bob := f.seedUser(t, "bob")

	channel, err := f.svc.Create(ctx, alice, &models.CreateChannelRequest{
		Name:      "genel",
		Type:      string(models.ChannelTypeGroup),
		MemberIDs: []int64{bob},
	})
	require.NoError(t, err)

	f.seedMessage(t, channel.ID, bob)
	m2 := f.seedMessage(t, channel.ID, bob)
	f.seedMessage(t, channel.ID, bob)

	// Cursor yok: her şey okunmamış, watermark 0
	detail, err := f.svc.Get(ctx, channel.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, channel.ID, detail.Channel.ID)
	assert.Equal(t, 3, detail.UnreadCount)
	assert.Equal(t, int64(0), detail.LastReadMessageID)

	// İkinci mesaja kadar okundu işaretle
	require.NoError(t, f.readRepo.MarkRead(ctx, alice, channel.ID, m2))

	detail, err = f.svc.Get(ctx, channel.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, 1, detail.UnreadCount)
	assert.Equal(t, m2, detail.LastReadMessageID)
}

func TestChannelService_GetRejectsNonMember(t *testing.T) {
	f := newChannelServiceFixture(t)
	ctx := context.Background()

	alice := f.seedUser(t, "alice")
	carol := f.seedUser(t, "carol")

	channel, err := f.svc.Create(ctx, alice, &models.CreateChannelRequest{
		Name: "genel",
		Type: string(models.ChannelTypeGroup),
	})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, channel.ID, carol)
	require.ErrorIs(t, err, pkg.ErrForbidden)
}
