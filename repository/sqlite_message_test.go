package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
)

func TestMessageRepo_ListAfter_CompoundCursor(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)

	// Aynı saniyeyi paylaşan iki mesaj + daha yeni bir üçüncü
	m100 := seedMessage(t, db, chanID, userID, 1000)
	m101 := seedMessage(t, db, chanID, userID, 1000)
	m102 := seedMessage(t, db, chanID, userID, 1005)

	// Cursor (1000, m100): aynı saniyedeki m101 ve sonraki m102 dönmeli, m100 dönmemeli
	got, err := repo.ListAfter(ctx, chanID, models.Cursor{Timestamp: 1000, MessageID: m100}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, m101, got[0].ID)
	assert.Equal(t, m102, got[1].ID)

	// Cursor en sondaysa hiçbir şey dönmez
	got, err = repo.ListAfter(ctx, chanID, models.Cursor{Timestamp: 1005, MessageID: m102}, 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMessageRepo_ListAfter_ExcludesSoftDeleted(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)

	m1 := seedMessage(t, db, chanID, userID, 1000)
	m2 := seedMessage(t, db, chanID, userID, 1001)

	_, err := repo.SoftDelete(ctx, m1)
	require.NoError(t, err)

	got, err := repo.ListAfter(ctx, chanID, models.Cursor{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, m2, got[0].ID)
}

func TestMessageRepo_GetByID_SoftDeletedIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	msgID := seedMessage(t, db, chanID, userID, 1000)

	deletedAt, err := repo.SoftDelete(ctx, msgID)
	require.NoError(t, err)
	assert.Greater(t, deletedAt, int64(0))

	_, err = repo.GetByID(ctx, msgID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	// İkinci silme artık görünmeyen satırı hedefler
	_, err = repo.SoftDelete(ctx, msgID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestMessageRepo_UpdateBody(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	msgID := seedMessage(t, db, chanID, userID, 1000)

	updatedAt, err := repo.UpdateBody(ctx, msgID, "edited")
	require.NoError(t, err)
	assert.Greater(t, updatedAt, int64(0))

	msg, err := repo.GetByID(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, "edited", msg.Body)
	require.NotNil(t, msg.UpdatedAt)
	assert.Equal(t, updatedAt, *msg.UpdatedAt)
}

func TestMessageRepo_ListBefore_Pagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)

	var ids []int64
	for i := int64(0); i < 5; i++ {
		ids = append(ids, seedMessage(t, db, chanID, userID, 1000+i))
	}

	// Son iki mesaj — daha eskisi var
	page, err := repo.ListBefore(ctx, chanID, 0, 2)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.True(t, page.HasMore)
	assert.Equal(t, ids[3], page.Messages[0].ID, "sayfa kronolojik (eski→yeni) sıralı dönmeli")
	assert.Equal(t, ids[4], page.Messages[1].ID)

	// İlk mesajdan öncesi yok
	page, err = repo.ListBefore(ctx, chanID, ids[0], 2)
	require.NoError(t, err)
	assert.Empty(t, page.Messages)
	assert.False(t, page.HasMore)
}

func TestMessageRepo_SetThreadAggregate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteMessageRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	msgID := seedMessage(t, db, chanID, userID, 1000)

	last := int64(1500)
	require.NoError(t, repo.SetThreadAggregate(ctx, msgID, models.ThreadAggregate{Count: 3, LastReplyAt: &last}))

	msg, err := repo.GetByID(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, 3, msg.ThreadCount)
	require.NotNil(t, msg.ThreadLastReplyAt)
	assert.Equal(t, last, *msg.ThreadLastReplyAt)

	// Son reply silinince özet sıfırlanır
	require.NoError(t, repo.SetThreadAggregate(ctx, msgID, models.ThreadAggregate{}))

	msg, err = repo.GetByID(ctx, msgID)
	require.NoError(t, err)
	assert.Equal(t, 0, msg.ThreadCount)
	assert.Nil(t, msg.ThreadLastReplyAt)
}
