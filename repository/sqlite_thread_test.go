package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/pkg"
)

func TestThreadRepo_ListAfter_CompoundCursor(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteThreadRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	parentID := seedMessage(t, db, chanID, userID, 1000)

	r1 := seedReply(t, db, parentID, userID, 2000)
	r2 := seedReply(t, db, parentID, userID, 2000)
	r3 := seedReply(t, db, parentID, userID, 2010)

	got, err := repo.ListAfter(ctx, parentID, models.Cursor{Timestamp: 2000, MessageID: r1}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, r2, got[0].ID)
	assert.Equal(t, r3, got[1].ID)
}

func TestThreadRepo_AggregateLive(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteThreadRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	parentID := seedMessage(t, db, chanID, userID, 1000)

	// Reply yokken: 0 + nil
	agg, err := repo.AggregateLive(ctx, parentID)
	require.NoError(t, err)
	assert.Equal(t, 0, agg.Count)
	assert.Nil(t, agg.LastReplyAt)

	r1 := seedReply(t, db, parentID, userID, 2000)
	r2 := seedReply(t, db, parentID, userID, 2010)

	agg, err = repo.AggregateLive(ctx, parentID)
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Count)
	require.NotNil(t, agg.LastReplyAt)
	assert.Equal(t, int64(2010), *agg.LastReplyAt)

	// En yeni reply silinince özet kalan canlı reply'a düşer
	_, err = repo.SoftDelete(ctx, r2)
	require.NoError(t, err)

	agg, err = repo.AggregateLive(ctx, parentID)
	require.NoError(t, err)
	assert.Equal(t, 1, agg.Count)
	require.NotNil(t, agg.LastReplyAt)
	assert.Equal(t, int64(2000), *agg.LastReplyAt)

	// Son reply da silinince 0 + nil temsiline döner
	_, err = repo.SoftDelete(ctx, r1)
	require.NoError(t, err)

	agg, err = repo.AggregateLive(ctx, parentID)
	require.NoError(t, err)
	assert.Equal(t, 0, agg.Count)
	assert.Nil(t, agg.LastReplyAt)
}

func TestThreadRepo_SoftDeleteHidesReply(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteThreadRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	parentID := seedMessage(t, db, chanID, userID, 1000)
	replyID := seedReply(t, db, parentID, userID, 2000)

	_, err := repo.SoftDelete(ctx, replyID)
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, replyID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	replies, err := repo.ListByParent(ctx, parentID)
	require.NoError(t, err)
	assert.Empty(t, replies)
}
