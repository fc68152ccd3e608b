package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/models"
)

func TestReactionRepo_TogglePair(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReactionRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	msgID := seedMessage(t, db, chanID, userID, 1000)

	// İlk toggle ekler
	action, err := repo.Toggle(ctx, models.ReactionScopeMain, msgID, userID, "👍")
	require.NoError(t, err)
	assert.Equal(t, models.ToggleAdded, action)

	// Aynı tuple'a ikinci toggle kaldırır
	action, err = repo.Toggle(ctx, models.ReactionScopeMain, msgID, userID, "👍")
	require.NoError(t, err)
	assert.Equal(t, models.ToggleRemoved, action)

	groups, err := repo.Groups(ctx, models.ReactionScopeMain, msgID)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestReactionRepo_GroupsAggregation(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReactionRepo(db.Conn)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chanID := seedChannel(t, db, alice, alice, bob)
	msgID := seedMessage(t, db, chanID, alice, 1000)

	// Alice ve Bob 👍, sadece Bob ❤️
	_, err := repo.Toggle(ctx, models.ReactionScopeMain, msgID, alice, "👍")
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, models.ReactionScopeMain, msgID, bob, "👍")
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, models.ReactionScopeMain, msgID, bob, "❤️")
	require.NoError(t, err)

	groups, err := repo.Groups(ctx, models.ReactionScopeMain, msgID)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	byReaction := map[string]models.ReactionGroup{}
	for _, g := range groups {
		byReaction[g.Reaction] = g
	}

	thumbs := byReaction["👍"]
	assert.Equal(t, 2, thumbs.Count)
	assert.ElementsMatch(t, []int64{alice, bob}, thumbs.UserIDs)

	heart := byReaction["❤️"]
	assert.Equal(t, 1, heart.Count)
	assert.ElementsMatch(t, []int64{bob}, heart.UserIDs)

	// Alice kaldırınca grup Bob'a düşer
	action, err := repo.Toggle(ctx, models.ReactionScopeMain, msgID, alice, "👍")
	require.NoError(t, err)
	assert.Equal(t, models.ToggleRemoved, action)

	groups, err = repo.Groups(ctx, models.ReactionScopeMain, msgID)
	require.NoError(t, err)

	byReaction = map[string]models.ReactionGroup{}
	for _, g := range groups {
		byReaction[g.Reaction] = g
	}
	assert.Equal(t, 1, byReaction["👍"].Count)
	assert.ElementsMatch(t, []int64{bob}, byReaction["👍"].UserIDs)
}

func TestReactionRepo_ThreadScopeIsSeparate(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReactionRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	parentID := seedMessage(t, db, chanID, userID, 1000)
	replyID := seedReply(t, db, parentID, userID, 1001)

	_, err := repo.Toggle(ctx, models.ReactionScopeThread, replyID, userID, "👍")
	require.NoError(t, err)

	// Thread reaction ana mesaj tablosuna sızmamalı
	mainGroups, err := repo.Groups(ctx, models.ReactionScopeMain, replyID)
	require.NoError(t, err)
	assert.Empty(t, mainGroups)

	threadGroups, err := repo.Groups(ctx, models.ReactionScopeThread, replyID)
	require.NoError(t, err)
	require.Len(t, threadGroups, 1)
	assert.Equal(t, 1, threadGroups[0].Count)
}

func TestReactionRepo_GroupsByMessageIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReactionRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)
	m1 := seedMessage(t, db, chanID, userID, 1000)
	m2 := seedMessage(t, db, chanID, userID, 1001)
	m3 := seedMessage(t, db, chanID, userID, 1002)

	_, err := repo.Toggle(ctx, models.ReactionScopeMain, m1, userID, "👍")
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, models.ReactionScopeMain, m3, userID, "❤️")
	require.NoError(t, err)

	got, err := repo.GroupsByMessageIDs(ctx, models.ReactionScopeMain, []int64{m1, m2, m3})
	require.NoError(t, err)

	assert.Len(t, got[m1], 1)
	assert.Empty(t, got[m2])
	assert.Len(t, got[m3], 1)
}
