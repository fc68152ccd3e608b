package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/models"
	"github.com/edulink/chatsync/repository"
)

func TestHydrator_MissingMessageIsNilNil(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)

	payload, err := e.hydrator.Hydrate(ctx, models.Scope{ChannelID: chanID}, 9999, alice)
	require.NoError(t, err)
	assert.Nil(t, payload, "olmayan mesaj hata değil (nil, nil) dönmeli")
}

func TestHydrator_SoftDeletedMessageIsNilNil(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	msgID := e.seedMessage(t, chanID, alice, 1000)

	_, err := e.messages.SoftDelete(ctx, msgID)
	require.NoError(t, err)

	payload, err := e.hydrator.Hydrate(ctx, models.Scope{ChannelID: chanID}, msgID, alice)
	require.NoError(t, err)
	assert.Nil(t, payload)
}

func TestHydrator_PayloadFields(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chanID := e.seedChannel(t, alice)
	msgID := e.seedMessage(t, chanID, bob, 1705321800)

	payload, err := e.hydrator.Hydrate(ctx, models.Scope{ChannelID: chanID}, msgID, alice)
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.Equal(t, msgID, payload.ID)
	assert.Equal(t, chanID, payload.ChannelID)
	assert.Equal(t, int64(0), payload.ThreadID)
	assert.Equal(t, "bob", payload.SenderName)
	assert.Equal(t, "hello", payload.Body)
	assert.Equal(t, int64(1705321800), payload.CreatedAt)
	assert.Equal(t, "15 Jan 2024 12:30", payload.CreatedAtText)
	assert.False(t, payload.IsOwn)
	assert.NotNil(t, payload.Attachments, "boş attachment listesi null değil [] olmalı")
	assert.NotNil(t, payload.Reactions)
}

func TestHydrator_CallerReactedIsPerViewer(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chanID := e.seedChannel(t, alice)
	msgID := e.seedMessage(t, chanID, alice, 1000)
	scope := models.Scope{ChannelID: chanID}

	reactions := repository.NewSQLiteReactionRepo(e.db.Conn)
	_, err := reactions.Toggle(ctx, models.ReactionScopeMain, msgID, alice, "👍")
	require.NoError(t, err)

	// Alice kendi reaction'ını işaretli görür
	p, err := e.hydrator.Hydrate(ctx, scope, msgID, alice)
	require.NoError(t, err)
	require.Len(t, p.Reactions, 1)
	assert.True(t, p.Reactions[0].CallerReacted)

	// Bob aynı özeti (cache'ten) işaretsiz görür — bayrak cache'lenmez
	p, err = e.hydrator.Hydrate(ctx, scope, msgID, bob)
	require.NoError(t, err)
	require.Len(t, p.Reactions, 1)
	assert.False(t, p.Reactions[0].CallerReacted)
	assert.Equal(t, 1, p.Reactions[0].Count)
}

func TestHydrator_InvalidateReactions(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	msgID := e.seedMessage(t, chanID, alice, 1000)
	scope := models.Scope{ChannelID: chanID}

	reactions := repository.NewSQLiteReactionRepo(e.db.Conn)
	_, err := reactions.Toggle(ctx, models.ReactionScopeMain, msgID, alice, "👍")
	require.NoError(t, err)

	// İlk hydrate özeti cache'ler
	p, err := e.hydrator.Hydrate(ctx, scope, msgID, alice)
	require.NoError(t, err)
	require.Len(t, p.Reactions, 1)

	// Toggle sonrası invalidation olmadan cache bayat kalırdı
	_, err = reactions.Toggle(ctx, models.ReactionScopeMain, msgID, alice, "👍")
	require.NoError(t, err)
	e.hydrator.InvalidateReactions(models.ReactionScopeMain, msgID)

	p, err = e.hydrator.Hydrate(ctx, scope, msgID, alice)
	require.NoError(t, err)
	assert.Empty(t, p.Reactions)
}
