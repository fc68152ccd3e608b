package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/models"
)

func TestCollector_QueueFastPath(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	scope := models.Scope{ChannelID: chanID}

	msgID := e.seedMessage(t, chanID, alice, 1000)
	e.producer.Publish(ctx, models.EventMessagePosted, scope, msgID, 1000)

	events, hasMore, err := e.collector.Collect(ctx, scope, models.Cursor{}, alice)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, hasMore)

	assert.Equal(t, models.EventMessagePosted, events[0].Type)
	assert.Equal(t, int64(1000), events[0].Timestamp)

	payload, ok := events[0].Data.(*models.EventPayload)
	require.True(t, ok)
	assert.Equal(t, msgID, payload.ID)
	assert.Equal(t, chanID, payload.ChannelID)
	assert.Equal(t, "alice", payload.SenderName)
	assert.True(t, payload.IsOwn)
}

func TestCollector_NoRedeliveryAfterCursorAdvance(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	scope := models.Scope{ChannelID: chanID}

	msgID := e.seedMessage(t, chanID, alice, 1000)
	e.producer.Publish(ctx, models.EventMessagePosted, scope, msgID, 1000)

	events, _, err := e.collector.Collect(ctx, scope, models.Cursor{}, alice)
	require.NoError(t, err)
	require.Len(t, events, 1)

	// Client cursor'unu son event'e ilerletti — aynı event bir daha gelmez
	next := models.Cursor{Timestamp: events[0].Timestamp, MessageID: events[0].MessageID}
	events, _, err = e.collector.Collect(ctx, scope, next, alice)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCollector_FallbackWhenQueueEmpty(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	scope := models.Scope{ChannelID: chanID}

	// Queue'ya hiçbir şey yazılmadı (TTL ile düşmüş gibi) — sadece DB satırları var.
	// Aynı saniyeyi paylaşan iki mesaj + daha yeni bir üçüncü.
	m100 := e.seedMessage(t, chanID, alice, 1000)
	m101 := e.seedMessage(t, chanID, alice, 1000)
	m102 := e.seedMessage(t, chanID, alice, 1005)

	cursor := models.Cursor{Timestamp: 1000, MessageID: m100}
	events, hasMore, err := e.collector.Collect(ctx, scope, cursor, alice)
	require.NoError(t, err)
	assert.False(t, hasMore)

	// Fallback queue ile aynı çıktıyı üretmeli: (ts, id) artan, ts = created_at
	require.Len(t, events, 2)
	assert.Equal(t, m101, events[0].MessageID)
	assert.Equal(t, int64(1000), events[0].Timestamp)
	assert.Equal(t, m102, events[1].MessageID)
	assert.Equal(t, int64(1005), events[1].Timestamp)
	assert.Equal(t, models.EventMessagePosted, events[0].Type)
}

func TestCollector_FallbackHasMore(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	scope := models.Scope{ChannelID: chanID}

	// fallbackLimit=20'nin üstünde satır
	for i := int64(0); i < 25; i++ {
		e.seedMessage(t, chanID, alice, 1000+i)
	}

	events, hasMore, err := e.collector.Collect(ctx, scope, models.Cursor{}, alice)
	require.NoError(t, err)
	assert.Len(t, events, 20)
	assert.True(t, hasMore, "limit aşıldığında client'a devamı olduğu söylenmeli")
}

func TestCollector_TombstoneMerge(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	scope := models.Scope{ChannelID: chanID}

	m1 := e.seedMessage(t, chanID, alice, 1000)
	e.producer.Publish(ctx, models.EventMessagePosted, scope, m1, 1000)

	// m2 gönderilip silindi — posted event'i + tombstone aynı turda
	m2 := e.seedMessage(t, chanID, alice, 1002)
	e.producer.Publish(ctx, models.EventMessagePosted, scope, m2, 1002)
	_, err := e.messages.SoftDelete(ctx, m2)
	require.NoError(t, err)
	e.producer.Publish(ctx, models.EventMessageDeleted, scope, m2, 1003)

	events, _, err := e.collector.Collect(ctx, scope, models.Cursor{}, alice)
	require.NoError(t, err)

	// m2'nin posted entry'si hydrate'te düşer (artık soft-deleted),
	// geriye m1 payload'ı + m2 tombstone'u (ts,id) sıralı kalır.
	require.Len(t, events, 2)

	assert.Equal(t, models.EventMessagePosted, events[0].Type)
	assert.Equal(t, m1, events[0].MessageID)

	assert.Equal(t, models.EventMessageDeleted, events[1].Type)
	assert.Equal(t, int64(1003), events[1].Timestamp)
	tomb, ok := events[1].Data.(models.Tombstone)
	require.True(t, ok)
	assert.Equal(t, m2, tomb.ID)
	assert.Equal(t, chanID, tomb.ChannelID)
}

func TestCollector_ThreadScope(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chanID := e.seedChannel(t, alice)
	parentID := e.seedMessage(t, chanID, alice, 1000)
	scope := models.Scope{ChannelID: chanID, ThreadID: parentID}

	replyID := e.seedReply(t, parentID, bob, 2000)
	e.producer.Publish(ctx, models.EventThreadMessagePosted, scope, replyID, 2000)

	events, _, err := e.collector.Collect(ctx, scope, models.Cursor{}, alice)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventThreadMessagePosted, events[0].Type)

	payload, ok := events[0].Data.(*models.EventPayload)
	require.True(t, ok)
	assert.Equal(t, replyID, payload.ID)
	assert.Equal(t, parentID, payload.ThreadID)
	assert.Equal(t, "bob", payload.SenderName)
	assert.False(t, payload.IsOwn)

	// Thread trafiği ana kanal scope'una sızmaz
	chanEvents, _, err := e.collector.Collect(ctx, models.Scope{ChannelID: chanID}, models.Cursor{Timestamp: 1000, MessageID: parentID}, alice)
	require.NoError(t, err)
	assert.Empty(t, chanEvents)
}

func TestCollector_ThreadFallback(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)
	parentID := e.seedMessage(t, chanID, alice, 1000)
	scope := models.Scope{ChannelID: chanID, ThreadID: parentID}

	r1 := e.seedReply(t, parentID, alice, 2000)
	r2 := e.seedReply(t, parentID, alice, 2005)

	events, _, err := e.collector.Collect(ctx, scope, models.Cursor{}, alice)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventThreadMessagePosted, events[0].Type)
	assert.Equal(t, r1, events[0].MessageID)
	assert.Equal(t, r2, events[1].MessageID)
}
