package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/models"
)

func entry(id, ts int64) Entry {
	return Entry{
		Kind:      models.EventMessagePosted,
		ChannelID: 1,
		MessageID: id,
		Timestamp: ts,
	}
}

func TestMemory_AppendConsume(t *testing.T) {
	m := NewMemory(time.Minute, 100)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "chan:1:new", entry(10, 1000)))
	require.NoError(t, m.Append(ctx, "chan:1:new", entry(11, 1001)))

	got, err := m.Consume(ctx, "chan:1:new", func(Entry) bool { return true })
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(10), got[0].MessageID)
	assert.Equal(t, int64(11), got[1].MessageID)
}

func TestMemory_ConsumeRemovesMatchedKeepsRest(t *testing.T) {
	m := NewMemory(time.Minute, 100)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "chan:1:new", entry(10, 1000)))
	require.NoError(t, m.Append(ctx, "chan:1:new", entry(11, 1005)))

	// Sadece ts > 1000 olanı tüket
	got, err := m.Consume(ctx, "chan:1:new", func(e Entry) bool { return e.Timestamp > 1000 })
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].MessageID)

	// Eşleşmeyen entry listede kalmış olmalı
	rest, err := m.Consume(ctx, "chan:1:new", func(Entry) bool { return true })
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, int64(10), rest[0].MessageID)
}

func TestMemory_ConsumeMissingKey(t *testing.T) {
	m := NewMemory(time.Minute, 100)
	defer m.Close()

	got, err := m.Consume(context.Background(), "chan:99:new", func(Entry) bool { return true })
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMemory_TrimToMaxLen(t *testing.T) {
	m := NewMemory(time.Minute, 3)
	defer m.Close()
	ctx := context.Background()

	for i := int64(1); i <= 5; i++ {
		require.NoError(t, m.Append(ctx, "chan:1:new", entry(i, 1000+i)))
	}

	got, err := m.Consume(ctx, "chan:1:new", func(Entry) bool { return true })
	require.NoError(t, err)
	require.Len(t, got, 3, "maxLen aşılınca en eskiler atılmalı")
	assert.Equal(t, int64(3), got[0].MessageID)
	assert.Equal(t, int64(5), got[2].MessageID)
}

func TestMemory_TTLExpiry(t *testing.T) {
	m := NewMemory(30*time.Millisecond, 100)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "chan:1:new", entry(10, 1000)))

	time.Sleep(60 * time.Millisecond)

	got, err := m.Consume(ctx, "chan:1:new", func(Entry) bool { return true })
	require.NoError(t, err)
	assert.Empty(t, got, "TTL dolan key'in entry'leri dönmemeli")
}

func TestMemory_AppendRefreshesTTL(t *testing.T) {
	m := NewMemory(80*time.Millisecond, 100)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Append(ctx, "chan:1:new", entry(10, 1000)))
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, m.Append(ctx, "chan:1:new", entry(11, 1001)))
	time.Sleep(50 * time.Millisecond)

	// İkinci append TTL'i tazeledi — ilk entry de hâlâ yaşıyor olmalı
	got, err := m.Consume(ctx, "chan:1:new", func(Entry) bool { return true })
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestKeys(t *testing.T) {
	chanScope := models.Scope{ChannelID: 7}
	threadScope := models.Scope{ChannelID: 7, ThreadID: 42}

	assert.Equal(t, "chan:7:new", PostedKey(chanScope))
	assert.Equal(t, "chan:7:del", DeletedKey(chanScope))
	assert.Equal(t, "thread:42:new", PostedKey(threadScope))
	assert.Equal(t, "thread:42:del", DeletedKey(threadScope))
}
