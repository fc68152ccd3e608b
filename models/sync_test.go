package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCursor_Accepts(t *testing.T) {
	c := Cursor{Timestamp: 1000, MessageID: 100}

	// Daha yeni timestamp — id ne olursa olsun kabul edilir
	assert.True(t, c.Accepts(1001, 1))
	assert.True(t, c.Accepts(1005, 100))

	// Aynı timestamp — sadece daha büyük id kabul edilir
	assert.True(t, c.Accepts(1000, 101))
	assert.False(t, c.Accepts(1000, 100))
	assert.False(t, c.Accepts(1000, 99))

	// Eski timestamp — id büyük olsa bile reddedilir
	assert.False(t, c.Accepts(999, 999))
}

func TestCursor_ZeroAcceptsEverything(t *testing.T) {
	var c Cursor

	assert.True(t, c.Accepts(1, 1))
	assert.True(t, c.Accepts(0, 1), "timestamp 0 olan event id > 0 ise kabul edilmeli")
	assert.False(t, c.Accepts(0, 0))
}

func TestScope_IsThread(t *testing.T) {
	assert.False(t, Scope{ChannelID: 5}.IsThread())
	assert.True(t, Scope{ChannelID: 5, ThreadID: 9}.IsThread())
}

func TestEventKind_IsDeletion(t *testing.T) {
	assert.False(t, EventMessagePosted.IsDeletion())
	assert.False(t, EventThreadMessagePosted.IsDeletion())
	assert.True(t, EventMessageDeleted.IsDeletion())
	assert.True(t, EventThreadMessageDeleted.IsDeletion())
}

func TestFormatTimestamp(t *testing.T) {
	// 2024-01-15 12:30:00 UTC
	assert.Equal(t, "15 Jan 2024 12:30", FormatTimestamp(1705321800))
}
