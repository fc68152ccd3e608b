package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCursorRepo_GetWithoutMark(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReadCursorRepo(db.Conn)

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)

	// Hiç mark etmemiş kullanıcı için cursor 0'dır, hata değil
	got, err := repo.Get(context.Background(), userID, chanID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got)
}

func TestReadCursorRepo_MarkReadMonotonic(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReadCursorRepo(db.Conn)
	ctx := context.Background()

	userID := seedUser(t, db, "alice")
	chanID := seedChannel(t, db, userID, userID)

	require.NoError(t, repo.MarkRead(ctx, userID, chanID, 50))

	got, err := repo.Get(ctx, userID, chanID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got)

	// Geç gelen düşük id cursor'ı GERİLETMEMELİ
	require.NoError(t, repo.MarkRead(ctx, userID, chanID, 30))

	got, err = repo.Get(ctx, userID, chanID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), got)

	// Daha yüksek id ilerletir
	require.NoError(t, repo.MarkRead(ctx, userID, chanID, 80))

	got, err = repo.Get(ctx, userID, chanID)
	require.NoError(t, err)
	assert.Equal(t, int64(80), got)
}

func TestReadCursorRepo_UnreadCount(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReadCursorRepo(db.Conn)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chanID := seedChannel(t, db, alice, alice, bob)

	m1 := seedMessage(t, db, chanID, bob, 1000)
	seedMessage(t, db, chanID, bob, 1001)
	seedMessage(t, db, chanID, alice, 1002) // Alice'in kendi mesajı — sayılmaz
	m4 := seedMessage(t, db, chanID, bob, 1003)

	// Cursor yok: Bob'un 3 mesajı unread
	count, err := repo.UnreadCount(ctx, alice, chanID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// m1'e kadar okundu
	require.NoError(t, repo.MarkRead(ctx, alice, chanID, m1))

	count, err = repo.UnreadCount(ctx, alice, chanID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Silinen mesaj unread sayılmaz
	_, err = NewSQLiteMessageRepo(db.Conn).SoftDelete(ctx, m4)
	require.NoError(t, err)

	count, err = repo.UnreadCount(ctx, alice, chanID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestReadCursorRepo_UnreadCounts_AllChannels(t *testing.T) {
	db := newTestDB(t)
	repo := NewSQLiteReadCursorRepo(db.Conn)
	ctx := context.Background()

	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	chan1 := seedChannel(t, db, alice, alice, bob)
	chan2 := seedChannel(t, db, alice, alice, bob)
	chan3 := seedChannel(t, db, bob, bob) // Alice üye değil

	seedMessage(t, db, chan1, bob, 1000)
	seedMessage(t, db, chan1, bob, 1001)
	seedMessage(t, db, chan3, bob, 1002)

	counts, err := repo.UnreadCounts(ctx, alice)
	require.NoError(t, err)

	require.Len(t, counts, 2, "sadece üye olunan kanallar dönmeli")
	assert.Equal(t, 2, counts[chan1])
	assert.Equal(t, 0, counts[chan2], "mesajsız kanal 0 ile yine de listede olmalı")
}
