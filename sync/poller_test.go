package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulink/chatsync/models"
)

func TestPoller_NonBlockingReturnsImmediately(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)

	start := time.Now()
	resp, err := e.poller.Poll(ctx, PollRequest{
		Scope:    models.Scope{ChannelID: chanID},
		ViewerID: alice,
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 500*time.Millisecond)
	assert.NotNil(t, resp.Events, "boş sonuç null değil [] olmalı")
	assert.Empty(t, resp.Events)
	assert.False(t, resp.TimedOut)
	assert.Greater(t, resp.ServerTime, int64(0))
}

func TestPoller_BlockingTimesOut(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)

	start := time.Now()
	resp, err := e.poller.Poll(ctx, PollRequest{
		Scope:    models.Scope{ChannelID: chanID},
		ViewerID: alice,
		Blocking: true,
		Timeout:  150 * time.Millisecond,
	})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
	assert.True(t, resp.TimedOut, "event'siz dolan pencere hata değil timedOut=true'dur")
	assert.Empty(t, resp.Events)
}

func TestPoller_BlockingClampsTimeout(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)

	// maxTimeout testte 2s — 600s isteyen client en geç 2s'de cevap alır
	start := time.Now()
	resp, err := e.poller.Poll(ctx, PollRequest{
		Scope:    models.Scope{ChannelID: chanID},
		ViewerID: alice,
		Blocking: true,
		Timeout:  600 * time.Second,
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), 3*time.Second)
	assert.True(t, resp.TimedOut)
}

func TestPoller_BlockingWakesOnPublish(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	alice := e.seedUser(t, "alice")
	bob := e.seedUser(t, "bob")
	chanID := e.seedChannel(t, alice)
	scope := models.Scope{ChannelID: chanID}

	// Bob 60ms sonra mesaj gönderir — bekleyen poll tick beklemeden uyanmalı
	go func() {
		time.Sleep(60 * time.Millisecond)
		msgID := e.seedMessage(t, chanID, bob, time.Now().Unix())
		e.producer.Publish(ctx, models.EventMessagePosted, scope, msgID, time.Now().Unix())
	}()

	start := time.Now()
	resp, err := e.poller.Poll(ctx, PollRequest{
		Scope:    scope,
		ViewerID: alice,
		Blocking: true,
		Timeout:  2 * time.Second,
	})
	require.NoError(t, err)

	assert.Less(t, time.Since(start), time.Second, "publish wakeup'ı timeout'tan çok önce dönmeli")
	assert.False(t, resp.TimedOut)
	require.Len(t, resp.Events, 1)

	payload, ok := resp.Events[0].Data.(*models.EventPayload)
	require.True(t, ok)
	assert.Equal(t, "bob", payload.SenderName)
	assert.False(t, payload.IsOwn)
}

func TestPoller_BlockingReturnsOnContextCancel(t *testing.T) {
	e := newTestEngine(t)

	alice := e.seedUser(t, "alice")
	chanID := e.seedChannel(t, alice)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := e.poller.Poll(ctx, PollRequest{
		Scope:    models.Scope{ChannelID: chanID},
		ViewerID: alice,
		Blocking: true,
		Timeout:  2 * time.Second,
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNotifier_WakeClosesAllSubscribers(t *testing.T) {
	n := NewNotifier()
	scope := models.Scope{ChannelID: 1}

	ch1 := n.Subscribe(scope)
	ch2 := n.Subscribe(scope)
	other := n.Subscribe(models.Scope{ChannelID: 2})

	n.Wake(scope)

	select {
	case <-ch1:
	default:
		t.Fatal("ch1 kapatılmalıydı")
	}
	select {
	case <-ch2:
	default:
		t.Fatal("ch2 kapatılmalıydı")
	}
	select {
	case <-other:
		t.Fatal("başka scope'un kanalı uyandırılmamalıydı")
	default:
	}
}

func TestNotifier_WakeEmptyScopeIsNoop(t *testing.T) {
	n := NewNotifier()
	n.Wake(models.Scope{ChannelID: 99})
}
