package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPollRateLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewPollRateLimiter(3, time.Minute)
	defer l.Close()

	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1), "limit dolunca reddedilmeli")
}

func TestPollRateLimiter_PerUser(t *testing.T) {
	l := NewPollRateLimiter(1, time.Minute)
	defer l.Close()

	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2), "bir kullanıcının limiti diğerini etkilememeli")
}

func TestPollRateLimiter_WindowResets(t *testing.T) {
	l := NewPollRateLimiter(1, 40*time.Millisecond)
	defer l.Close()

	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))

	time.Sleep(60 * time.Millisecond)

	assert.True(t, l.Allow(1), "pencere dolunca sayaç sıfırlanmalı")
}
