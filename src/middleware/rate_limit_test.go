package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	limiter := newRateLimiter(3, time.Minute)

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.1"))
	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))
}

func TestRateLimiter_TracksClientsIndependently(t *testing.T) {
	limiter := newRateLimiter(1, time.Minute)

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))

	// a different IP has its own window
	assert.True(t, limiter.allow("10.0.0.2"))
}

func TestRateLimiter_WindowResets(t *testing.T) {
	limiter := newRateLimiter(1, 10*time.Millisecond)

	assert.True(t, limiter.allow("10.0.0.1"))
	assert.False(t, limiter.allow("10.0.0.1"))

	time.Sleep(15 * time.Millisecond)

	assert.True(t, limiter.allow("10.0.0.1"))
}
