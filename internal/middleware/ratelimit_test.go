package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 3, time.Minute)
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst should pass", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "request beyond burst should be rejected")
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(rate.Every(time.Hour), 1, time.Minute)
	defer rl.Stop()

	assert.True(t, rl.Allow("10.0.0.1"))
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"))
}
