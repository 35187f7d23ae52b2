package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RednibCoding/mudden/internal/game"
)

func limiterConfig() game.RateLimit {
	return game.RateLimit{
		Enabled:                 true,
		MaxAccountsPerIP:        2,
		AccountCreationCooldown: 60,
		LoginAttemptWindow:      300,
		MaxLoginAttempts:        3,
	}
}

func TestRegistrationCooldown(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	ok, _, _ := rl.CheckRegistration("1.2.3.4", now)
	require.True(t, ok)
	rl.RecordRegistration("1.2.3.4", now)

	ok, wait, limited := rl.CheckRegistration("1.2.3.4", now.Add(10*time.Second))
	assert.False(t, ok)
	assert.False(t, limited)
	assert.Positive(t, wait)

	ok, _, _ = rl.CheckRegistration("1.2.3.4", now.Add(61*time.Second))
	assert.True(t, ok)
}

func TestRegistrationAccountCap(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	rl.RecordRegistration("1.2.3.4", now)
	rl.RecordRegistration("1.2.3.4", now.Add(2*time.Minute))

	ok, _, limited := rl.CheckRegistration("1.2.3.4", now.Add(time.Hour))
	assert.False(t, ok)
	assert.True(t, limited, "cap applies regardless of cooldown")

	// Other addresses are unaffected.
	ok, _, _ = rl.CheckRegistration("5.6.7.8", now.Add(time.Hour))
	assert.True(t, ok)
}

func TestLoginLockout(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	for i := 0; i < 3; i++ {
		blocked, _ := rl.CheckLogin("1.2.3.4", now)
		require.False(t, blocked)
		rl.RecordLoginFailure("1.2.3.4", now)
	}

	blocked, remaining := rl.CheckLogin("1.2.3.4", now)
	assert.True(t, blocked)
	assert.Positive(t, remaining)

	// The block expires with the window.
	blocked, _ = rl.CheckLogin("1.2.3.4", now.Add(301*time.Second))
	assert.False(t, blocked)
}

func TestLoginSuccessClearsFailures(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	rl.RecordLoginFailure("1.2.3.4", now)
	rl.RecordLoginFailure("1.2.3.4", now)
	rl.RecordLoginSuccess("1.2.3.4")
	rl.RecordLoginFailure("1.2.3.4", now)

	blocked, _ := rl.CheckLogin("1.2.3.4", now)
	assert.False(t, blocked, "success resets the failure count")
}

func TestStaleFailuresDropOut(t *testing.T) {
	rl := NewRateLimiter(limiterConfig())
	now := time.Now()

	rl.RecordLoginFailure("1.2.3.4", now)
	rl.RecordLoginFailure("1.2.3.4", now)
	rl.RecordLoginFailure("1.2.3.4", now.Add(310*time.Second))

	blocked, _ := rl.CheckLogin("1.2.3.4", now.Add(310*time.Second))
	assert.False(t, blocked, "failures outside the window don't count")
}

func TestDisabledLimiter(t *testing.T) {
	cfg := limiterConfig()
	cfg.Enabled = false
	rl := NewRateLimiter(cfg)
	now := time.Now()

	for i := 0; i < 10; i++ {
		rl.RecordLoginFailure("1.2.3.4", now)
		rl.RecordRegistration("1.2.3.4", now)
	}
	blocked, _ := rl.CheckLogin("1.2.3.4", now)
	assert.False(t, blocked)
	ok, _, _ := rl.CheckRegistration("1.2.3.4", now)
	assert.True(t, ok)
}
