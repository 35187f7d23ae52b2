package server

import (
	"sync"
	"time"

	"github.com/RednibCoding/mudden/internal/game"
)

// RateLimiter throttles account creation and failed logins per client IP.
// State is in-memory only; a restart resets it.
type RateLimiter struct {
	mu  sync.Mutex
	cfg game.RateLimit

	registrations map[string]*registrationInfo
	logins        map[string]*loginInfo
}

type registrationInfo struct {
	count      int
	timestamps []time.Time
}

type loginInfo struct {
	failures     []time.Time
	blockedUntil time.Time
}

// NewRateLimiter creates a limiter from the game config.
func NewRateLimiter(cfg game.RateLimit) *RateLimiter {
	return &RateLimiter{
		cfg:           cfg,
		registrations: make(map[string]*registrationInfo),
		logins:        make(map[string]*loginInfo),
	}
}

// CheckRegistration reports whether ip may create an account right now.
// The second return is the cooldown remaining when denied for pacing.
func (rl *RateLimiter) CheckRegistration(ip string, now time.Time) (ok bool, wait time.Duration, limited bool) {
	if !rl.cfg.Enabled {
		return true, 0, false
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info, exists := rl.registrations[ip]
	if !exists {
		return true, 0, false
	}
	if rl.cfg.MaxAccountsPerIP > 0 && info.count >= rl.cfg.MaxAccountsPerIP {
		return false, 0, true
	}
	cooldown := time.Duration(rl.cfg.AccountCreationCooldown) * time.Second
	if cooldown > 0 && len(info.timestamps) > 0 {
		last := info.timestamps[len(info.timestamps)-1]
		if since := now.Sub(last); since < cooldown {
			return false, cooldown - since, false
		}
	}
	return true, 0, false
}

// RecordRegistration counts a successful account creation for ip.
func (rl *RateLimiter) RecordRegistration(ip string, now time.Time) {
	if !rl.cfg.Enabled {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info := rl.registrations[ip]
	if info == nil {
		info = &registrationInfo{}
		rl.registrations[ip] = info
	}
	info.count++
	info.timestamps = append(info.timestamps, now)
}

// CheckLogin reports whether ip is currently blocked from logging in.
func (rl *RateLimiter) CheckLogin(ip string, now time.Time) (blocked bool, remaining time.Duration) {
	if !rl.cfg.Enabled {
		return false, 0
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info := rl.logins[ip]
	if info == nil {
		return false, 0
	}
	if now.Before(info.blockedUntil) {
		return true, info.blockedUntil.Sub(now)
	}
	return false, 0
}

// RecordLoginFailure counts a failed attempt; past the threshold the IP is
// blocked for the attempt window.
func (rl *RateLimiter) RecordLoginFailure(ip string, now time.Time) {
	if !rl.cfg.Enabled {
		return
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	info := rl.logins[ip]
	if info == nil {
		info = &loginInfo{}
		rl.logins[ip] = info
	}

	window := time.Duration(rl.cfg.LoginAttemptWindow) * time.Second
	kept := info.failures[:0]
	for _, t := range info.failures {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	info.failures = append(kept, now)

	if rl.cfg.MaxLoginAttempts > 0 && len(info.failures) >= rl.cfg.MaxLoginAttempts {
		info.blockedUntil = now.Add(window)
		info.failures = nil
	}
}

// RecordLoginSuccess clears the failure bucket for ip.
func (rl *RateLimiter) RecordLoginSuccess(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.logins, ip)
}

// Cleanup drops stale buckets; driven by the tick scheduler.
func (rl *RateLimiter) Cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	window := time.Duration(rl.cfg.LoginAttemptWindow) * time.Second
	for ip, info := range rl.logins {
		if now.After(info.blockedUntil) && (len(info.failures) == 0 || now.Sub(info.failures[len(info.failures)-1]) > window) {
			delete(rl.logins, ip)
		}
	}
	cooldown := time.Duration(rl.cfg.AccountCreationCooldown) * time.Second
	for ip, info := range rl.registrations {
		if rl.cfg.MaxAccountsPerIP > 0 && info.count >= rl.cfg.MaxAccountsPerIP {
			continue
		}
		if len(info.timestamps) > 0 && now.Sub(info.timestamps[len(info.timestamps)-1]) > cooldown {
			info.timestamps = nil
		}
	}
}
