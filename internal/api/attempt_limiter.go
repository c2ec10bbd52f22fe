package api

import (
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// loginThrottle remembers failed logins per key and blocks a key once it
// reaches limit failures inside the trailing window.
type loginThrottle struct {
	limit  int
	window time.Duration

	mu       sync.Mutex
	failures map[string][]time.Time
}

func newLoginThrottle(limit int, window time.Duration) *loginThrottle {
	if limit <= 0 {
		limit = defaultLoginAttemptsLimit
	}
	if window <= 0 {
		window = defaultLoginAttemptsWindow
	}
	return &loginThrottle{
		limit:    limit,
		window:   window,
		failures: make(map[string][]time.Time),
	}
}

// blocked reports whether key is locked out at now and, if so, how long
// until its oldest counted failure leaves the window.
func (throttle *loginThrottle) blocked(key string, now time.Time) (bool, time.Duration) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	recent := throttle.recentLocked(key, now)
	if len(recent) < throttle.limit {
		return false, 0
	}
	oldest := recent[len(recent)-throttle.limit]
	return true, oldest.Add(throttle.window).Sub(now)
}

func (throttle *loginThrottle) recordFailure(key string, now time.Time) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()

	throttle.failures[key] = append(throttle.recentLocked(key, now), now)
}

func (throttle *loginThrottle) clear(key string) {
	throttle.mu.Lock()
	defer throttle.mu.Unlock()
	delete(throttle.failures, key)
}

func (throttle *loginThrottle) recentLocked(key string, now time.Time) []time.Time {
	stored := throttle.failures[key]
	if len(stored) == 0 {
		return nil
	}

	threshold := now.Add(-throttle.window)
	recent := stored[:0]
	for _, failedAt := range stored {
		if failedAt.After(threshold) {
			recent = append(recent, failedAt)
		}
	}
	if len(recent) == 0 {
		delete(throttle.failures, key)
		return nil
	}
	throttle.failures[key] = recent
	return recent
}

// loginThrottleKey combines the client address with the submitted login so a
// single client cannot lock out every account.
func loginThrottleKey(c *fiber.Ctx, login string) string {
	address := strings.TrimSpace(c.IP())
	if address == "" {
		address = "unknown"
	}
	return address + "|" + strings.ToLower(strings.TrimSpace(login))
}

// retryAfterSeconds rounds up so clients never retry a moment too early.
func retryAfterSeconds(wait time.Duration) int {
	if wait <= 0 {
		return 1
	}
	return int(math.Ceil(wait.Seconds()))
}
