package ratelimit

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Actions a session is throttled on.
const (
	ActionFrame  = "ws_frame"
	ActionNotify = "notify"
)

// Rule is a token bucket: one token every Every, at most Burst saved up.
type Rule struct {
	Every time.Duration
	Burst int
}

var defaultRules = map[string]Rule{
	ActionFrame:  {Every: 200 * time.Millisecond, Burst: 10},
	ActionNotify: {Every: 3 * time.Second, Burst: 10},
}

var fallbackRule = Rule{Every: 3 * time.Second, Burst: 20}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles actions per session and action.
type RateLimiter struct {
	buckets map[string]*bucket
	rules   map[string]Rule
	mutex   sync.Mutex
	now     func() time.Time
}

func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		rules:   defaultRules,
		now:     time.Now,
	}
}

// WithRule returns a limiter that uses rule for action.
func (rl *RateLimiter) WithRule(action string, rule Rule) *RateLimiter {
	rules := make(map[string]Rule, len(rl.rules)+1)
	for k, v := range rl.rules {
		rules[k] = v
	}
	rules[action] = rule
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.rules = rules
	return rl
}

// Allow consumes a token for the session's action. When none is left it
// reports how long until the next one.
func (rl *RateLimiter) Allow(sessionID, action string) (bool, time.Duration) {
	now := rl.now()
	key := sessionID + ":" + action

	rl.mutex.Lock()
	b, ok := rl.buckets[key]
	if !ok {
		rule, found := rl.rules[action]
		if !found {
			rule = fallbackRule
		}
		b = &bucket{limiter: rate.NewLimiter(rate.Every(rule.Every), rule.Burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = now
	rl.mutex.Unlock()

	reservation := b.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, 0
	}
	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Forget drops every bucket of the session.
func (rl *RateLimiter) Forget(sessionID string) {
	prefix := sessionID + ":"
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	for key := range rl.buckets {
		if strings.HasPrefix(key, prefix) {
			delete(rl.buckets, key)
		}
	}
}

// Cleanup removes buckets idle for longer than idle.
func (rl *RateLimiter) Cleanup(idle time.Duration) {
	now := rl.now()
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > idle {
			delete(rl.buckets, key)
		}
	}
}

// StartCleanupRoutine sweeps idle buckets every interval until ctx ends.
func (rl *RateLimiter) StartCleanupRoutine(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (rl *RateLimiter) size() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return len(rl.buckets)
}
