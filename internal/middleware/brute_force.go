package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Default guard thresholds.
const (
	DefaultMaxFailures = 10
	DefaultFailWindow  = 15 * time.Minute
	DefaultLockout     = 5 * time.Minute

	bruteForceCleanup    = 60 * time.Second
	bruteForceMaxRecords = 10000
)

type failureRecord struct {
	attempts  int
	firstFail time.Time
	lockedAt  time.Time
}

// GuardConfig sets the failure threshold, the window failures are counted
// in and how long a key stays locked.
type GuardConfig struct {
	MaxFailures int
	Window      time.Duration
	Lockout     time.Duration
}

// BruteForceGuard counts failures per key (a client IP) and locks keys that
// exceed the threshold within the window. Keys are stored hashed.
type BruteForceGuard struct {
	mu      sync.Mutex
	records map[string]*failureRecord
	cfg     GuardConfig
	log     *logrus.Logger
}

// NewBruteForceGuard creates a guard and starts a cleanup goroutine that
// stops when ctx is cancelled. Zero config fields take the defaults.
func NewBruteForceGuard(ctx context.Context, cfg GuardConfig, log *logrus.Logger) *BruteForceGuard {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = DefaultMaxFailures
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultFailWindow
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = DefaultLockout
	}

	g := &BruteForceGuard{
		records: make(map[string]*failureRecord),
		cfg:     cfg,
		log:     log,
	}
	go g.cleanupLoop(ctx)

	return g
}

func keyHash(key string) string {
	h := sha256.Sum256([]byte(key))
	return hex.EncodeToString(h[:])
}

// IsBlocked reports whether key is currently locked out.
func (g *BruteForceGuard) IsBlocked(key string) bool {
	kh := keyHash(key)

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[kh]
	if !ok || rec.lockedAt.IsZero() {
		return false
	}

	return time.Now().Sub(rec.lockedAt) < g.cfg.Lockout
}

// RecordFailure counts one failure for key.
func (g *BruteForceGuard) RecordFailure(key string) {
	kh := keyHash(key)
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.records[kh]
	if !ok {
		rec = &failureRecord{firstFail: now}
		g.records[kh] = rec
	}

	if now.Sub(rec.firstFail) > g.cfg.Window {
		*rec = failureRecord{firstFail: now}
	}

	rec.attempts++
	if rec.attempts >= g.cfg.MaxFailures && rec.lockedAt.IsZero() {
		rec.lockedAt = now
		g.log.WithField("key_hash", kh[:16]+"...").Warn("client locked out after repeated failures")
	}
}

// Reset clears failure tracking for key.
func (g *BruteForceGuard) Reset(key string) {
	kh := keyHash(key)

	g.mu.Lock()
	delete(g.records, kh)
	g.mu.Unlock()
}

func (g *BruteForceGuard) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(bruteForceCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.sweep()
		}
	}
}

func (g *BruteForceGuard) sweep() {
	now := time.Now()

	g.mu.Lock()
	defer g.mu.Unlock()

	for k, rec := range g.records {
		expiredLock := !rec.lockedAt.IsZero() && now.Sub(rec.lockedAt) >= g.cfg.Lockout
		staleWindow := rec.lockedAt.IsZero() && now.Sub(rec.firstFail) >= g.cfg.Window
		if expiredLock || staleWindow {
			delete(g.records, k)
		}
	}

	if over := len(g.records) - bruteForceMaxRecords; over > 0 {
		g.evictOldest(over)
	}
}

// evictOldest removes the n records with the oldest first failure.
// Caller must hold g.mu.
func (g *BruteForceGuard) evictOldest(n int) {
	keys := make([]string, 0, len(g.records))
	for k := range g.records {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		return g.records[keys[i]].firstFail.Before(g.records[keys[j]].firstFail)
	})

	for _, k := range keys[:n] {
		delete(g.records, k)
	}
}

// BruteForceMiddleware blocks locked-out client IPs.
func BruteForceMiddleware(guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		if guard.IsBlocked(c.ClientIP()) {
			respondError(c, http.StatusTooManyRequests, "rate_limited", "too many failed attempts, try again later")
			return
		}

		c.Next()
	}
}

// Context keys shared between LookupGuard and the handlers behind it.
const (
	lookupMissKey    = "lookup_miss"
	lookupBlockedKey = "lookup_blocked"
)

// MarkLookupMiss records that the request named an employee ID that does not
// exist. Only marked requests count toward a LookupGuard lockout.
func MarkLookupMiss(c *gin.Context) { c.Set(lookupMissKey, true) }

// LookupBlocked reports whether the client IP is locked out. Handlers answer
// 429 instead of 404 for unknown IDs while it is set.
func LookupBlocked(c *gin.Context) bool { return c.GetBool(lookupBlockedKey) }

// LookupGuard counts unknown employee IDs per client IP. Requests from a
// locked-out IP still reach the handler so that employees whose IDs resolve
// can keep scanning on a shared kiosk; only further misses are refused.
func LookupGuard(guard *BruteForceGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if guard.IsBlocked(ip) {
			c.Set(lookupBlockedKey, true)
		}

		c.Next()

		if c.GetBool(lookupMissKey) {
			guard.RecordFailure(ip)
		}
	}
}
