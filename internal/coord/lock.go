// Package coord implements short-TTL mutual exclusion over Redis. It backs
// the per-trip/per-booking critical sections that ALLOC, WLM, and BV use to
// linearise booking, cancellation, and boarding-scan requests ahead of the
// authoritative IDS transaction. The lock primitive follows the same
// "Lua script mutates state atomically" idiom as the teacher's token-bucket
// rate limiter (internal/middleware/ratelimit.go): acquisition is a single
// SET NX PX, release is a compare-and-delete script so a worker can never
// drop a lock it no longer owns.
package coord

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when a lock could not be acquired because
// another holder currently owns it.
var ErrUnavailable = errors.New("lock unavailable")

// ErrNotConfigured is returned when Acquire is called on a Locker with no
// live Redis client. COORD is load-bearing for booking correctness (unlike
// the teacher's rate limiter and cache middleware), so a missing client
// must fail the caller rather than silently grant every lock.
var ErrNotConfigured = errors.New("coord: not configured")

// DefaultTTL is the lock lifetime mandated by spec.md §5 for book/cancel/scan
// exclusion tokens.
const DefaultTTL = 30 * time.Second

// releaseScript deletes key only if its value still matches the token this
// worker wrote, so a lock that outlived its TTL and was re-acquired by
// someone else is never stolen back.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// Locker acquires and releases short-lived named locks backed by a Redis
// client. Unlike the teacher's rate limiter and cache middleware, which
// disable themselves rather than fail requests when Redis is unreachable at
// startup, COORD is load-bearing for booking correctness: a nil client
// makes every Acquire call fail with ErrNotConfigured instead of degrading
// to a no-op success.
type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewLocker constructs a Locker. A nil rdb is accepted so the zero value is
// safe to wire during startup before a Redis connection is confirmed.
func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{rdb: rdb, ttl: DefaultTTL}
}

// Configured reports whether a live Redis client backs this locker.
func (l *Locker) Configured() bool { return l.rdb != nil }

// Handle represents an acquired lock; Release must be called exactly once,
// typically via defer, to guarantee release-on-exit per spec.md §5.
type Handle struct {
	key   string
	token string
	l     *Locker
}

// Acquire attempts to take the named lock (e.g. "book:42") with the
// package's default TTL. It returns ErrUnavailable immediately if the lock
// is currently held; callers must not block/retry per spec.md (CONCURRENT_REQUEST
// is a caller-visible, non-silently-retried failure).
func (l *Locker) Acquire(ctx context.Context, key string) (*Handle, error) {
	if l.rdb == nil {
		return nil, ErrNotConfigured
	}
	token, err := randomToken()
	if err != nil {
		return nil, err
	}
	ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnavailable
	}
	return &Handle{key: key, token: token, l: l}, nil
}

// Release drops the lock if this handle still owns it. Safe to call on a
// lock whose TTL already expired: the compare-and-delete script simply
// finds a mismatch and does nothing.
func (h *Handle) Release(ctx context.Context) error {
	if h == nil || h.l == nil || h.l.rdb == nil {
		return nil
	}
	return releaseScript.Run(ctx, h.l.rdb, []string{h.key}, h.token).Err()
}

func randomToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
