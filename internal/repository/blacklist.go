package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenBlacklist is the revocation store consulted on every
// authenticated request.  Logout adds the presented token; the
// authentication middleware refuses any token found here even when its
// signature and expiry are otherwise valid.
type TokenBlacklist interface {
	// Revoke records a token hash until its own expiry makes the entry
	// moot.  A non-positive ttl means the token is already expired and
	// there is nothing to revoke.
	Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error
	// IsRevoked reports whether the token hash has been revoked.
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

const revokedKeyPrefix = "revoked:"

// RedisBlacklist stores revocations in Redis so every instance of the
// service observes a logout, not just the one that handled it.  Entries
// expire with the token itself, bounding the set's growth.
type RedisBlacklist struct{ rdb *redis.Client }

func NewRedisBlacklist(rdb *redis.Client) *RedisBlacklist { return &RedisBlacklist{rdb: rdb} }

func (b *RedisBlacklist) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.rdb.Set(ctx, revokedKeyPrefix+tokenHash, 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := b.rdb.Exists(ctx, revokedKeyPrefix+tokenHash).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// MemoryBlacklist is the in-process fallback used when Redis is not
// reachable at startup.  Revocations then only hold within this
// instance and do not survive a restart, which is acceptable for a
// single-node deployment and matches the surrounding degraded mode.
type MemoryBlacklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{entries: make(map[string]time.Time)}
}

func (b *MemoryBlacklist) Revoke(_ context.Context, tokenHash string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	b.mu.Lock()
	b.entries[tokenHash] = time.Now().UTC().Add(ttl)
	b.mu.Unlock()
	return nil
}

func (b *MemoryBlacklist) IsRevoked(_ context.Context, tokenHash string) (bool, error) {
	b.mu.RLock()
	exp, ok := b.entries[tokenHash]
	b.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if time.Now().UTC().After(exp) {
		// Entry outlived its token; drop it lazily.
		b.mu.Lock()
		delete(b.entries, tokenHash)
		b.mu.Unlock()
		return false, nil
	}
	return true, nil
}
