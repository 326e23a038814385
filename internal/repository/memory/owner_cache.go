package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SessionOwnerCache remembers which user owns which session so the hot read
// paths can skip the ownership lookup. The database stays the source of
// truth; a miss just falls back to a query.
type SessionOwnerCache struct {
	cache *cache.Cache
}

func NewSessionOwnerCache() *SessionOwnerCache {
	// Entries expire after an hour, expired items are purged every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionOwnerCache{
		cache: c,
	}
}

func (r *SessionOwnerCache) Save(sessionId, userId uuid.UUID) {
	r.cache.Set(sessionId.String(), userId, cache.DefaultExpiration)
}

func (r *SessionOwnerCache) Get(sessionId uuid.UUID) (uuid.UUID, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(uuid.UUID), true
	}
	return uuid.Nil, false
}

func (r *SessionOwnerCache) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
}
