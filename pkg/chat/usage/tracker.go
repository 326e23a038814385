package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Tracker counts chat turns per user per day in redis. A nil client or a
// non-positive limit disables enforcement entirely, so redis stays optional.
type Tracker struct {
	client *redis.Client
	limit  int
}

func NewTracker(client *redis.Client, limit int) *Tracker {
	return &Tracker{client: client, limit: limit}
}

// Consume records one turn and reports whether the user is still within the
// daily limit. Redis failures are treated as allowed; usage limiting is a
// guardrail, not a gate on availability.
func (t *Tracker) Consume(ctx context.Context, userId uuid.UUID) (bool, error) {
	if t.client == nil || t.limit <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("chat:turns:%s:%s", userId.String(), time.Now().UTC().Format("2006-01-02"))
	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		t.client.Expire(ctx, key, 24*time.Hour)
	}
	return count <= int64(t.limit), nil
}
