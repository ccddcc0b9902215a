package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultTTL = 60 * time.Second

// Tracker keeps a TTL heartbeat key per connected user in redis. A user
// is "online" while at least one of their websocket connections keeps
// refreshing the key.
type Tracker struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client) *Tracker {
	return &Tracker{rdb: rdb, ttl: defaultTTL}
}

func key(userID uint) string {
	return fmt.Sprintf("presence:user:%d", userID)
}

func (t *Tracker) Heartbeat(ctx context.Context, userID uint) error {
	return t.rdb.Set(ctx, key(userID), "1", t.ttl).Err()
}

func (t *Tracker) Clear(ctx context.Context, userID uint) error {
	return t.rdb.Del(ctx, key(userID)).Err()
}

func (t *Tracker) Online(ctx context.Context, userID uint) (bool, error) {
	n, err := t.rdb.Exists(ctx, key(userID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// OnlineSet resolves presence for a batch of users in one round trip.
func (t *Tracker) OnlineSet(ctx context.Context, userIDs []uint) (map[uint]bool, error) {
	out := make(map[uint]bool, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	pipe := t.rdb.Pipeline()
	cmds := make(map[uint]*redis.IntCmd, len(userIDs))
	for _, id := range userIDs {
		cmds[id] = pipe.Exists(ctx, key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, err
	}

	for id, cmd := range cmds {
		out[id] = cmd.Val() > 0
	}
	return out, nil
}
