package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

func NewClient(cfg Config) *goredis.Client {
	return goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// SessionCache keeps a secret-to-user mapping so hot requests skip the
// token row lookup. The database stays authoritative; entries expire on
// their own and are dropped eagerly on logout.
type SessionCache struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewSessionCache(client *goredis.Client, ttl time.Duration) *SessionCache {
	return &SessionCache{client: client, ttl: ttl}
}

func sessionKey(secret string) string {
	return fmt.Sprintf("session:%s", secret)
}

// Get returns the cached user id for a secret; ok is false on a miss.
func (c *SessionCache) Get(ctx context.Context, secret string) (int16, bool, error) {
	if c == nil || c.client == nil {
		return 0, false, nil
	}
	val, err := c.client.Get(ctx, sessionKey(secret)).Result()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 16)
	if err != nil {
		return 0, false, err
	}
	return int16(id), true, nil
}

func (c *SessionCache) Set(ctx context.Context, secret string, userID int16) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Set(ctx, sessionKey(secret), strconv.FormatInt(int64(userID), 10), c.ttl).Err()
}

func (c *SessionCache) Delete(ctx context.Context, secret string) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Del(ctx, sessionKey(secret)).Err()
}
