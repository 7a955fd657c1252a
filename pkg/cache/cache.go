// Package cache is a thin JSON layer over Redis. It fails soft on
// purpose: a miss, a dead Redis, and a decode error all read as "not
// cached", so callers fall through to the real store instead of erroring
// the request.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rishavanand/bazario/config"
)

// RDB is the shared client; the queue's Redis driver reuses it. Nil until
// Connect, and every helper tolerates nil.
var RDB *redis.Client

// Connect builds the client. go-redis dials lazily, so a Redis that is
// down at boot just turns the cache off rather than crashing the server.
func Connect() {
	RDB = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
}

// Get decodes the cached value at key into dest, reporting whether it hit.
func Get(ctx context.Context, key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set caches value under key for ttl.
func Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RDB.Set(ctx, key, raw, ttl).Err()
}

// Forget invalidates keys, e.g. the category list after a write.
func Forget(ctx context.Context, keys ...string) {
	if RDB == nil || len(keys) == 0 {
		return
	}
	RDB.Del(ctx, keys...)
}

// Ping reports Redis reachability for /health.
func Ping(ctx context.Context) error {
	if RDB == nil {
		return fmt.Errorf("cache: not connected")
	}
	return RDB.Ping(ctx).Err()
}
