package queue

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisDriver keeps the queue in Redis so jobs survive restarts and can be
// shared by several worker processes. Ready jobs live on a list; delayed
// jobs wait in a sorted set scored by their due time and are promoted by a
// background ticker.
type RedisDriver struct {
	rdb *redis.Client

	readyKey   string
	delayedKey string
}

// NewRedisDriver wraps the application's Redis client (the same one
// pkg/cache connects).
func NewRedisDriver(rdb *redis.Client) *RedisDriver {
	d := &RedisDriver{
		rdb:        rdb,
		readyKey:   "bazario:queue:jobs",
		delayedKey: "bazario:queue:delayed",
	}
	go d.promote()
	return d
}

func (d *RedisDriver) Push(payload []byte) error {
	if err := d.rdb.LPush(context.Background(), d.readyKey, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

// Pop blocks up to five seconds for a ready job; a timeout returns
// (nil, nil) so workers just loop.
func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	res, err := d.rdb.BRPop(ctx, 5*time.Second, d.readyKey).Result()
	switch {
	case err == redis.Nil:
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	case len(res) < 2:
		return nil, nil
	}
	return []byte(res[1]), nil
}

// PushDelayed parks payload until its due time.
func (d *RedisDriver) PushDelayed(payload []byte, delay time.Duration) error {
	member := redis.Z{
		Score:  float64(time.Now().Add(delay).Unix()),
		Member: string(payload),
	}
	if err := d.rdb.ZAdd(context.Background(), d.delayedKey, member).Err(); err != nil {
		return fmt.Errorf("queue/redis: push delayed: %w", err)
	}
	return nil
}

// promote moves due delayed jobs onto the ready list once per second.
func (d *RedisDriver) promote() {
	tick := time.NewTicker(time.Second)
	defer tick.Stop()

	for now := range tick.C {
		ctx := context.Background()
		due, err := d.rdb.ZRangeByScore(ctx, d.delayedKey, &redis.ZRangeBy{
			Min: "-inf",
			Max: strconv.FormatInt(now.Unix(), 10),
		}).Result()
		if err != nil || len(due) == 0 {
			continue
		}

		pipe := d.rdb.Pipeline()
		for _, payload := range due {
			pipe.ZRem(ctx, d.delayedKey, payload)
			pipe.LPush(ctx, d.readyKey, []byte(payload))
		}
		pipe.Exec(ctx) //nolint:errcheck
	}
}
