package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
)

// Redis backs PlanCache with a shared Redis instance so replicas see each
// other's results. Results are stored as JSON.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

var _ PlanCache = (*Redis)(nil)

func NewRedis(addr string, ttl time.Duration) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (r *Redis) Get(ctx context.Context, key string) (loan.Result, bool) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		// redis.Nil and transport errors both degrade to a miss.
		return loan.Result{}, false
	}
	res, err := decodeResult([]byte(val))
	if err != nil {
		return loan.Result{}, false
	}
	return res, true
}

func (r *Redis) Set(ctx context.Context, key string, res loan.Result) error {
	b, err := encodeResult(res)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, b, r.ttl).Err()
}

func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
