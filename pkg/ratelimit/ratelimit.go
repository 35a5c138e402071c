// Package ratelimit 提供基于 Redis 的限流器，GCRA 算法，按 key 独立计数
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
)

// Result 单次限流判定结果
type Result struct {
	// 是否放行
	Allowed bool
	// 当前窗口剩余额度
	Remaining int
	// 额度完全恢复所需时间
	ResetAfter time.Duration
	// 建议的重试等待时间
	RetryAfter time.Duration
}

// RateLimiter 限流端口
type RateLimiter interface {
	// Allow 判定 key 对应的请求是否放行
	Allow(ctx context.Context, key string) (*Result, error)
}

// RedisRateLimiter 基于 redis_rate 的实现
// 速率与突发容量在构造时固定，运行期不可变
type RedisRateLimiter struct {
	limiter *redis_rate.Limiter
	limit   redis_rate.Limit
}

// NewRedisRateLimiter 创建限流器，qps 为每秒放行速率，burst 为突发容量
func NewRedisRateLimiter(rdb *redis.Client, qps, burst int) *RedisRateLimiter {
	return &RedisRateLimiter{
		limiter: redis_rate.NewLimiter(rdb),
		limit: redis_rate.Limit{
			Rate:   qps,
			Period: time.Second,
			Burst:  burst,
		},
	}
}

// Allow 判定请求是否放行
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	res, err := r.limiter.Allow(ctx, key, r.limit)
	if err != nil {
		return nil, fmt.Errorf("rate limit check failed: %w", err)
	}

	return &Result{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		ResetAfter: res.ResetAfter,
		RetryAfter: res.RetryAfter,
	}, nil
}
