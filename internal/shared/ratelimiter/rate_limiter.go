package ratelimiter

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	Wait(ctx context.Context) error
}

// RateLimiterは、一定期間あたりの呼び出し回数を制限します。
// limit が0以下の場合は制限しません。
type RateLimiter struct {
	limit     int           // interval あたりの上限
	interval  time.Duration // どの単位でリセットするか
	mu        sync.Mutex
	count     int
	lastReset time.Time
	now       func() time.Time
}

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:     limit,
		interval:  interval,
		lastReset: time.Now(),
		now:       time.Now,
	}
}

// PerMinute は1分あたり limit 回に制限するRateLimiterを生成します。
func PerMinute(limit int) *RateLimiter {
	return NewRateLimiter(limit, time.Minute)
}

// Waitはレートリミットの上限に達しているかを確認し、必要であれば待機します。
// 待機中にctxがキャンセルされた場合はctxのエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl.limit <= 0 || rl.interval <= 0 {
		return ctx.Err()
	}

	rl.mu.Lock()
	now := rl.now()
	// interval を過ぎたらカウントリセット
	if now.Sub(rl.lastReset) >= rl.interval {
		rl.count = 0
		rl.lastReset = now
	}
	rl.count++
	if rl.count <= rl.limit {
		rl.mu.Unlock()
		return nil
	}
	sleep := rl.interval - now.Sub(rl.lastReset)
	// リセット
	rl.count = 1
	rl.lastReset = now.Add(sleep)
	rl.mu.Unlock()

	if sleep <= 0 {
		return nil
	}
	slog.Info("rate limit reached, sleeping", "limit", rl.limit, "sleep", sleep)
	t := time.NewTimer(sleep)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
