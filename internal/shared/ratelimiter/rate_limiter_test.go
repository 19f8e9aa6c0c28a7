package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimiter_Disabled は上限0以下の場合に待機しないことを検証します。
func TestRateLimiter_Disabled(t *testing.T) {
	t.Parallel()

	rl := PerMinute(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}

// TestRateLimiter_WithinLimit は上限内の呼び出しが即座に返ることを検証します。
func TestRateLimiter_WithinLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(3, time.Hour)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestRateLimiter_WaitsWhenExceeded は上限を超えた呼び出しが次の区間まで待機することを検証します。
func TestRateLimiter_WaitsWhenExceeded(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(2, 200*time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, rl.Wait(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 150*time.Millisecond)
}

// TestRateLimiter_ResetsAfterInterval は区間経過後にカウントがリセットされることを検証します。
func TestRateLimiter_ResetsAfterInterval(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.lastReset = now
	rl.now = func() time.Time { return now }

	require.NoError(t, rl.Wait(context.Background()))

	// 1分経過したので待機せずに通る
	now = now.Add(time.Minute)
	start := time.Now()
	require.NoError(t, rl.Wait(context.Background()))
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

// TestRateLimiter_ContextCanceledWhileWaiting は待機中のキャンセルでエラーが返ることを検証します。
func TestRateLimiter_ContextCanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Hour)
	require.NoError(t, rl.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := rl.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
