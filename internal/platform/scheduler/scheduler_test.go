package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScheduler_Register は有効・無効なスケジュールの登録を検証します。
func TestScheduler_Register(t *testing.T) {
	t.Parallel()

	s := NewScheduler(context.Background())

	require.NoError(t, s.Register("ingest", "0 0 8 * * 1-5", func(context.Context) {}))
	require.NoError(t, s.Register("five-field", "30 7 * * *", func(context.Context) {}))
	assert.Equal(t, 2, s.Len())

	err := s.Register("bad", "every day", func(context.Context) {})
	assert.ErrorContains(t, err, "register bad task")
	assert.Equal(t, 2, s.Len())
}

// TestScheduler_RunsJob は秒指定のスケジュールでジョブが実行されることを検証します。
func TestScheduler_RunsJob(t *testing.T) {
	t.Parallel()

	s := NewScheduler(context.Background())
	var runs atomic.Int32
	require.NoError(t, s.Register("tick", "* * * * * *", func(context.Context) {
		runs.Add(1)
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)
}

// TestScheduler_StopCancelsJobContext は停止時に実行中ジョブのコンテキストがキャンセルされることを検証します。
func TestScheduler_StopCancelsJobContext(t *testing.T) {
	t.Parallel()

	s := NewScheduler(context.Background())
	started := make(chan struct{})
	var canceled atomic.Bool
	require.NoError(t, s.Register("long", "* * * * * *", func(ctx context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-ctx.Done()
		canceled.Store(true)
	}))

	s.Start()
	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not start")
	}

	s.Stop()
	assert.True(t, canceled.Load(), "Stop should wait for the job to observe cancellation")
}
