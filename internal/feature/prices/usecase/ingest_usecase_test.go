package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock_dashboard/internal/feature/prices/domain/entity"
)

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	GetDailyHistoryFunc func(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error)
}

func (m *mockMarketRepository) GetDailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
	return m.GetDailyHistoryFunc(ctx, symbol, from, to)
}

// mockPriceTableWriter は保存されたテーブルを記録するモックです。
type mockPriceTableWriter struct {
	saved   []entity.PriceTable
	saveErr map[string]error
}

func (m *mockPriceTableWriter) Save(ctx context.Context, t entity.PriceTable) error {
	if err := m.saveErr[t.Symbol]; err != nil {
		return err
	}
	m.saved = append(m.saved, t)
	return nil
}

// mockRateLimiter はRateLimiterInterfaceのモック実装です。
type mockRateLimiter struct {
	calls   int
	failAt  int // 1始まり。0の場合は失敗しない
	waitErr error
}

func (m *mockRateLimiter) Wait(ctx context.Context) error {
	m.calls++
	if m.failAt > 0 && m.calls >= m.failAt {
		return m.waitErr
	}
	return nil
}

var fixedNow = time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC)

func candles(days ...int) []entity.Candle {
	out := make([]entity.Candle, len(days))
	for i, d := range days {
		out[i] = entity.Candle{
			Time:   time.Date(2024, 6, d, 0, 0, 0, 0, time.UTC),
			Open:   100,
			High:   110,
			Low:    90,
			Close:  105,
			Volume: 1000,
		}
	}
	return out
}

func newTestIngest(market MarketRepository, w PriceTableWriter, rl *mockRateLimiter, opts IngestOptions) *IngestUsecase {
	iu := NewIngestUsecase(market, w, rl, opts)
	iu.now = func() time.Time { return fixedNow }
	return iu
}

// TestIngestAll_Success は取得期間・ファイル名・保存内容を検証します。
func TestIngestAll_Success(t *testing.T) {
	t.Parallel()

	var gotFrom, gotTo time.Time
	market := &mockMarketRepository{
		GetDailyHistoryFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
			gotFrom, gotTo = from, to
			return candles(1, 2), nil
		},
	}
	w := &mockPriceTableWriter{}
	rl := &mockRateLimiter{}
	iu := newTestIngest(market, w, rl, IngestOptions{StripSuffixes: []string{".NS"}, Lookback: 30 * 24 * time.Hour})

	report, err := iu.IngestAll(context.Background(), []string{"TCS.NS", "AAPL"})

	require.NoError(t, err)
	assert.Equal(t, IngestReport{Saved: []string{"TCS", "AAPL"}}, report)
	assert.Equal(t, 2, rl.calls, "呼び出しごとにレート制限を待つ")
	assert.Equal(t, fixedNow, gotTo)
	assert.Equal(t, fixedNow.Add(-30*24*time.Hour), gotFrom)

	require.Len(t, w.saved, 2)
	assert.Equal(t, "TCS", w.saved[0].Symbol)
	assert.Equal(t, []string{"Date", "Open", "High", "Low", "Close", "Volume"}, w.saved[0].Columns)
	assert.Equal(t, []string{"2024-06-01", "100", "110", "90", "105", "1000"}, w.saved[0].Records[0])
}

// TestIngestAll_DefaultLookback はLookback未指定時に約1年分を取得することを検証します。
func TestIngestAll_DefaultLookback(t *testing.T) {
	t.Parallel()

	var gotFrom time.Time
	market := &mockMarketRepository{
		GetDailyHistoryFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
			gotFrom = from
			return candles(3), nil
		},
	}
	iu := newTestIngest(market, &mockPriceTableWriter{}, &mockRateLimiter{}, IngestOptions{})

	_, err := iu.IngestAll(context.Background(), []string{"INFY"})

	require.NoError(t, err)
	assert.Equal(t, fixedNow.Add(-DefaultLookback), gotFrom)
}

// TestIngestAll_EmptyFetchKeepsFile は空の結果で保存しないことを検証します。
func TestIngestAll_EmptyFetchKeepsFile(t *testing.T) {
	t.Parallel()

	market := &mockMarketRepository{
		GetDailyHistoryFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
			if symbol == "DELISTED.NS" {
				return nil, nil
			}
			return candles(3), nil
		},
	}
	w := &mockPriceTableWriter{}
	iu := newTestIngest(market, w, &mockRateLimiter{}, IngestOptions{StripSuffixes: []string{".NS"}})

	report, err := iu.IngestAll(context.Background(), []string{"DELISTED.NS", "INFY.NS"})

	require.NoError(t, err, "空の結果はエラーではない")
	assert.Equal(t, []string{"DELISTED.NS"}, report.Skipped)
	assert.Equal(t, []string{"INFY"}, report.Saved)
	require.Len(t, w.saved, 1)
	assert.Equal(t, "INFY", w.saved[0].Symbol)
}

// TestIngestAll_ContinuesAfterErrors は失敗しても残りの銘柄を処理し、エラーをまとめて返すことを検証します。
func TestIngestAll_ContinuesAfterErrors(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("upstream 500")
	saveErr := errors.New("disk full")
	market := &mockMarketRepository{
		GetDailyHistoryFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
			if symbol == "BAD" {
				return nil, fetchErr
			}
			return candles(4), nil
		},
	}
	w := &mockPriceTableWriter{saveErr: map[string]error{"FULL": saveErr}}
	iu := newTestIngest(market, w, &mockRateLimiter{}, IngestOptions{})

	report, err := iu.IngestAll(context.Background(), []string{"BAD", "FULL", "GOOD"})

	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
	assert.ErrorIs(t, err, saveErr)
	assert.Contains(t, err.Error(), "fetch BAD")
	assert.Contains(t, err.Error(), "save FULL")
	assert.Equal(t, []string{"BAD", "FULL"}, report.Failed)
	assert.Equal(t, []string{"GOOD"}, report.Saved)
}

// TestIngestAll_RateLimiterError はレート制限の待機が失敗した時点で中断することを検証します。
func TestIngestAll_RateLimiterError(t *testing.T) {
	t.Parallel()

	fetched := 0
	market := &mockMarketRepository{
		GetDailyHistoryFunc: func(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
			fetched++
			return candles(5), nil
		},
	}
	rl := &mockRateLimiter{failAt: 2, waitErr: context.Canceled}
	iu := newTestIngest(market, &mockPriceTableWriter{}, rl, IngestOptions{})

	report, err := iu.IngestAll(context.Background(), []string{"A", "B", "C"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fetched)
	assert.Equal(t, []string{"A"}, report.Saved)
}

// TestIngestAll_NoSymbols は銘柄がない場合に何もしないことを検証します。
func TestIngestAll_NoSymbols(t *testing.T) {
	t.Parallel()

	rl := &mockRateLimiter{}
	iu := newTestIngest(&mockMarketRepository{}, &mockPriceTableWriter{}, rl, IngestOptions{})

	report, err := iu.IngestAll(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, IngestReport{}, report)
	assert.Zero(t, rl.calls)
}
