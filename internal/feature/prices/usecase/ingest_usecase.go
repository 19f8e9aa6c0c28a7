package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/shared/ratelimiter"
)

// DefaultLookback は1回の取り込みで取得する期間（約1年分の日足）です。
const DefaultLookback = 365 * 24 * time.Hour

// MarketRepository は外部の株価データAPIを抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	// GetDailyHistory は [from, to] の日足を日付の昇順で返します。
	GetDailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error)
}

// IngestOptions は取り込み処理の設定です。
type IngestOptions struct {
	// StripSuffixes はプロバイダー用のキーからファイル名を作る際に取り除く市場サフィックスです（例: ".NS"）。
	StripSuffixes []string
	// Lookback は取得期間です。0の場合は DefaultLookback を使用します。
	Lookback time.Duration
}

// IngestReport は1回の IngestAll の結果です。
type IngestReport struct {
	Saved   []string // 保存したファイルのステム
	Skipped []string // 空の結果のためスキップしたプロバイダーキー
	Failed  []string // エラーになったプロバイダーキー
}

// IngestUsecase は外部APIから日足を取得し、銘柄ごとのCSVを丸ごと上書きするユースケースです。
type IngestUsecase struct {
	market      MarketRepository
	tables      PriceTableWriter
	rateLimiter ratelimiter.RateLimiterInterface
	opts        IngestOptions
	now         func() time.Time
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, tables PriceTableWriter, rateLimiter ratelimiter.RateLimiterInterface, opts IngestOptions) *IngestUsecase {
	if opts.Lookback <= 0 {
		opts.Lookback = DefaultLookback
	}
	return &IngestUsecase{
		market:      market,
		tables:      tables,
		rateLimiter: rateLimiter,
		opts:        opts,
		now:         time.Now,
	}
}

// ingestOne は1銘柄分の日足を取得して保存し、保存したファイルのステムを返します。
// 取得結果が空の場合は domain.ErrEmptyFetch を返し、既存ファイルには触れません。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string) (string, error) {
	to := iu.now()
	from := to.Add(-iu.opts.Lookback)

	cs, err := iu.market.GetDailyHistory(ctx, symbol, from, to)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if len(cs) == 0 {
		return "", domain.ErrEmptyFetch
	}

	stem := domain.FileStem(symbol, iu.opts.StripSuffixes)
	if err := iu.tables.Save(ctx, entity.TableFromCandles(stem, cs)); err != nil {
		return "", fmt.Errorf("save %s: %w", stem, err)
	}
	return stem, nil
}

// IngestAll は指定された全銘柄を順番に取り込みます。
// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の銘柄へ進みます。
// 失敗した銘柄のエラーはまとめて返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) (IngestReport, error) {
	var (
		report IngestReport
		errs   []error
	)
	for _, s := range symbols {
		if err := iu.rateLimiter.Wait(ctx); err != nil {
			return report, errors.Join(append(errs, err)...)
		}

		slog.Info("fetching price history", "symbol", s)
		stem, err := iu.ingestOne(ctx, s)
		switch {
		case errors.Is(err, domain.ErrEmptyFetch):
			slog.Warn("no data found, keeping existing file", "symbol", s)
			report.Skipped = append(report.Skipped, s)
		case err != nil:
			slog.Error("failed to ingest price history", "symbol", s, "error", err)
			report.Failed = append(report.Failed, s)
			errs = append(errs, err)
		default:
			slog.Info("saved price table", "symbol", s, "file", stem)
			report.Saved = append(report.Saved, stem)
		}
	}
	return report, errors.Join(errs...)
}
