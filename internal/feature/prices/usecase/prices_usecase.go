// Package usecase は株価テーブルの参照・集計・取り込みのビジネスロジックを実装します。
package usecase

import (
	"context"

	"stock_dashboard/internal/feature/prices/domain"
	"stock_dashboard/internal/feature/prices/domain/columns"
	"stock_dashboard/internal/feature/prices/domain/entity"
)

const (
	// DefaultRecentRows は直近データ取得時のデフォルト件数です。
	DefaultRecentRows = 30
	// MaxRecentRows は直近データ取得時の最大件数です。
	MaxRecentRows = 5000
)

// PriceTableReader は永続化された株価テーブルの読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceTableReader interface {
	// List は永続化済みテーブルの銘柄コード一覧を返します。
	List(ctx context.Context) ([]string, error)
	// Load は銘柄のテーブルを読み込みます。存在しない場合は domain.ErrNotFound を返します。
	Load(ctx context.Context, symbol string) (entity.PriceTable, error)
}

// PriceTableWriter はテーブルの全体上書きを抽象化します。
type PriceTableWriter interface {
	Save(ctx context.Context, t entity.PriceTable) error
}

// PriceTableRepository は読み書き両方を提供するリポジトリです。
type PriceTableRepository interface {
	PriceTableReader
	PriceTableWriter
}

// PricesUsecase は株価テーブルの参照系ユースケースです。
type PricesUsecase struct {
	tables PriceTableReader
}

// NewPricesUsecase はPricesUsecaseの新しいインスタンスを生成します。
func NewPricesUsecase(tables PriceTableReader) *PricesUsecase {
	return &PricesUsecase{tables: tables}
}

// ListCompanies は永続化済みテーブルを持つ銘柄コードの一覧を返します。
func (u *PricesUsecase) ListCompanies(ctx context.Context) ([]string, error) {
	return u.tables.List(ctx)
}

// GetRecent はテーブルの末尾n行をファイル上の順序のまま返します。
// nが0以下、または上限を超える場合はデフォルト値を使用します。
func (u *PricesUsecase) GetRecent(ctx context.Context, symbol string, n int) ([]entity.Row, error) {
	if n <= 0 || n > MaxRecentRows {
		n = DefaultRecentRows
	}
	t, err := u.tables.Load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return t.Tail(n), nil
}

// GetSummary は高値の最大・安値の最小・終値の平均をテーブル全体から計算します。
// 必要な列が解決できない場合は *domain.SchemaMismatchError を返します。
func (u *PricesUsecase) GetSummary(ctx context.Context, symbol string) (entity.Summary, error) {
	t, err := u.tables.Load(ctx, symbol)
	if err != nil {
		return entity.Summary{}, err
	}

	resolved, missing := columns.ResolveAll(t.Columns, columns.SummaryAliases)
	if len(missing) > 0 {
		return entity.Summary{}, schemaMismatch(t, missing)
	}

	high, err := reduce(t, resolved[columns.High], maxOf)
	if err != nil {
		return entity.Summary{}, err
	}
	low, err := reduce(t, resolved[columns.Low], minOf)
	if err != nil {
		return entity.Summary{}, err
	}
	avg, err := reduce(t, resolved[columns.Close], meanOf)
	if err != nil {
		return entity.Summary{}, err
	}

	return entity.Summary{Symbol: symbol, High: high, Low: low, AvgClose: avg}, nil
}

// Compare は2銘柄の終値平均を、呼び出し元が指定した銘柄文字列をキーとして返します。
// どちらかのテーブルが存在しない場合は domain.ErrNotFound を返します。
func (u *PricesUsecase) Compare(ctx context.Context, symbol1, symbol2 string) (entity.Comparison, error) {
	t1, err := u.tables.Load(ctx, symbol1)
	if err != nil {
		return nil, err
	}
	t2, err := u.tables.Load(ctx, symbol2)
	if err != nil {
		return nil, err
	}

	avg1, err := meanClose(t1)
	if err != nil {
		return nil, err
	}
	avg2, err := meanClose(t2)
	if err != nil {
		return nil, err
	}

	// 同じ銘柄を2回指定した場合は1キーにまとまる
	return entity.Comparison{symbol1: avg1, symbol2: avg2}, nil
}

func meanClose(t entity.PriceTable) (float64, error) {
	resolved, missing := columns.ResolveAll(t.Columns, columns.CompareAliases)
	if len(missing) > 0 {
		return 0, schemaMismatch(t, missing)
	}
	return reduce(t, resolved[columns.Close], meanOf)
}

func schemaMismatch(t entity.PriceTable, missing []columns.Field) error {
	fields := make([]string, len(missing))
	for i, f := range missing {
		fields[i] = string(f)
	}
	return &domain.SchemaMismatchError{
		Symbol:  t.Symbol,
		Missing: fields,
		Columns: t.LowerColumns(),
	}
}

func reduce(t entity.PriceTable, column string, fn func([]float64) float64) (float64, error) {
	vals, ok := t.Numbers(column)
	if !ok || len(vals) == 0 {
		return 0, &domain.NoNumericDataError{Symbol: t.Symbol, Column: column}
	}
	return fn(vals), nil
}

func maxOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(vs []float64) float64 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func meanOf(vs []float64) float64 {
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
