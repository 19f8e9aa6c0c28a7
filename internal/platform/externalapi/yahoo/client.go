package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
	// exchangeTimezoneName must resolve in minimal containers
	_ "time/tzdata"

	"github.com/go-resty/resty/v2"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
	"stock_dashboard/internal/platform/externalapi/yahoo/dto"
)

const defaultUserAgent = "Mozilla/5.0"

// YahooMarket はYahoo Financeのチャート APIから日足を取得するMarketRepository実装です。
type YahooMarket struct {
	cfg    Config
	client *resty.Client
}

// YahooMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*YahooMarket)(nil)

// NewYahooMarket は指定されたHTTPクライアントを使うYahooMarketを生成します。
func NewYahooMarket(cfg Config, hc *http.Client) *YahooMarket {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	c := resty.NewWithClient(hc).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")
	return &YahooMarket{cfg: cfg, client: c}
}

// GetDailyHistory は [from, to] の日足を取得し、日付の昇順で返します。
// 銘柄が存在しない場合は空のスライスを返します。
func (y *YahooMarket) GetDailyHistory(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
	res, err := y.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"period1":              strconv.FormatInt(from.Unix(), 10),
			"period2":              strconv.FormatInt(to.Unix(), 10),
			"interval":             "1d",
			"events":               "div,split",
			"includeAdjustedClose": "true",
		}).
		Get(y.cfg.BaseURL + "/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}

	var body dto.ChartResponse
	decodeErr := json.Unmarshal(res.Body(), &body)

	// 存在しない銘柄は404とエラー本文で返る
	if res.StatusCode() == http.StatusNotFound && decodeErr == nil && body.Chart.Error != nil {
		return []entity.Candle{}, nil
	}
	if res.IsError() {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode())
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("yahoo decode: %w", decodeErr)
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return []entity.Candle{}, nil
	}

	return toCandles(body.Chart.Result[0])
}

func toCandles(r dto.ChartResult) ([]entity.Candle, error) {
	if len(r.Timestamp) == 0 || len(r.Indicators.Quote) == 0 {
		return []entity.Candle{}, nil
	}
	q := r.Indicators.Quote[0]
	n := len(r.Timestamp)
	if len(q.Open) != n || len(q.High) != n || len(q.Low) != n || len(q.Close) != n {
		return nil, fmt.Errorf("yahoo: quote length mismatch for %d timestamps", n)
	}

	var adj []*float64
	if len(r.Indicators.AdjClose) > 0 && len(r.Indicators.AdjClose[0].AdjClose) == n {
		adj = r.Indicators.AdjClose[0].AdjClose
	}

	loc := time.UTC
	if r.Meta.Timezone != "" {
		if l, err := time.LoadLocation(r.Meta.Timezone); err == nil {
			loc = l
		}
	}

	candles := make([]entity.Candle, 0, n)
	for i, ts := range r.Timestamp {
		// 休場日などは価格がnullになる
		if q.Open[i] == nil || q.High[i] == nil || q.Low[i] == nil || q.Close[i] == nil {
			continue
		}
		// 取引所のローカル日付で日付列を作る
		local := time.Unix(ts, 0).In(loc)
		c := entity.Candle{
			Time:  time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
			Open:  *q.Open[i],
			High:  *q.High[i],
			Low:   *q.Low[i],
			Close: *q.Close[i],
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			c.Volume = *q.Volume[i]
		}
		if adj != nil && adj[i] != nil {
			v := *adj[i]
			c.AdjClose = &v
		}
		candles = append(candles, c)
	}
	return candles, nil
}
