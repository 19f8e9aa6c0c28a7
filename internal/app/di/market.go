// Package di provides dependency injection factories for creating application components.
package di

import (
	"fmt"

	"stock_dashboard/internal/config"
	"stock_dashboard/internal/feature/prices/usecase"
	"stock_dashboard/internal/platform/externalapi/twelvedata"
	"stock_dashboard/internal/platform/externalapi/yahoo"
	infrahttp "stock_dashboard/internal/platform/http"
	"stock_dashboard/internal/shared/ratelimiter"
)

// NewMarket creates the configured market-data provider with its HTTP client.
func NewMarket(cfg *config.Config) (usecase.MarketRepository, error) {
	httpClient := infrahttp.NewHTTPClient(cfg.Ingest.Timeout)

	switch cfg.Ingest.Provider {
	case config.ProviderYahoo:
		return yahoo.NewYahooMarket(yahoo.Config{
			BaseURL: cfg.Yahoo.BaseURL,
		}, httpClient), nil
	case config.ProviderTwelveData:
		return twelvedata.NewTwelveDataMarket(twelvedata.Config{
			TwelveDataAPIKey: cfg.TwelveData.APIKey,
			BaseURL:          cfg.TwelveData.BaseURL,
		}, httpClient), nil
	default:
		return nil, fmt.Errorf("unknown market provider %q", cfg.Ingest.Provider)
	}
}

// NewRateLimiter limits provider calls per minute. A non-positive limit disables limiting.
func NewRateLimiter(cfg *config.Config) *ratelimiter.RateLimiter {
	return ratelimiter.PerMinute(cfg.Ingest.RequestsPerMinute)
}
