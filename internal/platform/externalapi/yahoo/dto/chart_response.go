// Package dto defines data transfer objects for the Yahoo Finance chart API responses.
package dto

// ChartResponse represents the JSON response from the v8 finance/chart endpoint.
// Price arrays contain nulls on non-trading days, hence the pointer elements.
type ChartResponse struct {
	Chart struct {
		Result []ChartResult `json:"result"`
		Error  *ChartError   `json:"error"`
	} `json:"chart"`
}

// ChartResult holds one symbol's series.
type ChartResult struct {
	Meta struct {
		Symbol   string `json:"symbol"`
		Currency string `json:"currency"`
		Timezone string `json:"exchangeTimezoneName"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*int64   `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// ChartError is returned by the API for unknown symbols and bad parameters.
type ChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
