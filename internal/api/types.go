// Package api defines the JSON request and response bodies of the HTTP API.
package api

// ErrorResponse is returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain message body.
type MessageResponse struct {
	Message string `json:"message"`
}

// CompaniesResponse lists the symbols that have a persisted price table.
type CompaniesResponse struct {
	Companies []string `json:"companies"`
}

// SummaryResponse carries the statistics of one symbol's price table.
type SummaryResponse struct {
	Symbol     string  `json:"symbol"`
	WeekHigh52 float64 `json:"52_week_high"`
	WeekLow52  float64 `json:"52_week_low"`
	AvgClose   float64 `json:"avg_close"`
}
