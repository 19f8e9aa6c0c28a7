// Package yahoo provides a client for the Yahoo Finance chart API.
package yahoo

// DefaultBaseURL is the public chart API host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Config holds configuration for the Yahoo Finance client.
// Request timeouts are set on the *http.Client passed to NewYahooMarket.
type Config struct {
	BaseURL   string // Base URL for the API
	UserAgent string // Yahoo rejects requests without a browser-like User-Agent
}
