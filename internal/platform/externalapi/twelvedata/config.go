// Package twelvedata provides a client for the Twelve Data stock market API.
package twelvedata

// DefaultBaseURL is the public Twelve Data API host.
const DefaultBaseURL = "https://api.twelvedata.com"

// Config holds configuration for the Twelve Data API client.
// Request timeouts are set on the *http.Client passed to NewTwelveDataMarket.
type Config struct {
	TwelveDataAPIKey string // API key for authentication
	BaseURL          string // Base URL for the API (e.g., "https://api.twelvedata.com")
}
