package entity

// Summary holds statistics derived from a whole price table. It is never persisted.
type Summary struct {
	Symbol   string
	High     float64 // max(high)
	Low      float64 // min(low)
	AvgClose float64 // mean(close)
}

// Comparison maps each requested symbol, as given by the caller, to its mean close.
type Comparison map[string]float64
