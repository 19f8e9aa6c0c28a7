// Package entity defines the domain models for the prices feature.
package entity

import (
	"strconv"
	"time"
)

// DateLayout is the date format written to the Date column of a price table.
const DateLayout = "2006-01-02"

// Candle represents one trading day's OHLCV record as delivered by a market-data provider.
type Candle struct {
	Time     time.Time // Trading day
	Open     float64   // Opening price
	High     float64   // Highest price during the day
	Low      float64   // Lowest price during the day
	Close    float64   // Closing price
	AdjClose *float64  // Split/dividend adjusted close; nil when the provider does not supply it
	Volume   int64     // Trading volume
}

// TableFromCandles converts provider candles into a PriceTable with the canonical header
// Date,Open,High,Low,Close[,Adj Close],Volume. Row order is preserved.
// The Adj Close column is emitted only when every candle carries an adjusted close.
func TableFromCandles(symbol string, candles []Candle) PriceTable {
	withAdj := len(candles) > 0
	for _, c := range candles {
		if c.AdjClose == nil {
			withAdj = false
			break
		}
	}

	cols := []string{"Date", "Open", "High", "Low", "Close"}
	if withAdj {
		cols = append(cols, "Adj Close")
	}
	cols = append(cols, "Volume")

	records := make([][]string, 0, len(candles))
	for _, c := range candles {
		rec := []string{
			c.Time.UTC().Format(DateLayout),
			formatFloat(c.Open),
			formatFloat(c.High),
			formatFloat(c.Low),
			formatFloat(c.Close),
		}
		if withAdj {
			rec = append(rec, formatFloat(*c.AdjClose))
		}
		rec = append(rec, strconv.FormatInt(c.Volume, 10))
		records = append(records, rec)
	}

	return PriceTable{Symbol: symbol, Columns: cols, Records: records}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
