package market

import "time"

// candleIntervals are the supported aggregation windows
var candleIntervals = map[string]time.Duration{
	"1m":  time.Minute,
	"5m":  5 * time.Minute,
	"15m": 15 * time.Minute,
	"1h":  time.Hour,
	"1d":  24 * time.Hour,
}

// ParseInterval maps an interval name to its duration
func ParseInterval(name string) (time.Duration, error) {
	if d, ok := candleIntervals[name]; ok {
		return d, nil
	}
	return 0, ErrInvalidInterval
}

// BuildCandles buckets chronologically ordered price points into OHLC
// candles. Empty buckets produce no candle.
func BuildCandles(points []*PricePoint, interval time.Duration) []Candle {
	if len(points) == 0 {
		return nil
	}

	candles := make([]Candle, 0)
	var current *Candle

	for _, p := range points {
		start := p.CreatedAt.Truncate(interval)
		if current == nil || !current.Start.Equal(start) {
			if current != nil {
				candles = append(candles, *current)
			}
			current = &Candle{
				Start: start,
				Open:  p.Price,
				High:  p.Price,
				Low:   p.Price,
			}
		}
		if p.Price > current.High {
			current.High = p.Price
		}
		if p.Price < current.Low {
			current.Low = p.Price
		}
		current.Close = p.Price
		current.Volume += p.Volume
	}
	if current != nil {
		candles = append(candles, *current)
	}
	return candles
}
