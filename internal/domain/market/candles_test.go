package market

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func pricePoint(price, volume int64, at time.Time) *PricePoint {
	return &PricePoint{ID: uuid.New(), Price: price, Volume: volume, CreatedAt: at}
}

func TestParseIntervalUnknown(t *testing.T) {
	if _, err := ParseInterval("3m"); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("err = %v, want ErrInvalidInterval", err)
	}
	if d, err := ParseInterval("5m"); err != nil || d != 5*time.Minute {
		t.Fatalf("ParseInterval(5m) = %v, %v", d, err)
	}
}

func TestBuildCandlesEmptyInput(t *testing.T) {
	if got := BuildCandles(nil, time.Minute); got != nil {
		t.Fatalf("expected nil, got %d candles", len(got))
	}
}

func TestBuildCandlesOHLC(t *testing.T) {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	points := []*PricePoint{
		pricePoint(100, 5, base),
		pricePoint(130, 3, base.Add(1*time.Minute)),
		pricePoint(90, 2, base.Add(2*time.Minute)),
		pricePoint(110, 4, base.Add(4*time.Minute)),
	}

	candles := BuildCandles(points, 5*time.Minute)
	if len(candles) != 1 {
		t.Fatalf("expected 1 candle, got %d", len(candles))
	}

	c := candles[0]
	if !c.Start.Equal(base) {
		t.Errorf("start = %v, want %v", c.Start, base)
	}
	if c.Open != 100 || c.High != 130 || c.Low != 90 || c.Close != 110 {
		t.Errorf("OHLC = %d/%d/%d/%d, want 100/130/90/110", c.Open, c.High, c.Low, c.Close)
	}
	if c.Volume != 14 {
		t.Errorf("volume = %d, want 14", c.Volume)
	}
}

func TestBuildCandlesSplitsBuckets(t *testing.T) {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	points := []*PricePoint{
		pricePoint(100, 1, base),
		pricePoint(105, 1, base.Add(4*time.Minute)),
		pricePoint(95, 1, base.Add(7*time.Minute)),
	}

	candles := BuildCandles(points, 5*time.Minute)
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles, got %d", len(candles))
	}
	if candles[0].Close != 105 {
		t.Errorf("first candle close = %d, want 105", candles[0].Close)
	}
	if candles[1].Open != 95 || candles[1].Close != 95 {
		t.Errorf("second candle = %d/%d, want 95/95", candles[1].Open, candles[1].Close)
	}
	if !candles[1].Start.Equal(base.Add(5 * time.Minute)) {
		t.Errorf("second candle start = %v", candles[1].Start)
	}
}

func TestBuildCandlesSkipsEmptyBuckets(t *testing.T) {
	base := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	points := []*PricePoint{
		pricePoint(100, 1, base),
		pricePoint(120, 1, base.Add(30*time.Minute)),
	}

	candles := BuildCandles(points, time.Minute)
	if len(candles) != 2 {
		t.Fatalf("expected 2 candles with a gap between them, got %d", len(candles))
	}
}
