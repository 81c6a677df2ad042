package data

import (
	"math"
	"math/rand"

	"github.com/Renotrader31/LEAPS/internal/logger"
)

// mockProvider generates synthetic fundamentals. It never fails, which
// makes it the natural tail of a provider chain.
type mockProvider struct {
	rng       *rand.Rand
	secondary Provider
}

var sectors = []string{
	"Technology", "Healthcare", "Financials", "Consumer Discretionary",
	"Industrials", "Energy", "Communication Services", "Consumer Staples",
}

// NewMockProvider returns a provider that fabricates fundamentals.
// The same seed reproduces the same universe.
func NewMockProvider(seed int64) Provider {
	return &mockProvider{rng: rand.New(rand.NewSource(seed))}
}

func (mockProv *mockProvider) Secondary() Provider { return mockProv.secondary }

func (mockProv *mockProvider) GetFundamentals(ticker string) (*Fundamentals, error) {
	rng := mockProv.rng

	price := 10 + rng.Float64()*490
	volume := int64(200_000 + rng.Intn(20_000_000))
	// Price target within -20%..+60% of spot.
	target := price * (0.8 + rng.Float64()*0.8)
	upside := (target - price) / price * 100

	f := &Fundamentals{
		Ticker:        ticker,
		Name:          ticker + " Inc.",
		Sector:        sectors[rng.Intn(len(sectors))],
		Price:         math.Round(price*100) / 100,
		Volume:        volume,
		AvgVolume10D:  volume + int64(rng.Intn(2_000_000)),
		MarketCap:     0.5e9 + rng.Float64()*2000e9,
		PERatio:       5 + rng.Float64()*55,
		ROE:           -5 + rng.Float64()*40,
		DebtToEquity:  rng.Float64() * 3,
		RevenueGrowth: -10 + rng.Float64()*50,
		EPSGrowth:     -15 + rng.Float64()*60,
		Beta:          0.5 + rng.Float64()*2,
		RSI14:         20 + rng.Float64()*60,
		AnalystRating: 1 + rng.Float64()*4,
		PriceTarget:   math.Round(target*100) / 100,
		TargetUpside:  math.Round(upside*100) / 100,
		Volatility30D: 0.20 + rng.Float64()*0.40,
		Source:        Mock,
	}

	logger.Tracef("mock fundamentals %s price=%.2f pe=%.1f", ticker, f.Price, f.PERatio)
	return f, nil
}

// GetRawOptions returns an empty mock blob. The expiration selector
// treats it as unrecognized and substitutes the synthetic LEAPS schedule.
func (mockProv *mockProvider) GetRawOptions(ticker string) (*RawOptionsData, error) {
	return &RawOptionsData{Source: "mock"}, nil
}
