// Package testutil provides deterministic fixtures for pricing, chain and
// strategy tests.
package testutil

import "github.com/Renotrader31/LEAPS/internal/data"

// FixedRand is a pinned randomness source: Float64 always returns F,
// Intn always returns N (clamped below its bound).
type FixedRand struct {
	F float64
	N int
}

func (r FixedRand) Float64() float64 { return r.F }

func (r FixedRand) Intn(n int) int {
	if r.N >= n {
		return n - 1
	}
	return r.N
}

// SeqRand replays a fixed Float64 sequence, cycling when exhausted.
// Intn behaves like FixedRand.
type SeqRand struct {
	Seq []float64
	N   int
	idx int
}

func (r *SeqRand) Float64() float64 {
	v := r.Seq[r.idx%len(r.Seq)]
	r.idx++
	return v
}

func (r *SeqRand) Intn(n int) int {
	if r.N >= n {
		return n - 1
	}
	return r.N
}

// IVFraction returns the Float64 value that makes the pricer draw the
// given implied volatility from its [0.25, 0.55] band.
func IVFraction(iv float64) float64 {
	return (iv - 0.25) / 0.30
}

// Fundamentals returns a baseline record that passes the default
// screening gates. Override fields per test.
func Fundamentals() *data.Fundamentals {
	return &data.Fundamentals{
		Ticker:        "TEST",
		Name:          "Test Corp",
		Sector:        "Technology",
		Price:         200,
		Volume:        2_000_000,
		AvgVolume10D:  2_500_000,
		MarketCap:     50e9,
		PERatio:       18,
		ROE:           22,
		DebtToEquity:  0.8,
		RevenueGrowth: 18,
		EPSGrowth:     15,
		Beta:          1.1,
		RSI14:         55,
		AnalystRating: 2,
		PriceTarget:   250,
		TargetUpside:  25,
		Volatility30D: 0.30,
		Source:        data.Mock,
	}
}
