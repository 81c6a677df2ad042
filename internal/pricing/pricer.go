// Package pricing derives synthetic but internally consistent option quotes.
//
// The quotes are NOT Black-Scholes prices: implied volatility is sampled
// from a fixed band and time value follows a decay-with-distance-from-the-money
// heuristic. Delta alone uses the usual d1 / normal-CDF machinery so that
// strategy selection by delta behaves sensibly across the chain.
//
// All randomness flows through the Rand interface so tests can pin the
// sampled volatility, spread, and liquidity figures.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
)

// ErrInvalidInput reports a non-positive spot or strike, or a
// days-to-expiry below one. Malformed inputs are rejected here instead of
// letting NaN/Inf propagate silently through the chain.
var ErrInvalidInput = errors.New("invalid pricing input")

// OptionType identifies the side of an option contract.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Moneyness classifies a quote relative to the spot price.
type Moneyness string

const (
	ITM Moneyness = "ITM"
	ATM Moneyness = "ATM"
	OTM Moneyness = "OTM"
)

// Default implied-volatility sampling band.
const (
	ivBandLow  = 0.25
	ivBandHigh = 0.55
)

// Rand is the source of randomness for the synthetic fields of a quote
// (implied volatility, bid/ask spread, volume, open interest).
// *rand.Rand satisfies it; tests substitute a fixed source.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Quote is a fully derived synthetic option quote. It is never persisted.
//
// Invariants (see the package tests):
//   - Mid = Intrinsic + TimeValue exactly
//   - Bid <= Mid <= Ask, Bid >= 0.05 (for chain-scale inputs)
//   - 0 <= Delta <= 1 for calls, -1 <= Delta <= 0 for puts
type Quote struct {
	Type         OptionType `json:"type"`
	Strike       float64    `json:"strike"`
	Bid          float64    `json:"bid"`
	Ask          float64    `json:"ask"`
	Mid          float64    `json:"mid"`
	Volume       int        `json:"volume"`
	OpenInterest int        `json:"openInterest"`
	ImpliedVol   float64    `json:"impliedVolatility"`
	Delta        float64    `json:"delta"`
	Gamma        float64    `json:"gamma"`
	Theta        float64    `json:"theta"`
	Vega         float64    `json:"vega"`
	Intrinsic    float64    `json:"intrinsicValue"`
	TimeValue    float64    `json:"timeValue"`
	Moneyness    Moneyness  `json:"moneyness"`
	Breakeven    float64    `json:"breakeven"`
	MaxLoss      float64    `json:"maxLoss"`
	// MaxGain is nil for calls (unlimited upside).
	MaxGain          *float64 `json:"maxGain"`
	AnnualizedReturn float64  `json:"annualizedReturn"`
}

// AbsDelta returns the display-normalized (absolute) delta.
func (q *Quote) AbsDelta() float64 { return math.Abs(q.Delta) }

// Pricer produces synthetic quotes. The zero value is not usable;
// construct with NewPricer or NewPricerWithRand.
type Pricer struct {
	rng Rand

	// IVLow/IVHigh bound the uniform implied-volatility sample.
	IVLow  float64
	IVHigh float64
}

// NewPricer returns a Pricer seeded with the given value.
// The same seed reproduces the same chain.
func NewPricer(seed int64) *Pricer {
	return NewPricerWithRand(rand.New(rand.NewSource(seed)))
}

// NewPricerWithRand returns a Pricer drawing from r.
func NewPricerWithRand(r Rand) *Pricer {
	return &Pricer{rng: r, IVLow: ivBandLow, IVHigh: ivBandHigh}
}

// Price derives a synthetic quote for the given contract.
//
// daysToExpiry must be >= 1; the linear theta approximation divides by it.
// Callers building chains reject expired or same-day expirations upstream.
func (p *Pricer) Price(typ OptionType, strike, spot float64, daysToExpiry int) (*Quote, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %.4f must be positive", ErrInvalidInput, spot)
	}
	if strike <= 0 {
		return nil, fmt.Errorf("%w: strike %.4f must be positive", ErrInvalidInput, strike)
	}
	if daysToExpiry < 1 {
		return nil, fmt.Errorf("%w: days to expiry %d must be >= 1", ErrInvalidInput, daysToExpiry)
	}
	if typ != Call && typ != Put {
		return nil, fmt.Errorf("%w: option type %q", ErrInvalidInput, typ)
	}

	timeToExpiry := float64(daysToExpiry) / 365.0
	iv := p.IVLow + p.rng.Float64()*(p.IVHigh-p.IVLow)
	moneyness := strike / spot

	intrinsic := 0.0
	if typ == Call {
		intrinsic = math.Max(spot-strike, 0)
	} else {
		intrinsic = math.Max(strike-spot, 0)
	}

	// Heuristic time value: decays with distance from the money.
	timeValue := 0.4 * math.Sqrt(timeToExpiry) * iv * 100 * math.Exp(-2*math.Abs(moneyness-1))
	mid := intrinsic + timeValue

	sqrtT := math.Sqrt(timeToExpiry)
	d1 := (math.Log(1/moneyness) + 0.5*iv*iv*timeToExpiry) / (iv * sqrtT)
	callDelta := NormalCDF(d1)
	delta := callDelta
	if typ == Put {
		delta = callDelta - 1
	}

	theta := -timeValue / float64(daysToExpiry)
	gamma := normPDF(math.Log(moneyness)) / (iv * sqrtT)
	vega := sqrtT * 0.1

	spread := mid * (0.02 + p.rng.Float64()*0.03)
	bid := math.Max(mid-spread/2, 0.05)
	ask := mid + spread/2

	volume := 10 + p.rng.Intn(1000)
	openInterest := 100 + p.rng.Intn(10000)

	// Treats the premium as a fraction of spot: a leverage proxy,
	// not a rigorous annualized-return formula.
	annualized := (spot/mid - 1) / timeToExpiry

	q := &Quote{
		Type:             typ,
		Strike:           strike,
		Bid:              bid,
		Ask:              ask,
		Mid:              mid,
		Volume:           volume,
		OpenInterest:     openInterest,
		ImpliedVol:       iv,
		Delta:            delta,
		Gamma:            gamma,
		Theta:            theta,
		Vega:             vega,
		Intrinsic:        intrinsic,
		TimeValue:        timeValue,
		Moneyness:        classifyMoneyness(typ, moneyness),
		AnnualizedReturn: annualized,
		MaxLoss:          mid,
	}

	if typ == Call {
		q.Breakeven = strike + mid
		q.MaxGain = nil // unlimited
	} else {
		q.Breakeven = strike - mid
		gain := strike - mid
		q.MaxGain = &gain
	}

	return q, nil
}

// classifyMoneyness maps a strike/spot ratio to ITM/ATM/OTM.
//
// Calls use >1 OTM, <0.95 ITM, with a 5% ATM band below spot only; puts
// use the mirrored thresholds. The ATM band is deliberately one-sided.
func classifyMoneyness(typ OptionType, moneyness float64) Moneyness {
	if typ == Call {
		switch {
		case moneyness > 1:
			return OTM
		case moneyness < 0.95:
			return ITM
		default:
			return ATM
		}
	}
	switch {
	case moneyness < 1:
		return OTM
	case moneyness > 1.05:
		return ITM
	default:
		return ATM
	}
}
