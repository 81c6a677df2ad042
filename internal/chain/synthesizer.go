package chain

import (
	"fmt"
	"math"
	"time"

	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/logger"
	"github.com/Renotrader31/LEAPS/internal/pricing"
)

// Random fallback band for an unavailable spot price.
const (
	fallbackSpotLow  = 50.0
	fallbackSpotHigh = 450.0
)

// Row pairs the call and put quotes at one strike.
type Row struct {
	Strike float64        `json:"strike"`
	Call   *pricing.Quote `json:"call"`
	Put    *pricing.Quote `json:"put"`
}

// Chain is one synthesized options chain for a (ticker, expiration) pair.
//
// Invariants: Strikes strictly increasing, at most 30 entries, all
// positive; DaysToExpiry >= 1; ATMStrike is a ladder entry.
type Chain struct {
	Ticker       string    `json:"ticker"`
	Expiration   time.Time `json:"expiration"`
	DaysToExpiry int       `json:"daysToExpiry"`
	Spot         float64   `json:"spot"`
	// SpotEstimated marks a chain built on the random fallback price
	// rather than a real quote.
	SpotEstimated bool      `json:"spotEstimated,omitempty"`
	Strikes       []float64 `json:"strikes"`
	ATMStrike     float64   `json:"atmStrike"`
	Rows          []Row     `json:"rows"`
}

// LeapsChainSet holds up to four LEAPS chains for one ticker, sorted
// ascending by expiration, with the provenance of the expiration dates.
type LeapsChainSet struct {
	Ticker     string   `json:"ticker"`
	Provenance string   `json:"provenance"` // "yahoo" | "polygon" | "mock"
	Chains     []*Chain `json:"chains"`
}

// Nearest returns the shortest-dated chain, or nil for an empty set.
func (s *LeapsChainSet) Nearest() *Chain {
	if len(s.Chains) == 0 {
		return nil
	}
	return s.Chains[0]
}

// Longest returns the longest-dated chain, or nil for an empty set.
func (s *LeapsChainSet) Longest() *Chain {
	if len(s.Chains) == 0 {
		return nil
	}
	return s.Chains[len(s.Chains)-1]
}

// Medium returns the medium-term chain (second-nearest when present,
// otherwise the nearest).
func (s *LeapsChainSet) Medium() *Chain {
	if len(s.Chains) > 1 {
		return s.Chains[1]
	}
	return s.Nearest()
}

// Synthesizer builds chains from a spot price and an expiration date.
// Randomness (quote synthesis, spot fallback) flows through the injected
// source; Now is swappable for tests.
type Synthesizer struct {
	pricer *pricing.Pricer
	rng    pricing.Rand
	Now    func() time.Time
}

// NewSynthesizer returns a Synthesizer drawing from r.
func NewSynthesizer(r pricing.Rand) *Synthesizer {
	return &Synthesizer{
		pricer: pricing.NewPricerWithRand(r),
		rng:    r,
		Now:    func() time.Time { return time.Now().UTC() },
	}
}

// Pricer exposes the underlying pricer (for IV-band configuration).
func (synth *Synthesizer) Pricer() *pricing.Pricer { return synth.pricer }

// Synthesize builds the full chain for one expiration.
//
// A non-positive spot means "price unavailable": a random fallback in
// [50, 450] is drawn, logged, and flagged on the chain so downstream
// consumers never mistake it for a quoted price.
//
// Expirations less than one day out are rejected with ErrInvalidInput,
// not clamped: pricing a same-day option with the linear theta model
// would divide by zero.
func (synth *Synthesizer) Synthesize(ticker string, expiration time.Time, spot float64) (*Chain, error) {
	estimated := false
	if spot <= 0 {
		spot = fallbackSpotLow + synth.rng.Float64()*(fallbackSpotHigh-fallbackSpotLow)
		estimated = true
		logger.Infof("no spot price for %s, using random fallback %.2f", ticker, spot)
	}

	days := int(math.Ceil(expiration.Sub(synth.Now()).Hours() / 24))
	if days < 1 {
		return nil, fmt.Errorf("%w: expiration %s is less than one day out",
			pricing.ErrInvalidInput, expiration.Format("2006-01-02"))
	}

	strikes, err := StrikeLadder(spot)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(strikes))
	for _, strike := range strikes {
		call, err := synth.pricer.Price(pricing.Call, strike, spot, days)
		if err != nil {
			return nil, err
		}
		put, err := synth.pricer.Price(pricing.Put, strike, spot, days)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Strike: strike, Call: call, Put: put})
	}

	return &Chain{
		Ticker:        ticker,
		Expiration:    expiration,
		DaysToExpiry:  days,
		Spot:          spot,
		SpotEstimated: estimated,
		Strikes:       strikes,
		ATMStrike:     atmStrike(strikes, spot),
		Rows:          rows,
	}, nil
}

// BuildLeapsSet selects LEAPS expirations from the raw blob and builds a
// chain per expiration. The spot comes from the blob's quote when present,
// from the supplied fundamentals price otherwise, and from the random
// fallback when neither is available.
func (synth *Synthesizer) BuildLeapsSet(ticker string, spot float64, raw *data.RawOptionsData) (*LeapsChainSet, error) {
	if s := raw.SpotPrice(); s > 0 {
		spot = s
	}

	// Draw the fallback once so every chain in the set shares one spot
	// and therefore one strike ladder.
	estimated := false
	if spot <= 0 {
		spot = fallbackSpotLow + synth.rng.Float64()*(fallbackSpotHigh-fallbackSpotLow)
		estimated = true
		logger.Infof("no spot price for %s, using random fallback %.2f", ticker, spot)
	}

	sel := SelectLeapsExpirations(raw, synth.Now())
	set := &LeapsChainSet{Ticker: ticker, Provenance: sel.Source}

	for _, exp := range sel.Dates {
		c, err := synth.Synthesize(ticker, exp, spot)
		if err != nil {
			// Skip the bad expiration; a single short date must not
			// invalidate the rest of the set.
			logger.Debugf("skipping expiration %s for %s: %v",
				exp.Format("2006-01-02"), ticker, err)
			continue
		}
		c.SpotEstimated = estimated
		set.Chains = append(set.Chains, c)
	}

	if len(set.Chains) == 0 {
		return nil, fmt.Errorf("no LEAPS chains could be built for %s", ticker)
	}
	return set, nil
}
