// Package chain synthesizes options chains: a tiered strike ladder around
// spot, a call and a put quote per strike, and LEAPS chain sets built from
// upstream expiration data.
package chain

import (
	"fmt"
	"math"

	"github.com/Renotrader31/LEAPS/internal/pricing"
)

// maxStrikes caps the ladder length.
const maxStrikes = 30

// StrikeInterval returns the ladder spacing for a given spot price tier.
func StrikeInterval(spot float64) float64 {
	switch {
	case spot < 25:
		return 2.5
	case spot < 50:
		return 5
	case spot < 200:
		return 10
	case spot < 500:
		return 25
	default:
		return 50
	}
}

// StrikeLadder generates an ordered sequence of strikes spanning 50%-200%
// of spot at the tier interval, discarding non-positive values and
// truncating to the first 30 entries. Deterministic given spot.
func StrikeLadder(spot float64) ([]float64, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: spot %.4f must be positive", pricing.ErrInvalidInput, spot)
	}

	interval := StrikeInterval(spot)
	low := math.Floor(spot*0.5/interval) * interval
	high := math.Ceil(spot*2.0/interval) * interval

	strikes := make([]float64, 0, maxStrikes)
	for i := 0; ; i++ {
		s := low + float64(i)*interval
		if s > high || len(strikes) >= maxStrikes {
			break
		}
		if s <= 0 {
			continue
		}
		strikes = append(strikes, s)
	}
	return strikes, nil
}

// atmStrike returns the ladder entry minimizing |strike - spot|.
// Ties resolve to the first minimizer in ascending traversal order.
func atmStrike(strikes []float64, spot float64) float64 {
	best := strikes[0]
	bestDist := math.Abs(best - spot)
	for _, s := range strikes[1:] {
		if d := math.Abs(s - spot); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}
