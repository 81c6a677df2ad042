package strategy

import (
	"math"

	"github.com/Renotrader31/LEAPS/internal/data"
)

// ProbabilityOfProfit is a volatility-scaled distance proxy, not a real
// distribution: the further the target sits from spot in 30-day-vol units,
// the lower the score, clamped to [0.10, 0.90].
func ProbabilityOfProfit(target, spot, vol30 float64) float64 {
	if spot <= 0 || vol30 <= 0 {
		return 0.5
	}
	z := math.Abs(target-spot) / spot / vol30
	p := 0.5 - z*0.2
	if p < 0.10 {
		return 0.10
	}
	if p > 0.90 {
		return 0.90
	}
	return p
}

// RiskProfile scores a fundamentals record on beta, leverage, profitability
// and size, then maps the additive score to a qualitative level.
//
//	beta   > 2.0 -> +3, > 1.5 -> +2, > 1.0 -> +1
//	D/E    > 2.0 -> +2, > 1.0 -> +1
//	ROE    < 5%  -> +2
//	mcap   < $2B -> +2, < $10B -> +1
//
// Score >= 6 is High, >= 3 Medium, otherwise Low.
func RiskProfile(f *data.Fundamentals) RiskLevel {
	score := 0

	switch {
	case f.Beta > 2.0:
		score += 3
	case f.Beta > 1.5:
		score += 2
	case f.Beta > 1.0:
		score++
	}

	switch {
	case f.DebtToEquity > 2.0:
		score += 2
	case f.DebtToEquity > 1.0:
		score++
	}

	if f.ROE < 5 {
		score += 2
	}

	switch {
	case f.MarketCap < 2e9:
		score += 2
	case f.MarketCap < 10e9:
		score++
	}

	switch {
	case score >= 6:
		return RiskHigh
	case score >= 3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// LiquidityClass grades a chain's tradability from the mean per-strike
// volume across both sides of the book.
func LiquidityClass(meanVolume float64) string {
	switch {
	case meanVolume > 100:
		return "Excellent"
	case meanVolume > 50:
		return "Good"
	case meanVolume > 20:
		return "Fair"
	default:
		return "Poor"
	}
}
