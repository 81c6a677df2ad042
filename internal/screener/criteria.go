// Package screener filters a ticker universe on fundamentals thresholds
// and runs the chain/strategy pipeline over the survivors.
package screener

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/Renotrader31/LEAPS/internal/data"
)

// ErrInvalidExpression reports a custom filter expression that failed to
// parse or did not evaluate to a boolean.
var ErrInvalidExpression = fmt.Errorf("invalid filter expression")

// Criteria is the user-supplied threshold set of one screening request.
// Zero values mean "no constraint" except MaxPE, where zero falls back to
// the default cap.
type Criteria struct {
	MinMarketCap float64 `json:"minMarketCap"`
	MinVolume    float64 `json:"minVolume"`
	MaxPE        float64 `json:"maxPE"`
	MinROE       float64 `json:"minROE"`
	MinRevGrowth float64 `json:"minRevGrowth"`
	MinUpside    float64 `json:"minUpside"`
	// Strategy restricts results to tickers where the named strategy is
	// viable. Empty means any.
	Strategy   string `json:"strategy,omitempty"`
	MaxResults int    `json:"maxResults,omitempty"`
	// Expression is an optional boolean filter over the fundamentals
	// fields, e.g. "pe < 15 && roe > 20". Evaluated after the numeric
	// thresholds.
	Expression string `json:"expression,omitempty"`
}

// DefaultCriteria returns the canonical threshold set.
func DefaultCriteria() Criteria {
	return Criteria{
		MinMarketCap: 1e9,
		MinVolume:    500_000,
		MaxPE:        50,
		MinROE:       10,
		MinRevGrowth: 5,
		MinUpside:    10,
		MaxResults:   20,
	}
}

// Matches applies the numeric thresholds to one fundamentals record.
// A negative P/E (unprofitable) always fails the MaxPE gate.
func (c Criteria) Matches(f *data.Fundamentals) bool {
	if f.MarketCap < c.MinMarketCap {
		return false
	}
	if float64(f.AvgVolume10D) < c.MinVolume {
		return false
	}
	if c.MaxPE > 0 && (f.PERatio <= 0 || f.PERatio > c.MaxPE) {
		return false
	}
	if f.ROE < c.MinROE {
		return false
	}
	if f.RevenueGrowth < c.MinRevGrowth {
		return false
	}
	if f.TargetUpside < c.MinUpside {
		return false
	}
	return true
}

// MatchesExpression evaluates the optional custom expression against the
// fundamentals record. An empty expression matches everything.
func (c Criteria) MatchesExpression(f *data.Fundamentals) (bool, error) {
	if c.Expression == "" {
		return true, nil
	}

	expr, err := govaluate.NewEvaluableExpression(c.Expression)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	params := map[string]interface{}{
		"price":     f.Price,
		"marketCap": f.MarketCap,
		"volume":    f.AvgVolume10D,
		"pe":        f.PERatio,
		"roe":       f.ROE,
		"de":        f.DebtToEquity,
		"revGrowth": f.RevenueGrowth,
		"epsGrowth": f.EPSGrowth,
		"beta":      f.Beta,
		"rsi":       f.RSI14,
		"upside":    f.TargetUpside,
		"vol30":     f.Volatility30D,
	}

	result, err := expr.Evaluate(params)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	b, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("%w: expression %q is not boolean", ErrInvalidExpression, c.Expression)
	}
	return b, nil
}
