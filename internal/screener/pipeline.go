package screener

import (
	"fmt"
	"sort"
	"time"

	"github.com/Renotrader31/LEAPS/internal/chain"
	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/logger"
	"github.com/Renotrader31/LEAPS/internal/strategy"
)

// topRecommendations bounds how many viable strategies one result carries.
const topRecommendations = 3

// Result is one screened ticker: the fundamentals that passed the gates,
// the chain set's provenance and liquidity grade, and the top strategy
// recommendations.
type Result struct {
	Fundamentals    *data.Fundamentals        `json:"fundamentals"`
	Provenance      string                    `json:"provenance"`
	Liquidity       string                    `json:"liquidity"`
	Risk            strategy.RiskLevel        `json:"riskProfile"`
	Recommendations []strategy.Recommendation `json:"recommendations"`
}

// Pipeline wires the data provider to the chain synthesizer and strategy
// engine. Batch throttling of fundamentals fetches lives here, not in the
// provider.
type Pipeline struct {
	Provider   data.Provider
	Synth      *chain.Synthesizer
	BatchSize  int
	BatchDelay time.Duration
}

// NewPipeline returns a Pipeline with the default batch shape
// (10 tickers per batch, 500ms between batches).
func NewPipeline(p data.Provider, synth *chain.Synthesizer) *Pipeline {
	return &Pipeline{
		Provider:   p,
		Synth:      synth,
		BatchSize:  10,
		BatchDelay: 500 * time.Millisecond,
	}
}

// ScreenTicker runs the full pipeline for one ticker. A nil result with a
// nil error means the ticker failed the criteria gates.
func (p *Pipeline) ScreenTicker(ticker string, crit Criteria) (*Result, error) {
	f, err := p.Provider.GetFundamentals(ticker)
	if err != nil {
		return nil, fmt.Errorf("fundamentals for %s: %w", ticker, err)
	}

	if !crit.Matches(f) {
		logger.Tracef("%s rejected by threshold gates", ticker)
		return nil, nil
	}
	ok, err := crit.MatchesExpression(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		logger.Tracef("%s rejected by expression filter", ticker)
		return nil, nil
	}

	raw, err := p.Provider.GetRawOptions(ticker)
	if err != nil {
		// The provider chain already fell back as far as it could; an
		// empty blob still yields the synthetic expiration schedule.
		logger.Debugf("options data for %s unavailable: %v", ticker, err)
		raw = &data.RawOptionsData{Source: "mock"}
	}

	set, err := p.Synth.BuildLeapsSet(ticker, f.Price, raw)
	if err != nil {
		return nil, fmt.Errorf("chain set for %s: %w", ticker, err)
	}

	recs := strategy.Evaluate(f, set)
	if crit.Strategy != "" && !hasViable(recs, crit.Strategy) {
		logger.Tracef("%s has no viable %s setup", ticker, crit.Strategy)
		return nil, nil
	}

	return &Result{
		Fundamentals:    f,
		Provenance:      set.Provenance,
		Liquidity:       strategy.LiquidityClass(meanVolume(set)),
		Risk:            strategy.RiskProfile(f),
		Recommendations: strategy.Top(recs, topRecommendations),
	}, nil
}

// Screen runs ScreenTicker over a universe in throttled batches, sorts
// survivors descending by target upside and truncates to MaxResults.
// Per-ticker failures are logged and skipped, never fatal.
func (p *Pipeline) Screen(tickers []string, crit Criteria) []Result {
	var results []Result
	for i, ticker := range tickers {
		if i > 0 && p.BatchSize > 0 && i%p.BatchSize == 0 {
			time.Sleep(p.BatchDelay)
		}

		res, err := p.ScreenTicker(ticker, crit)
		if err != nil {
			logger.Errorf("screening %s: %v", ticker, err)
			continue
		}
		if res != nil {
			results = append(results, *res)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Fundamentals.TargetUpside > results[j].Fundamentals.TargetUpside
	})
	if crit.MaxResults > 0 && len(results) > crit.MaxResults {
		results = results[:crit.MaxResults]
	}
	return results
}

func hasViable(recs []strategy.Recommendation, name string) bool {
	for _, r := range recs {
		if r.Viable && r.Strategy == name {
			return true
		}
	}
	return false
}

// meanVolume averages (call+put)/2 volume across every strike of every
// chain in the set.
func meanVolume(set *chain.LeapsChainSet) float64 {
	var sum float64
	var n int
	for _, c := range set.Chains {
		for _, row := range c.Rows {
			sum += float64(row.Call.Volume+row.Put.Volume) / 2
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
