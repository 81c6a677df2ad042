package strategy

import (
	"fmt"
	"sort"

	"github.com/Renotrader31/LEAPS/internal/chain"
	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/logger"
	"github.com/Renotrader31/LEAPS/internal/pricing"
)

// contractMultiplier is the share count of one option contract.
const contractMultiplier = 100

// Evaluate runs every strategy analyzer over (fundamentals, chain set)
// and returns one Recommendation per strategy, viable ones first, sorted
// descending by expected return. Use Top to truncate.
func Evaluate(f *data.Fundamentals, set *chain.LeapsChainSet) []Recommendation {
	analyzers := []struct {
		name string
		fn   func(*data.Fundamentals, *chain.LeapsChainSet) Recommendation
	}{
		{StockReplacement, analyzeStockReplacement},
		{PMCC, analyzePMCC},
		{Growth, analyzeGrowth},
		{Value, analyzeValue},
		{ProtectivePut, analyzeProtectivePut},
		{DiagonalSpread, analyzeDiagonalSpread},
	}

	recs := make([]Recommendation, 0, len(analyzers))
	for _, a := range analyzers {
		rec := capture(a.name, f, set, a.fn)
		if rec.Viable {
			rec.Probability = ProbabilityOfProfit(f.PriceTarget, f.Price, f.Volatility30D)
			rec.Quality = qualityScore(rec)
		}
		recs = append(recs, rec)
	}

	sort.SliceStable(recs, func(i, j int) bool {
		if recs[i].Viable != recs[j].Viable {
			return recs[i].Viable
		}
		if !recs[i].Viable {
			return false
		}
		return recs[i].Economics.ExpectedReturnPct > recs[j].Economics.ExpectedReturnPct
	})
	return recs
}

// Top returns the first n viable recommendations of an Evaluate result.
func Top(recs []Recommendation, n int) []Recommendation {
	out := make([]Recommendation, 0, n)
	for _, r := range recs {
		if !r.Viable {
			continue
		}
		out = append(out, r)
		if len(out) == n {
			break
		}
	}
	return out
}

// capture isolates one analyzer: a panic becomes a non-viable result for
// that strategy instead of aborting the whole evaluation.
func capture(name string, f *data.Fundamentals, set *chain.LeapsChainSet,
	fn func(*data.Fundamentals, *chain.LeapsChainSet) Recommendation) (rec Recommendation) {

	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("strategy %s panicked for %s: %v", name, f.Ticker, r)
			rec = notViable(name, fmt.Sprintf("analyzer failure: %v", r))
		}
	}()
	return fn(f, set)
}

//
// ==========================
// Option selection helpers
// ==========================
//

// findCall returns the first call in the chain with delta in [lo, hi] and
// a strike satisfying strikeOK, scanning strikes in ascending order.
func findCall(c *chain.Chain, lo, hi float64, strikeOK func(strike float64) bool) *pricing.Quote {
	for _, row := range c.Rows {
		q := row.Call
		if q.Delta >= lo && q.Delta <= hi && strikeOK(q.Strike) {
			return q
		}
	}
	return nil
}

// findPut is findCall for puts; lo/hi are signed put deltas.
func findPut(c *chain.Chain, lo, hi float64, strikeOK func(strike float64) bool) *pricing.Quote {
	for _, row := range c.Rows {
		q := row.Put
		if q.Delta >= lo && q.Delta <= hi && strikeOK(q.Strike) {
			return q
		}
	}
	return nil
}

func legFromQuote(action string, c *chain.Chain, q *pricing.Quote) Leg {
	return Leg{
		Action:     action,
		Type:       q.Type,
		Strike:     q.Strike,
		Expiration: c.Expiration,
		Price:      q.Mid,
		Delta:      q.Delta,
	}
}

//
// ==========================
// Strategy analyzers
// ==========================
//

// analyzeStockReplacement looks for a deep-ITM long call on the longest
// chain: delta in [0.70, 0.80], strike below spot, leverage of at least
// 3x the premium.
func analyzeStockReplacement(f *data.Fundamentals, set *chain.LeapsChainSet) Recommendation {
	c := set.Longest()
	if c == nil {
		return notViable(StockReplacement, "no LEAPS chain available")
	}

	q := findCall(c, 0.70, 0.80, func(s float64) bool { return s < c.Spot })
	if q == nil {
		return notViable(StockReplacement, "no call with delta 0.70-0.80 below spot")
	}

	leverage := c.Spot / q.Mid
	if leverage < 3 || q.Delta < 0.70 {
		return notViable(StockReplacement,
			fmt.Sprintf("leverage %.2fx below 3x threshold", leverage))
	}

	return Recommendation{
		Strategy: StockReplacement,
		Viable:   true,
		Legs:     []Leg{legFromQuote("buy", c, q)},
		Economics: &Economics{
			CapitalRequired:   q.Mid * contractMultiplier,
			Breakeven:         q.Breakeven,
			ExpectedReturnPct: q.AnnualizedReturn * 100,
			MaxLoss:           q.Mid * contractMultiplier,
			MaxGain:           nil, // unlimited
		},
		Pros: []string{
			fmt.Sprintf("%.1fx leverage versus owning shares", leverage),
			"Deep ITM call tracks the stock closely",
		},
		Cons: []string{
			"Premium decays to zero at expiration",
			"No dividends collected",
		},
		Risk:  RiskMedium,
		Skill: SkillIntermediate,
	}
}

// analyzePMCC builds a poor man's covered call: a deep-ITM long call on
// the longest chain financed by a short OTM call on the nearest chain.
func analyzePMCC(f *data.Fundamentals, set *chain.LeapsChainSet) Recommendation {
	long, short := set.Longest(), set.Nearest()
	if long == nil || short == nil {
		return notViable(PMCC, "no LEAPS chain available")
	}

	longLeg := findCall(long, 0.70, 1.0, func(s float64) bool { return s < long.Spot })
	if longLeg == nil {
		return notViable(PMCC, "no long call with delta >= 0.70 below spot")
	}
	shortLeg := findCall(short, 0.25, 0.35, func(s float64) bool { return s > short.Spot })
	if shortLeg == nil {
		return notViable(PMCC, "no short call with delta 0.25-0.35 above spot")
	}

	netDebit := longLeg.Mid - shortLeg.Mid
	maxProfit := (shortLeg.Strike - longLeg.Strike - netDebit) * contractMultiplier
	if netDebit <= 0 || maxProfit <= 0 {
		return notViable(PMCC, "spread width does not cover the net debit")
	}
	roi := maxProfit / (netDebit * contractMultiplier) * 100
	if roi <= 15 {
		return notViable(PMCC, fmt.Sprintf("ROI %.1f%% below 15%% threshold", roi))
	}

	return Recommendation{
		Strategy: PMCC,
		Viable:   true,
		Legs: []Leg{
			legFromQuote("buy", long, longLeg),
			legFromQuote("sell", short, shortLeg),
		},
		Economics: &Economics{
			CapitalRequired:   netDebit * contractMultiplier,
			Breakeven:         longLeg.Strike + netDebit,
			ExpectedReturnPct: roi,
			MaxLoss:           netDebit * contractMultiplier,
			MaxGain:           ptr(maxProfit),
		},
		Pros: []string{
			"Short premium reduces the cost basis",
			"Repeatable income against the long LEAPS",
		},
		Cons: []string{
			"Upside capped at the short strike",
			"Two legs to manage",
		},
		Risk:  RiskMedium,
		Skill: SkillAdvanced,
	}
}

// analyzeGrowth pairs a near-the-money call on the medium-term chain with
// strong revenue growth and a high analyst target.
func analyzeGrowth(f *data.Fundamentals, set *chain.LeapsChainSet) Recommendation {
	c := set.Medium()
	if c == nil {
		return notViable(Growth, "no LEAPS chain available")
	}

	if f.RevenueGrowth < 15 {
		return notViable(Growth, fmt.Sprintf("revenue growth %.1f%% below 15%%", f.RevenueGrowth))
	}
	if f.TargetUpside < 20 {
		return notViable(Growth, fmt.Sprintf("price target upside %.1f%% below 20%%", f.TargetUpside))
	}

	q := findCall(c, 0.40, 0.60, func(s float64) bool { return s >= c.Spot })
	if q == nil {
		return notViable(Growth, "no call with delta 0.40-0.60 at or above spot")
	}
	if q.Mid <= 2 {
		return notViable(Growth, fmt.Sprintf("premium $%.2f too thin", q.Mid))
	}

	// Return if the stock reaches the analyst target by expiration.
	projected := f.PriceTarget - q.Strike
	if projected < 0 {
		projected = 0
	}
	roi := (projected - q.Mid) / q.Mid * 100
	if roi <= 50 {
		return notViable(Growth, fmt.Sprintf("projected ROI %.1f%% below 50%%", roi))
	}

	return Recommendation{
		Strategy: Growth,
		Viable:   true,
		Legs:     []Leg{legFromQuote("buy", c, q)},
		Economics: &Economics{
			CapitalRequired:   q.Mid * contractMultiplier,
			Breakeven:         q.Breakeven,
			ExpectedReturnPct: roi,
			MaxLoss:           q.Mid * contractMultiplier,
			MaxGain:           nil,
		},
		Pros: []string{
			fmt.Sprintf("Revenue growing %.1f%% with %.1f%% target upside", f.RevenueGrowth, f.TargetUpside),
			"Near-the-money delta keeps the premium reasonable",
		},
		Cons: []string{
			"Needs the growth story to play out before expiration",
			"Higher theta than deep ITM alternatives",
		},
		Risk:  RiskMediumHigh,
		Skill: SkillIntermediate,
	}
}

// analyzeValue wants a cheap, profitable company and an ITM call whose
// price is mostly intrinsic. The fundamentals gate short-circuits before
// any chain work.
func analyzeValue(f *data.Fundamentals, set *chain.LeapsChainSet) Recommendation {
	if f.PERatio <= 0 || f.PERatio > 20 {
		return notViable(Value, fmt.Sprintf("P/E %.1f outside value range (0, 20]", f.PERatio))
	}
	if f.ROE < 12 {
		return notViable(Value, fmt.Sprintf("ROE %.1f%% below 12%%", f.ROE))
	}
	if f.TargetUpside <= 10 {
		return notViable(Value, fmt.Sprintf("price target upside %.1f%% not above 10%%", f.TargetUpside))
	}

	c := set.Longest()
	if c == nil {
		return notViable(Value, "no LEAPS chain available")
	}

	q := findCall(c, 0.60, 0.70, func(s float64) bool { return s < c.Spot })
	if q == nil {
		return notViable(Value, "no call with delta 0.60-0.70 below spot")
	}
	if q.TimeValue >= q.Intrinsic {
		return notViable(Value, "time value exceeds intrinsic value")
	}

	return Recommendation{
		Strategy: Value,
		Viable:   true,
		Legs:     []Leg{legFromQuote("buy", c, q)},
		Economics: &Economics{
			CapitalRequired:   q.Mid * contractMultiplier,
			Breakeven:         q.Breakeven,
			ExpectedReturnPct: q.AnnualizedReturn * 100,
			MaxLoss:           q.Mid * contractMultiplier,
			MaxGain:           nil,
		},
		Pros: []string{
			fmt.Sprintf("P/E %.1f with ROE %.1f%%", f.PERatio, f.ROE),
			"Premium is mostly intrinsic, little decay to fight",
		},
		Cons: []string{
			"Value theses can take longer than the option's life",
		},
		Risk:  RiskLow,
		Skill: SkillBeginner,
	}
}

// analyzeProtectivePut prices downside insurance: a far-OTM put on the
// nearest chain costing under 8% of spot, protecting below 90% of spot.
func analyzeProtectivePut(f *data.Fundamentals, set *chain.LeapsChainSet) Recommendation {
	c := set.Nearest()
	if c == nil {
		return notViable(ProtectivePut, "no LEAPS chain available")
	}

	q := findPut(c, -0.20, -0.10, func(s float64) bool { return s < c.Spot*0.9 })
	if q == nil {
		return notViable(ProtectivePut, "no put with delta -0.20..-0.10 below 90% of spot")
	}

	insuranceCost := q.Mid / c.Spot * 100
	protection := (c.Spot - q.Strike) / c.Spot * 100
	if insuranceCost >= 8 {
		return notViable(ProtectivePut, fmt.Sprintf("insurance cost %.1f%% of spot too high", insuranceCost))
	}
	if protection <= 10 {
		return notViable(ProtectivePut, fmt.Sprintf("protection %.1f%% too shallow", protection))
	}

	shareCost := c.Spot * contractMultiplier
	return Recommendation{
		Strategy: ProtectivePut,
		Viable:   true,
		Legs:     []Leg{legFromQuote("buy", c, q)},
		Economics: &Economics{
			CapitalRequired:   shareCost + q.Mid*contractMultiplier,
			Breakeven:         c.Spot + q.Mid,
			ExpectedReturnPct: -insuranceCost,
			MaxLoss:           (c.Spot-q.Strike)*contractMultiplier + q.Mid*contractMultiplier,
			MaxGain:           nil,
		},
		Pros: []string{
			fmt.Sprintf("Floor at %.0f for %.1f%% of spot", q.Strike, insuranceCost),
			"Keeps full upside in the shares",
		},
		Cons: []string{
			"Insurance premium is a guaranteed drag on returns",
		},
		Risk:  RiskLow,
		Skill: SkillBeginner,
	}
}

// analyzeDiagonalSpread is a declared placeholder: always non-viable.
func analyzeDiagonalSpread(f *data.Fundamentals, set *chain.LeapsChainSet) Recommendation {
	return notViable(DiagonalSpread, "diagonal spread analysis not implemented")
}

// qualityScore is the ranking function of the API variant: expected
// return weighted by the probability proxy.
func qualityScore(rec Recommendation) float64 {
	if rec.Economics == nil {
		return 0
	}
	return rec.Economics.ExpectedReturnPct * rec.Probability
}
