package screener

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/Renotrader31/LEAPS/internal/chain"
	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/strategy"
	"github.com/Renotrader31/LEAPS/internal/testutil"
)

// stubProvider serves fixed fundamentals per ticker and an empty options
// blob, so chain sets come from the synthetic expiration schedule.
type stubProvider struct {
	records map[string]*data.Fundamentals
}

func (s *stubProvider) Secondary() data.Provider { return nil }

func (s *stubProvider) GetFundamentals(ticker string) (*data.Fundamentals, error) {
	f, ok := s.records[ticker]
	if !ok {
		return nil, fmt.Errorf("no record for %s", ticker)
	}
	return f, nil
}

func (s *stubProvider) GetRawOptions(ticker string) (*data.RawOptionsData, error) {
	return &data.RawOptionsData{Source: "mock"}, nil
}

func newTestPipeline(records map[string]*data.Fundamentals) *Pipeline {
	synth := chain.NewSynthesizer(rand.New(rand.NewSource(11)))
	synth.Now = func() time.Time {
		return time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)
	}
	p := NewPipeline(&stubProvider{records: records}, synth)
	p.BatchDelay = 0
	return p
}

func TestScreenTickerPassesGates(t *testing.T) {
	p := newTestPipeline(map[string]*data.Fundamentals{"TEST": testutil.Fundamentals()})

	res, err := p.ScreenTicker("TEST", DefaultCriteria())
	if err != nil {
		t.Fatalf("ScreenTicker: %v", err)
	}
	if res == nil {
		t.Fatal("baseline fundamentals must survive screening")
	}
	if res.Provenance != "mock" {
		t.Fatalf("provenance = %q, want mock", res.Provenance)
	}
	if res.Risk != strategy.RiskLow {
		t.Fatalf("risk = %s, want Low", res.Risk)
	}
	if res.Liquidity == "" {
		t.Fatal("liquidity grade missing")
	}
	if len(res.Recommendations) > 3 {
		t.Fatalf("%d recommendations, cap is 3", len(res.Recommendations))
	}
	for _, rec := range res.Recommendations {
		if !rec.Viable {
			t.Fatalf("non-viable %s in the top list", rec.Strategy)
		}
	}
}

func TestScreenTickerRejectsOnCriteria(t *testing.T) {
	f := testutil.Fundamentals()
	f.MarketCap = 0.2e9
	p := newTestPipeline(map[string]*data.Fundamentals{"TINY": f})

	res, err := p.ScreenTicker("TINY", DefaultCriteria())
	if err != nil {
		t.Fatalf("ScreenTicker: %v", err)
	}
	if res != nil {
		t.Fatal("sub-cap ticker must be filtered out")
	}
}

func TestScreenTickerPropagatesProviderError(t *testing.T) {
	p := newTestPipeline(map[string]*data.Fundamentals{})

	if _, err := p.ScreenTicker("MISSING", DefaultCriteria()); err == nil {
		t.Fatal("missing fundamentals must error")
	}
}

func TestScreenSortsByUpsideAndTruncates(t *testing.T) {
	records := map[string]*data.Fundamentals{}
	tickers := []string{"AAA", "BBB", "CCC", "DDD"}
	for i, tk := range tickers {
		f := testutil.Fundamentals()
		f.Ticker = tk
		f.TargetUpside = float64(15 + i*10)
		records[tk] = f
	}
	p := newTestPipeline(records)

	crit := DefaultCriteria()
	crit.MaxResults = 2
	results := p.Screen(tickers, crit)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Fundamentals.Ticker != "DDD" || results[1].Fundamentals.Ticker != "CCC" {
		t.Fatalf("results not sorted by upside: %s, %s",
			results[0].Fundamentals.Ticker, results[1].Fundamentals.Ticker)
	}
}

func TestScreenSkipsFailingTickers(t *testing.T) {
	p := newTestPipeline(map[string]*data.Fundamentals{"TEST": testutil.Fundamentals()})

	results := p.Screen([]string{"TEST", "MISSING"}, DefaultCriteria())
	if len(results) != 1 {
		t.Fatalf("got %d results, want the one healthy ticker", len(results))
	}
}

func TestScreenStrategyFilter(t *testing.T) {
	p := newTestPipeline(map[string]*data.Fundamentals{"TEST": testutil.Fundamentals()})

	crit := DefaultCriteria()
	crit.Strategy = strategy.DiagonalSpread // never viable
	results := p.Screen([]string{"TEST"}, crit)
	if len(results) != 0 {
		t.Fatal("diagonal spread filter must reject everything")
	}
}
