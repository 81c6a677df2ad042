package screener

import (
	"errors"
	"testing"

	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/testutil"
)

func TestCriteriaMatches(t *testing.T) {
	crit := DefaultCriteria()

	if !crit.Matches(testutil.Fundamentals()) {
		t.Fatal("baseline fundamentals must pass the default gates")
	}

	cases := []struct {
		name   string
		mutate func(f *data.Fundamentals)
	}{
		{"market cap too small", func(f *data.Fundamentals) { f.MarketCap = 0.5e9 }},
		{"volume too thin", func(f *data.Fundamentals) { f.AvgVolume10D = 100_000 }},
		{"PE too high", func(f *data.Fundamentals) { f.PERatio = 80 }},
		{"unprofitable", func(f *data.Fundamentals) { f.PERatio = -4 }},
		{"PE not quoted", func(f *data.Fundamentals) { f.PERatio = 0 }},
		{"ROE too low", func(f *data.Fundamentals) { f.ROE = 4 }},
		{"revenue shrinking", func(f *data.Fundamentals) { f.RevenueGrowth = -2 }},
		{"no upside", func(f *data.Fundamentals) { f.TargetUpside = 3 }},
	}
	for _, c := range cases {
		f := testutil.Fundamentals()
		c.mutate(f)
		if crit.Matches(f) {
			t.Fatalf("%s: must not pass", c.name)
		}
	}
}

// The volume gate compares the int64 share count against the float64
// threshold; the boundary itself passes.
func TestCriteriaVolumeBoundary(t *testing.T) {
	crit := DefaultCriteria()
	crit.MinVolume = 500_000

	f := testutil.Fundamentals()
	f.AvgVolume10D = 500_000
	if !crit.Matches(f) {
		t.Fatal("volume exactly at the threshold must pass")
	}

	f.AvgVolume10D = 499_999
	if crit.Matches(f) {
		t.Fatal("volume one share under the threshold must fail")
	}
}

func TestCriteriaZeroMaxPEUsesNoCap(t *testing.T) {
	crit := DefaultCriteria()
	crit.MaxPE = 0

	f := testutil.Fundamentals()
	f.PERatio = 300
	if !crit.Matches(f) {
		t.Fatal("MaxPE=0 means no PE constraint")
	}
}

func TestExpressionFilter(t *testing.T) {
	f := testutil.Fundamentals() // pe 18, roe 22, beta 1.1

	cases := []struct {
		expr string
		want bool
	}{
		{"", true},
		{"pe < 20", true},
		{"pe < 20 && roe > 25", false},
		{"beta <= 1.5 || upside > 100", true},
		{"marketCap >= 1000000000", true},
	}
	for _, c := range cases {
		crit := Criteria{Expression: c.expr}
		got, err := crit.MatchesExpression(f)
		if err != nil {
			t.Fatalf("%q: %v", c.expr, err)
		}
		if got != c.want {
			t.Fatalf("%q = %v, want %v", c.expr, got, c.want)
		}
	}
}

func TestExpressionFilterRejectsBadInput(t *testing.T) {
	f := testutil.Fundamentals()

	for _, expr := range []string{"pe <", "pe + roe", "unknownField > 1"} {
		crit := Criteria{Expression: expr}
		if _, err := crit.MatchesExpression(f); !errors.Is(err, ErrInvalidExpression) {
			t.Fatalf("%q: err = %v, want ErrInvalidExpression", expr, err)
		}
	}
}
