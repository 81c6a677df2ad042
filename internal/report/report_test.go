package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/Renotrader31/LEAPS/internal/screener"
	"github.com/Renotrader31/LEAPS/internal/strategy"
	"github.com/Renotrader31/LEAPS/internal/testutil"
)

func sampleResults() []screener.Result {
	return []screener.Result{
		{
			Fundamentals: testutil.Fundamentals(),
			Provenance:   "mock",
			Liquidity:    "Good",
			Risk:         strategy.RiskLow,
			Recommendations: []strategy.Recommendation{
				{
					Strategy: strategy.StockReplacement,
					Viable:   true,
					Economics: &strategy.Economics{
						CapitalRequired:   5500,
						ExpectedReturnPct: 40,
					},
				},
			},
		},
	}
}

func TestWriteJSONRoundTrip(t *testing.T) {
	dir := t.TempDir()

	if err := WriteJSON(sampleResults(), dir); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "screen.json"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var out []screener.Result
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshaling output: %v", err)
	}
	if len(out) != 1 || out[0].Fundamentals.Ticker != "TEST" {
		t.Fatalf("unexpected round-trip result: %+v", out)
	}
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()

	if err := WriteCSV(sampleResults(), dir); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "screen.csv"))
	if err != nil {
		t.Fatalf("opening output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header + 1", len(rows))
	}
	if rows[0][0] != "ticker" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "TEST" || rows[1][10] != "stock_replacement" {
		t.Fatalf("data row = %v", rows[1])
	}
}
