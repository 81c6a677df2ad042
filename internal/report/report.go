package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Renotrader31/LEAPS/internal/screener"
)

func WriteJSON(results []screener.Result, outdir string) error {
	b, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(outdir, "screen.json"), b, 0644)
}

func WriteCSV(results []screener.Result, outdir string) error {
	f, err := os.Create(filepath.Join(outdir, "screen.csv"))
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	headers := []string{"ticker", "price", "market_cap", "pe", "roe", "rev_growth", "upside", "risk", "liquidity", "provenance", "top_strategy", "expected_return_pct", "recommendations_json"}
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, res := range results {
		fund := res.Fundamentals
		topStrategy := ""
		expectedReturn := ""
		if len(res.Recommendations) > 0 {
			topStrategy = res.Recommendations[0].Strategy
			if econ := res.Recommendations[0].Economics; econ != nil {
				expectedReturn = fmt.Sprintf("%.2f", econ.ExpectedReturnPct)
			}
		}
		recsJson, _ := json.Marshal(res.Recommendations)
		row := []string{fund.Ticker, fmt.Sprintf("%.2f", fund.Price), fmt.Sprintf("%.0f", fund.MarketCap), fmt.Sprintf("%.2f", fund.PERatio), fmt.Sprintf("%.2f", fund.ROE), fmt.Sprintf("%.2f", fund.RevenueGrowth), fmt.Sprintf("%.2f", fund.TargetUpside), string(res.Risk), res.Liquidity, res.Provenance, topStrategy, expectedReturn, string(recsJson)}
		_ = w.Write(row)
	}
	return nil
}
