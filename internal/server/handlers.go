package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Renotrader31/LEAPS/internal/cache"
	"github.com/Renotrader31/LEAPS/internal/data"
	"github.com/Renotrader31/LEAPS/internal/logger"
	"github.com/Renotrader31/LEAPS/internal/screener"
	"github.com/Renotrader31/LEAPS/internal/strategy"
)

// screenRequest is the POST /api/screen body.
type screenRequest struct {
	Criteria    *screener.Criteria `json:"criteria"`
	Tickers     []string           `json:"tickers,omitempty"`
	UseLiveData bool               `json:"useLiveData"`
}

// screenResponse is the screening envelope.
type screenResponse struct {
	Success         bool                                   `json:"success"`
	RequestID       string                                 `json:"requestId"`
	Timestamp       time.Time                              `json:"timestamp"`
	DataSource      string                                 `json:"dataSource"`
	TotalResults    int                                    `json:"totalResults"`
	Results         []screener.Result                      `json:"results"`
	Strategies      map[string]int                         `json:"strategies"`
	StrategyResults map[string][]strategy.Recommendation   `json:"strategyResults"`
}

type errorResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
	Error     string `json:"error"`
}

// handleScreen screens a ticker universe against the request criteria.
// Results are cached per (criteria digest, time bucket) so repeated
// requests inside one window skip the provider entirely.
func (s *Server) handleScreen(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, requestID, "POST required")
		return
	}

	var req screenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, requestID, fmt.Sprintf("decoding request: %v", err))
		return
	}

	crit := screener.DefaultCriteria()
	if req.Criteria != nil {
		crit = *req.Criteria
	}
	tickers := req.Tickers
	if len(tickers) == 0 {
		tickers = s.universe
	}

	key := cache.BucketKey(screenCacheID(tickers, crit), s.now(), s.window)
	if cached, ok := s.cache.Get(key); ok {
		logger.Debugf("request %s served from cache", requestID)
		resp := cached.(screenResponse)
		resp.RequestID = requestID
		writeJSON(w, http.StatusOK, resp)
		return
	}

	results := s.pipeline.Screen(tickers, crit)

	resp := screenResponse{
		Success:         true,
		RequestID:       requestID,
		Timestamp:       s.now(),
		DataSource:      dataSource(results),
		TotalResults:    len(results),
		Results:         results,
		Strategies:      map[string]int{},
		StrategyResults: map[string][]strategy.Recommendation{},
	}
	for _, res := range results {
		for _, rec := range res.Recommendations {
			resp.Strategies[rec.Strategy]++
			resp.StrategyResults[rec.Strategy] = append(resp.StrategyResults[rec.Strategy], rec)
		}
	}

	s.cache.Set(key, resp)
	writeJSON(w, http.StatusOK, resp)
}

// handleChain returns the synthesized LEAPS chain set for one ticker.
func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()

	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, requestID, "GET required")
		return
	}

	ticker := strings.ToUpper(strings.TrimPrefix(r.URL.Path, "/api/chain/"))
	if ticker == "" || strings.Contains(ticker, "/") {
		writeError(w, http.StatusBadRequest, requestID, "ticker required: /api/chain/{ticker}")
		return
	}

	f, err := s.pipeline.Provider.GetFundamentals(ticker)
	if err != nil {
		writeError(w, http.StatusBadGateway, requestID, fmt.Sprintf("fundamentals: %v", err))
		return
	}
	raw, err := s.pipeline.Provider.GetRawOptions(ticker)
	if err != nil {
		logger.Debugf("options data for %s unavailable: %v", ticker, err)
		raw = &data.RawOptionsData{Source: "mock"}
	}

	set, err := s.pipeline.Synth.BuildLeapsSet(ticker, f.Price, raw)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, requestID, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"requestId": requestID,
		"timestamp": s.now(),
		"chainSet":  set,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": s.now(),
		"cacheSize": s.cache.Len(),
	})
}

// screenCacheID digests the request into a stable cache identity.
func screenCacheID(tickers []string, crit screener.Criteria) string {
	sorted := append([]string(nil), tickers...)
	sort.Strings(sorted)
	return fmt.Sprintf("screen:%s:%.0f:%.0f:%.1f:%.1f:%.1f:%.1f:%s:%d:%s",
		strings.Join(sorted, ","),
		crit.MinMarketCap, crit.MinVolume, crit.MaxPE, crit.MinROE,
		crit.MinRevGrowth, crit.MinUpside, crit.Strategy, crit.MaxResults,
		crit.Expression)
}

// dataSource summarizes provenance across results: "live" only when every
// result came from a live chain, "mixed" when they disagree.
func dataSource(results []screener.Result) string {
	if len(results) == 0 {
		return "none"
	}
	first := results[0].Provenance
	for _, r := range results[1:] {
		if r.Provenance != first {
			return "mixed"
		}
	}
	return first
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf("encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, requestID, msg string) {
	logger.Debugf("request %s failed: %s", requestID, msg)
	writeJSON(w, status, errorResponse{Success: false, RequestID: requestID, Error: msg})
}
