// Package data supplies per-ticker fundamentals and raw options blobs.
//
// Providers form a chain: each implementation may delegate to an optional
// secondary provider when it cannot serve a request. Falling back is an
// observable outcome (the returned record is tagged Fallback and logged),
// never a silently swallowed error.
package data

import "time"

// Provenance tags where a record came from.
type Provenance string

const (
	Live     Provenance = "live"
	Fallback Provenance = "fallback"
	Mock     Provenance = "mock"
)

// Fundamentals is the per-ticker record the screener filters on.
//
// Invariants: Volume >= 0; PERatio > 0 when quoted (zero means not quoted);
// TargetUpside = (PriceTarget - Price) / Price * 100.
type Fundamentals struct {
	Ticker        string     `json:"ticker"`
	Name          string     `json:"name"`
	Sector        string     `json:"sector"`
	Price         float64    `json:"price"`
	Volume        int64      `json:"volume"`
	AvgVolume10D  int64      `json:"avgVolume10d"`
	MarketCap     float64    `json:"marketCap"`
	PERatio       float64    `json:"peRatio"`
	ROE           float64    `json:"roe"`
	DebtToEquity  float64    `json:"debtToEquity"`
	RevenueGrowth float64    `json:"revenueGrowth"`
	EPSGrowth     float64    `json:"epsGrowth"`
	Beta          float64    `json:"beta"`
	RSI14         float64    `json:"rsi14"`
	AnalystRating float64    `json:"analystRating"` // 1 = strong buy ... 5 = strong sell
	PriceTarget   float64    `json:"priceTarget"`
	TargetUpside  float64    `json:"targetUpside"` // percent
	Volatility30D float64    `json:"volatility30d"`
	Source        Provenance `json:"source"`
}

// RawContract is one option contract as returned by a contracts-array
// upstream (Polygon reference shape).
type RawContract struct {
	Ticker         string  `json:"ticker"`
	UnderlyingTick string  `json:"underlying_ticker"`
	ContractType   string  `json:"contract_type"`
	ExpirationDate string  `json:"expiration_date"` // ISO-8601 date
	StrikePrice    float64 `json:"strike_price"`
}

// RawQuote is the minimal quote shape the chain synthesizer reads.
type RawQuote struct {
	RegularMarketPrice float64 `json:"regularMarketPrice"`
}

// RawOptionsData is the heterogeneous upstream options blob.
// Exactly one of the shape fields is normally populated:
//
//   - ExpirationDates / ByExpiration: date-keyed shape, unix-second keys
//     (Yahoo options chain)
//   - Contracts: array-of-contracts shape with ISO expiration_date strings
//     (Polygon reference endpoint)
//
// A nil or empty blob makes the expiration selector fall back to its
// synthetic LEAPS schedule.
type RawOptionsData struct {
	Source          string                   `json:"source"` // "yahoo" | "polygon" | "mock"
	Quote           *RawQuote                `json:"quote,omitempty"`
	ExpirationDates []string                 `json:"expirationDates,omitempty"`
	ByExpiration    map[string][]RawContract `json:"byExpiration,omitempty"`
	Contracts       []RawContract            `json:"contracts,omitempty"`
	FetchedAt       time.Time                `json:"fetchedAt"`
}

// SpotPrice returns the quoted spot, or 0 when no quote is attached.
func (r *RawOptionsData) SpotPrice() float64 {
	if r == nil || r.Quote == nil {
		return 0
	}
	return r.Quote.RegularMarketPrice
}

// Provider supplies fundamentals and raw options data for a ticker.
type Provider interface {
	Secondary() Provider
	GetFundamentals(ticker string) (*Fundamentals, error)
	GetRawOptions(ticker string) (*RawOptionsData, error)
}
