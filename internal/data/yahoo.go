package data

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Renotrader31/LEAPS/internal/logger"
)

// yahooProvider fetches quotes and the date-keyed options chain shape.
//
// Any upstream failure delegates to the secondary provider; the returned
// record is re-tagged Fallback so callers can see the downgrade instead
// of mistaking mocked numbers for live ones.
type yahooProvider struct {
	client    *resty.Client
	secondary Provider
}

// yahooOptionsResp models the subset of the Yahoo options response the
// screener consumes: the quote and the unix-second expiration list.
type yahooOptionsResp struct {
	OptionChain struct {
		Result []struct {
			ExpirationDates []int64 `json:"expirationDates"`
			Quote           struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				MarketCap          float64 `json:"marketCap"`
				TrailingPE         float64 `json:"trailingPE"`
				RegularMarketVol   int64   `json:"regularMarketVolume"`
			} `json:"quote"`
		} `json:"result"`
	} `json:"optionChain"`
}

// NewYahooProvider constructs a Yahoo-shaped provider with secondary as
// its fallback (typically the mock provider).
func NewYahooProvider(baseURL string, secondary Provider) Provider {
	logger.Infof("initializing yahoo data provider")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "leaps-screener/1.0")
	return &yahooProvider{client: client, secondary: secondary}
}

func (yahooProv *yahooProvider) Secondary() Provider { return yahooProv.secondary }

func (yahooProv *yahooProvider) GetFundamentals(ticker string) (*Fundamentals, error) {
	var body yahooOptionsResp
	resp, err := yahooProv.client.R().
		SetResult(&body).
		Get("/v7/finance/options/" + ticker)

	if err != nil || resp.IsError() || len(body.OptionChain.Result) == 0 {
		return yahooProv.fallbackFundamentals(ticker, err, resp)
	}

	q := body.OptionChain.Result[0].Quote
	if q.RegularMarketPrice <= 0 {
		return yahooProv.fallbackFundamentals(ticker, fmt.Errorf("no market price"), resp)
	}

	// Yahoo's quote block covers only part of the record; the remainder
	// comes from the secondary (mock) provider so the attribute set stays
	// complete for the strategy engine.
	f, err := yahooProv.secondaryFundamentals(ticker)
	if err != nil {
		return nil, err
	}
	f.Price = q.RegularMarketPrice
	if q.MarketCap > 0 {
		f.MarketCap = q.MarketCap
	}
	if q.TrailingPE > 0 {
		f.PERatio = q.TrailingPE
	}
	if q.RegularMarketVol > 0 {
		f.Volume = q.RegularMarketVol
	}
	f.TargetUpside = (f.PriceTarget - f.Price) / f.Price * 100
	f.Source = Live
	return f, nil
}

func (yahooProv *yahooProvider) GetRawOptions(ticker string) (*RawOptionsData, error) {
	var body yahooOptionsResp
	resp, err := yahooProv.client.R().
		SetResult(&body).
		Get("/v7/finance/options/" + ticker)

	if err != nil {
		return yahooProv.fallbackOptions(ticker, err)
	}
	if resp.IsError() {
		return yahooProv.fallbackOptions(ticker, fmt.Errorf("yahoo options status %d", resp.StatusCode()))
	}
	if len(body.OptionChain.Result) == 0 {
		return yahooProv.fallbackOptions(ticker, fmt.Errorf("empty option chain result"))
	}

	res := body.OptionChain.Result[0]
	out := &RawOptionsData{
		Source:    "yahoo",
		FetchedAt: time.Now().UTC(),
	}
	if res.Quote.RegularMarketPrice > 0 {
		out.Quote = &RawQuote{RegularMarketPrice: res.Quote.RegularMarketPrice}
	}
	for _, ts := range res.ExpirationDates {
		out.ExpirationDates = append(out.ExpirationDates, strconv.FormatInt(ts, 10))
	}

	logger.Debugf("yahoo options %s: %d expirations", ticker, len(out.ExpirationDates))
	return out, nil
}

func (yahooProv *yahooProvider) secondaryFundamentals(ticker string) (*Fundamentals, error) {
	if yahooProv.secondary == nil {
		return nil, fmt.Errorf("yahoo provider has no secondary for %s", ticker)
	}
	return yahooProv.secondary.GetFundamentals(ticker)
}

func (yahooProv *yahooProvider) fallbackFundamentals(ticker string, err error, resp *resty.Response) (*Fundamentals, error) {
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	logger.Infof("yahoo fundamentals %s unavailable (status=%d err=%v), falling back", ticker, status, err)

	f, ferr := yahooProv.secondaryFundamentals(ticker)
	if ferr != nil {
		return nil, ferr
	}
	f.Source = Fallback
	return f, nil
}

func (yahooProv *yahooProvider) fallbackOptions(ticker string, err error) (*RawOptionsData, error) {
	logger.Infof("yahoo options %s unavailable (%v), falling back", ticker, err)
	if yahooProv.secondary != nil {
		return yahooProv.secondary.GetRawOptions(ticker)
	}
	return &RawOptionsData{Source: "mock"}, nil
}
