package data

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Renotrader31/LEAPS/internal/logger"
)

// polygonProvider fetches the contracts-array options shape from the
// Polygon reference endpoint, following pagination via next_url.
type polygonProvider struct {
	apiKey    string
	client    *resty.Client
	secondary Provider
}

// polygonContractsResp models the paginated contracts response.
type polygonContractsResp struct {
	Results   []RawContract `json:"results"`
	Status    string        `json:"status"`
	RequestID string        `json:"request_id"`
	NextURL   string        `json:"next_url"`
}

// NewPolygonProvider constructs a Polygon-shaped provider.
func NewPolygonProvider(baseURL, apiKey string, secondary Provider) Provider {
	logger.Infof("initializing polygon data provider")
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(60 * time.Second).
		SetHeader("Accept", "application/json").
		SetAuthToken(apiKey)
	return &polygonProvider{apiKey: apiKey, client: client, secondary: secondary}
}

func (polygonProv *polygonProvider) Secondary() Provider { return polygonProv.secondary }

// GetFundamentals is not served by the contracts endpoint; the request is
// delegated to the secondary provider.
func (polygonProv *polygonProvider) GetFundamentals(ticker string) (*Fundamentals, error) {
	if polygonProv.secondary != nil {
		return polygonProv.secondary.GetFundamentals(ticker)
	}
	return nil, fmt.Errorf("GetFundamentals not implemented for polygon provider")
}

func (polygonProv *polygonProvider) GetRawOptions(ticker string) (*RawOptionsData, error) {
	out := &RawOptionsData{
		Source:    "polygon",
		FetchedAt: time.Now().UTC(),
	}

	// First page: LEAPS-relevant contracts only (expirations at least six
	// months out; the selector applies the strict 9-month cut afterwards).
	horizon := time.Now().UTC().AddDate(0, 6, 0).Format("2006-01-02")
	req := polygonProv.client.R().
		SetQueryParams(map[string]string{
			"underlying_ticker":   ticker,
			"expiration_date.gte": horizon,
			"limit":               "1000",
			"apiKey":              polygonProv.apiKey,
		})

	next := "/v3/reference/options/contracts"
	for next != "" {
		logger.Tracef("polygon contracts request %s", next)

		var body polygonContractsResp
		resp, err := req.SetResult(&body).Get(next)
		if err != nil {
			return polygonProv.fallbackOptions(ticker, err)
		}
		if resp.IsError() {
			return polygonProv.fallbackOptions(ticker,
				fmt.Errorf("polygon contracts status %d", resp.StatusCode()))
		}

		out.Contracts = append(out.Contracts, body.Results...)

		// next_url is absolute and already carries the cursor; only the
		// auth token needs re-attaching.
		next = body.NextURL
		req = polygonProv.client.R().SetQueryParam("apiKey", polygonProv.apiKey)
	}

	logger.Debugf("polygon options %s: %d contracts", ticker, len(out.Contracts))
	return out, nil
}

func (polygonProv *polygonProvider) fallbackOptions(ticker string, err error) (*RawOptionsData, error) {
	logger.Infof("polygon options %s unavailable (%v), falling back", ticker, err)
	if polygonProv.secondary != nil {
		return polygonProv.secondary.GetRawOptions(ticker)
	}
	return &RawOptionsData{Source: "mock"}, nil
}
