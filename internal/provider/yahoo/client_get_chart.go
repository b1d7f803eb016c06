package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// ErrNotFound is returned when Yahoo has no chart for the symbol.
var ErrNotFound = errors.New("symbol not found")

// Chart is a decoded chart response for one symbol.
type Chart struct {
	Symbol    string
	Currency  string
	Timezone  string
	GMTOffset int
	Bars      []Bar
}

// Bar is one interval of the chart. Any value may be nil when Yahoo reports null.
type Bar struct {
	Timestamp time.Time
	Open      *float64
	High      *float64
	Low       *float64
	Close     *float64
	Volume    *float64
}

// GetChart retrieves OHLCV bars for symbol between from and to.
func (c *ChartAPIClient) GetChart(ctx context.Context, symbol string, from, to time.Time, interval string, opts ...ChartAPIClientOption) (*Chart, error) {
	var override = &ChartAPIClient{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}

	query := maps.Clone(override.query)
	query.Set("period1", strconv.FormatInt(from.Unix(), 10))
	query.Set("period2", strconv.FormatInt(to.Unix(), 10))
	query.Set("interval", interval)
	query.Set("includePrePost", "false")

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", override.baseURL, url.PathEscape(symbol), query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusNotFound:
		return nil, ErrNotFound

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("unauthorized")

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("unexpected status code: %d: %s", res.StatusCode, string(b))
	}

	var body chartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding chart response: %w", err)
	}
	if e := body.Chart.Error; e != nil {
		if e.Code == "Not Found" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("chart error %s: %s", e.Code, e.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, ErrNotFound
	}

	result := body.Chart.Result[0]
	// {
	//   "meta": {"currency": "JPY", "symbol": "7203.T", "exchangeTimezoneName": "Asia/Tokyo", "gmtoffset": 32400},
	//   "timestamp": [1704412800, 1704672000],
	//   "indicators": {"quote": [{"open": [...], "high": [...], "low": [...], "close": [...], "volume": [...]}]}
	// }
	var series quoteSeries
	if len(result.Indicators.Quote) > 0 {
		series = result.Indicators.Quote[0]
	}

	bars := make([]Bar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		bars = append(bars, Bar{
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      at(series.Open, i),
			High:      at(series.High, i),
			Low:       at(series.Low, i),
			Close:     at(series.Close, i),
			Volume:    at(series.Volume, i),
		})
	}

	return &Chart{
		Symbol:    result.Meta.Symbol,
		Currency:  result.Meta.Currency,
		Timezone:  result.Meta.ExchangeTimezoneName,
		GMTOffset: result.Meta.GMTOffset,
		Bars:      bars,
	}, nil
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Currency             string `json:"currency"`
		Symbol               string `json:"symbol"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GMTOffset            int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []quoteSeries `json:"quote"`
	} `json:"indicators"`
}

type quoteSeries struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

// at returns vs[i], or nil when the column is shorter than the timestamp list.
func at(vs []*float64, i int) *float64 {
	if i < len(vs) {
		return vs[i]
	}
	return nil
}
