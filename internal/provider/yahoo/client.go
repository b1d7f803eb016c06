package yahoo

import (
	"net/http"
	"net/url"
)

// baseURL is the public Yahoo Finance query host.
const baseURL = "https://query1.finance.yahoo.com"

// defaultUserAgent is sent unless WithUserAgent overrides it. Yahoo answers
// 429 to requests without a browser-like agent.
const defaultUserAgent = "Mozilla/5.0 (compatible; quoteapi/1.0)"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=yahoo_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ChartAPIClient is a client for the Yahoo Finance chart API.
type ChartAPIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
}

// ChartAPIClientOption is a configuration option for the chart API client.
type ChartAPIClientOption func(*ChartAPIClient)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) ChartAPIClientOption {
	return func(c *ChartAPIClient) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) ChartAPIClientOption {
	return func(c *ChartAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ChartAPIClientOption {
	return func(c *ChartAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithQuery sets additional query parameters to be sent with each request.
func WithQuery(query url.Values) ChartAPIClientOption {
	return func(c *ChartAPIClient) {
		for key, values := range query {
			for _, value := range values {
				c.query.Add(key, value)
			}
		}
	}
}

// WithUserAgent replaces the User-Agent sent with each request. Empty keeps the default.
func WithUserAgent(userAgent string) ChartAPIClientOption {
	return func(c *ChartAPIClient) {
		if userAgent != "" {
			c.header.Set("User-Agent", userAgent)
		}
	}
}

// NewChartAPIClient creates a chart API client for the public query host.
func NewChartAPIClient(options ...ChartAPIClientOption) *ChartAPIClient {
	c := &ChartAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{"Accept": []string{"application/json"}},
		query:      url.Values{},
	}
	WithUserAgent(defaultUserAgent)(c)
	for _, option := range options {
		option(c)
	}
	return c
}
