package httpx

import (
    "net"
    "net/http"
    "time"

    "go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultUserAgent is browser-like; Yahoo answers 429 to bare Go agents.
const DefaultUserAgent = "Mozilla/5.0 (compatible; quoteapi/1.0)"

// Client carries the shared outbound http.Client and the agent upstream
// clients identify with. Requests are traced through otelhttp; without a
// configured tracer provider that is a no-op.
type Client struct {
    HTTP      *http.Client
    UserAgent string
}

func New(timeout time.Duration) *Client {
    transport := &http.Transport{
        Proxy: http.ProxyFromEnvironment,
        DialContext: (&net.Dialer{Timeout: 3 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
        MaxIdleConns:          100,
        MaxIdleConnsPerHost:   20,
        ForceAttemptHTTP2:     true,
        IdleConnTimeout:       90 * time.Second,
        TLSHandshakeTimeout:   3 * time.Second,
        ExpectContinueTimeout: 1 * time.Second,
        ResponseHeaderTimeout: 10 * time.Second,
    }
    return &Client{
        HTTP:      &http.Client{Timeout: timeout, Transport: otelhttp.NewTransport(transport)},
        UserAgent: DefaultUserAgent,
    }
}
