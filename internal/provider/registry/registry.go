// Package registry builds the configured upstream backend.
package registry

import (
    "fmt"
    "strings"
    "time"

    "github.com/sirupsen/logrus"

    "quoteapi/internal/config"
    "quoteapi/internal/httpx"
    "quoteapi/internal/provider"
    "quoteapi/internal/provider/financego"
    "quoteapi/internal/provider/polygon"
    "quoteapi/internal/provider/ratelimit"
    "quoteapi/internal/provider/yahoo"
    "quoteapi/internal/provider/yahooadapter"
)

// New returns the backend named by cfg.Provider.Name wrapped with the
// configured pacing. hc may be nil, in which case a client is built from
// the server request timeout.
func New(cfg config.Config, hc *httpx.Client, log logrus.FieldLogger) (provider.Provider, error) {
    if hc == nil {
        hc = httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
    }
    if log == nil { log = logrus.StandardLogger() }

    p, err := build(cfg, hc)
    if err != nil { return nil, err }

    pc := cfg.Provider
    p = ratelimit.Wrap(p, pc.MaxRequestsPerMinute, pc.Burst, time.Duration(pc.MinRequestIntervalSec)*time.Second)
    log.WithFields(logrus.Fields{
        "provider":     p.Name(),
        "history_days": pc.HistoryDays,
        "rpm":          pc.MaxRequestsPerMinute,
        "min_interval": pc.MinRequestIntervalSec,
    }).Info("upstream provider ready")
    return p, nil
}

func build(cfg config.Config, hc *httpx.Client) (provider.Provider, error) {
    name := strings.TrimSpace(strings.ToLower(cfg.Provider.Name))
    switch name {
    case "", "yahoo":
        opts := []yahoo.ChartAPIClientOption{yahoo.WithHTTPClient(hc.HTTP), yahoo.WithUserAgent(hc.UserAgent)}
        if cfg.Yahoo.BaseURL != "" {
            opts = append(opts, yahoo.WithBaseURL(strings.TrimRight(cfg.Yahoo.BaseURL, "/")))
        }
        client := yahoo.NewChartAPIClient(opts...)
        return yahooadapter.New(yahooadapter.Config{
            HistoryDays: cfg.Provider.HistoryDays,
            Interval:    cfg.Yahoo.Interval,
        }, client), nil
    case "financego":
        p, err := financego.New(financego.Config{
            HistoryDays: cfg.Provider.HistoryDays,
            Timezone:    cfg.FinanceGo.Timezone,
        })
        if err != nil { return nil, err }
        return p, nil
    case "polygon":
        p, err := polygon.New(polygon.Config{
            APIKey:      cfg.Polygon.APIKey,
            HistoryDays: cfg.Provider.HistoryDays,
            Timezone:    cfg.Polygon.Timezone,
        }, hc.HTTP)
        if err != nil { return nil, err }
        return p, nil
    default:
        return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
    }
}
