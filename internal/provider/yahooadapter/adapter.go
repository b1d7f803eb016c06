package yahooadapter

import (
    "context"
    "errors"
    "time"

    "quoteapi/internal/provider"
    "quoteapi/internal/provider/yahoo"
    "quoteapi/internal/quote"
)

type Config struct {
    Name        string // display name, default: yahoo
    HistoryDays int    // calendar days of history per request, default 7
    Interval    string // chart interval, default 1d
    // Now overrides the clock; used by tests.
    Now func() time.Time
}

type Adapter struct {
    cfg    Config
    client *yahoo.ChartAPIClient
}

func New(cfg Config, client *yahoo.ChartAPIClient) *Adapter {
    if cfg.Name == "" { cfg.Name = "yahoo" }
    if cfg.HistoryDays <= 0 { cfg.HistoryDays = 7 }
    if cfg.Interval == "" { cfg.Interval = "1d" }
    if cfg.Now == nil { cfg.Now = time.Now }
    return &Adapter{cfg: cfg, client: client}
}

func (a *Adapter) Name() string { return a.cfg.Name }

// History fetches the chart window and converts bars into rows dated in the
// exchange's own calendar. An unknown symbol yields no rows rather than an error.
func (a *Adapter) History(ctx context.Context, symbol string) ([]quote.Row, error) {
    from, to := provider.Window(a.cfg.Now(), a.cfg.HistoryDays)
    chart, err := a.client.GetChart(ctx, symbol, from, to, a.cfg.Interval)
    if errors.Is(err, yahoo.ErrNotFound) {
        return nil, nil
    }
    if err != nil {
        return nil, &quote.UpstreamError{Provider: a.cfg.Name, Symbol: symbol, Err: err}
    }
    return Rows(chart), nil
}

// Rows converts a chart into quote rows.
func Rows(chart *yahoo.Chart) []quote.Row {
    if chart == nil { return nil }
    loc := exchangeLocation(chart.Timezone, chart.GMTOffset)
    out := make([]quote.Row, 0, len(chart.Bars))
    for _, b := range chart.Bars {
        out = append(out, quote.Row{
            Date:   provider.CalendarDate(b.Timestamp, loc),
            Open:   b.Open,
            High:   b.High,
            Low:    b.Low,
            Close:  b.Close,
            Volume: b.Volume,
        })
    }
    return out
}

// exchangeLocation prefers the named zone and falls back to the fixed offset
// when the zone database is unavailable.
func exchangeLocation(name string, offset int) *time.Location {
    if name != "" {
        if loc, err := time.LoadLocation(name); err == nil { return loc }
    }
    return time.FixedZone(name, offset)
}
