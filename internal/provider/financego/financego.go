package financego

import (
    "context"
    "fmt"
    "time"

    finance "github.com/piquette/finance-go"
    "github.com/piquette/finance-go/chart"
    "github.com/piquette/finance-go/datetime"
    "github.com/shopspring/decimal"

    "quoteapi/internal/provider"
    "quoteapi/internal/quote"
)

// Config controls the finance-go backed provider.
type Config struct {
    Name        string // default: financego
    HistoryDays int    // default 7
    // Timezone is the exchange zone used to derive calendar dates from bar
    // timestamps (e.g. Asia/Tokyo). Defaults to UTC.
    Timezone string
    Now      func() time.Time
}

// barIter is the subset of *chart.Iter used here.
type barIter interface {
    Next() bool
    Bar() *finance.ChartBar
    Err() error
}

// Provider reads daily bars through github.com/piquette/finance-go.
// The library decodes null prices as zero, so a zero price is reported as missing.
type Provider struct {
    cfg Config
    loc *time.Location
    get func(*chart.Params) barIter
}

func New(cfg Config) (*Provider, error) {
    if cfg.Name == "" { cfg.Name = "financego" }
    if cfg.HistoryDays <= 0 { cfg.HistoryDays = 7 }
    if cfg.Now == nil { cfg.Now = time.Now }
    loc := time.UTC
    if cfg.Timezone != "" {
        l, err := time.LoadLocation(cfg.Timezone)
        if err != nil { return nil, fmt.Errorf("financego: timezone %q: %w", cfg.Timezone, err) }
        loc = l
    }
    return &Provider{
        cfg: cfg,
        loc: loc,
        get: func(p *chart.Params) barIter { return chart.Get(p) },
    }, nil
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) History(ctx context.Context, symbol string) ([]quote.Row, error) {
    if err := ctx.Err(); err != nil { return nil, err }

    from, to := provider.Window(p.cfg.Now(), p.cfg.HistoryDays)
    params := &chart.Params{
        Symbol:   symbol,
        Start:    datetime.New(&from),
        End:      datetime.New(&to),
        Interval: datetime.OneDay,
    }
    params.Context = &ctx

    iter := p.get(params)
    var rows []quote.Row
    for iter.Next() {
        if err := ctx.Err(); err != nil { return nil, err }
        rows = append(rows, rowFromBar(iter.Bar(), p.loc))
    }
    if err := iter.Err(); err != nil {
        return nil, &quote.UpstreamError{Provider: p.cfg.Name, Symbol: symbol, Err: err}
    }
    return rows, nil
}

func rowFromBar(b *finance.ChartBar, loc *time.Location) quote.Row {
    row := quote.Row{
        Date:  provider.CalendarDate(time.Unix(int64(b.Timestamp), 0), loc),
        Open:  priceOf(b.Open),
        High:  priceOf(b.High),
        Low:   priceOf(b.Low),
        Close: priceOf(b.Close),
    }
    // a zero volume on an otherwise empty bar is a null, not a quiet day
    if b.Volume != 0 || row.Open != nil || row.High != nil || row.Low != nil || row.Close != nil {
        v := float64(b.Volume)
        row.Volume = &v
    }
    return row
}

func priceOf(d decimal.Decimal) *float64 {
    if d.IsZero() { return nil }
    f, _ := d.Float64()
    return &f
}
