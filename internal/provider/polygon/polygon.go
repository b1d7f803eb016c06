package polygon

import (
    "context"
    "fmt"
    "net/http"
    "strings"
    "time"

    polygonrest "github.com/polygon-io/client-go/rest"
    "github.com/polygon-io/client-go/rest/models"

    "quoteapi/internal/provider"
    "quoteapi/internal/quote"
)

// Config controls the Polygon aggregates provider.
type Config struct {
    Name        string // default: polygon
    APIKey      string
    HistoryDays int    // default 7
    // Timezone of the daily bar boundaries. Polygon stamps US equities at
    // midnight America/New_York.
    Timezone string
    Now      func() time.Time
}

type aggIter interface {
    Next() bool
    Item() models.Agg
    Err() error
}

// Provider reads adjusted daily aggregates from Polygon.io.
type Provider struct {
    cfg  Config
    loc  *time.Location
    list func(ctx context.Context, params *models.ListAggsParams) aggIter
}

func New(cfg Config, hc *http.Client) (*Provider, error) {
    if strings.TrimSpace(cfg.APIKey) == "" {
        return nil, fmt.Errorf("polygon: missing api key")
    }
    if cfg.Name == "" { cfg.Name = "polygon" }
    if cfg.HistoryDays <= 0 { cfg.HistoryDays = 7 }
    if cfg.Timezone == "" { cfg.Timezone = "America/New_York" }
    if cfg.Now == nil { cfg.Now = time.Now }
    loc, err := time.LoadLocation(cfg.Timezone)
    if err != nil { return nil, fmt.Errorf("polygon: timezone %q: %w", cfg.Timezone, err) }

    var client *polygonrest.Client
    if hc != nil {
        client = polygonrest.NewWithClient(cfg.APIKey, hc)
    } else {
        client = polygonrest.New(cfg.APIKey)
    }
    return &Provider{
        cfg: cfg,
        loc: loc,
        list: func(ctx context.Context, params *models.ListAggsParams) aggIter {
            return client.ListAggs(ctx, params)
        },
    }, nil
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) History(ctx context.Context, symbol string) ([]quote.Row, error) {
    from, to := provider.Window(p.cfg.Now(), p.cfg.HistoryDays)
    params := models.ListAggsParams{
        Ticker:     symbol,
        Multiplier: 1,
        Timespan:   models.Day,
        From:       models.Millis(from),
        To:         models.Millis(to),
    }.WithOrder(models.Asc).WithAdjusted(true)

    iter := p.list(ctx, params)
    var rows []quote.Row
    for iter.Next() {
        rows = append(rows, rowFromAgg(iter.Item(), p.loc))
    }
    if err := iter.Err(); err != nil {
        return nil, &quote.UpstreamError{Provider: p.cfg.Name, Symbol: symbol, Err: err}
    }
    return rows, nil
}

func rowFromAgg(a models.Agg, loc *time.Location) quote.Row {
    open, high, low, closePrice, volume := a.Open, a.High, a.Low, a.Close, a.Volume
    return quote.Row{
        Date:   provider.CalendarDate(time.Time(a.Timestamp), loc),
        Open:   &open,
        High:   &high,
        Low:    &low,
        Close:  &closePrice,
        Volume: &volume,
    }
}
