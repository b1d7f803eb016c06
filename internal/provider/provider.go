package provider

import (
    "context"
    "time"

    "quoteapi/internal/quote"
)

// Provider is a market-data backend returning a short daily history per symbol.
// Rows come back raw; placeholder filtering happens in quote.Normalize.
type Provider interface {
    Name() string
    History(ctx context.Context, symbol string) ([]quote.Row, error)
}

// Window returns the [from, to] range of the last days calendar days ending at now.
func Window(now time.Time, days int) (time.Time, time.Time) {
    if days <= 0 { days = 7 }
    return now.AddDate(0, 0, -days), now
}

// CalendarDate truncates t to its calendar date in loc, expressed as midnight UTC
// so that dates from different exchanges compare and format uniformly.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
    if loc == nil { loc = time.UTC }
    y, m, d := t.In(loc).Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
