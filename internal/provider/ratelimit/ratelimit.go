package ratelimit

import (
    "context"
    "sync"
    "time"

    "quoteapi/internal/provider"
    "quoteapi/internal/quote"
)

// MinInterval wraps a provider and spaces upstream calls at least Interval apart.
// Each caller reserves the next free slot under the lock, so a batch fanning out
// on several goroutines is serialized onto the schedule instead of bursting.
type MinInterval struct {
    P        provider.Provider
    Interval time.Duration

    mu   sync.Mutex
    next time.Time
}

func (m *MinInterval) Name() string { return m.P.Name() }

func (m *MinInterval) History(ctx context.Context, symbol string) ([]quote.Row, error) {
    if m.Interval > 0 {
        if err := m.reserve(ctx); err != nil { return nil, err }
    }
    return m.P.History(ctx, symbol)
}

func (m *MinInterval) reserve(ctx context.Context) error {
    m.mu.Lock()
    now := time.Now()
    slot := m.next
    if slot.Before(now) { slot = now }
    m.next = slot.Add(m.Interval)
    m.mu.Unlock()

    wait := time.Until(slot)
    if wait <= 0 { return nil }
    t := time.NewTimer(wait)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return ctx.Err()
    case <-t.C:
        return nil
    }
}

// Wrap applies the configured pacing to p. A positive requests-per-minute
// selects the token bucket; otherwise a positive minimum interval is used;
// otherwise p is returned unchanged.
func Wrap(p provider.Provider, requestsPerMinute, burst int, minInterval time.Duration) provider.Provider {
    switch {
    case requestsPerMinute > 0:
        if burst <= 0 { burst = 1 }
        return &TokenBucketProvider{P: p, TB: NewTokenBucket(float64(requestsPerMinute)/60.0, burst)}
    case minInterval > 0:
        return &MinInterval{P: p, Interval: minInterval}
    default:
        return p
    }
}
