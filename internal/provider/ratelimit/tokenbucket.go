package ratelimit

import (
    "context"

    "golang.org/x/time/rate"

    "quoteapi/internal/provider"
    "quoteapi/internal/quote"
)

// NewTokenBucket returns a limiter refilling tokensPerSecond with the given burst.
// The bucket starts full so the first burst calls go through immediately.
func NewTokenBucket(tokensPerSecond float64, burst int) *rate.Limiter {
    if tokensPerSecond <= 0 { tokensPerSecond = 0.0000001 }
    if burst <= 0 { burst = 1 }
    return rate.NewLimiter(rate.Limit(tokensPerSecond), burst)
}

// TokenBucketProvider wraps a Provider and gates calls using a token bucket.
type TokenBucketProvider struct {
    P  provider.Provider
    TB *rate.Limiter
}

func (t *TokenBucketProvider) Name() string { return t.P.Name() }

func (t *TokenBucketProvider) History(ctx context.Context, symbol string) ([]quote.Row, error) {
    if t.TB != nil {
        if err := t.TB.Wait(ctx); err != nil { return nil, err }
    }
    return t.P.History(ctx, symbol)
}
