package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Fetcher supplies a short daily history for one symbol.
// Implementations live under internal/provider.
//
//go:generate mockgen -package=quote_test -destination=mock_fetcher_test.go -source=service.go Fetcher
type Fetcher interface {
	Name() string
	History(ctx context.Context, symbol string) ([]Row, error)
}

// Service runs the fetch, normalize and extract pipeline.
type Service struct {
	Fetcher Fetcher
	// MaxConcurrency bounds how many symbols of one batch are fetched at once.
	// Defaults to 1 when <= 0.
	MaxConcurrency int
	Log            logrus.FieldLogger
}

func NewService(f Fetcher, maxConcurrency int, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{Fetcher: f, MaxConcurrency: maxConcurrency, Log: log}
}

// Latest returns the quote for a single symbol. Errors are either ErrNoData
// (wrapped in a *SymbolError) or an *UpstreamError.
func (s *Service) Latest(ctx context.Context, symbol string) (Quote, error) {
	rows, err := s.fetch(ctx, symbol)
	if err != nil {
		return Quote{}, err
	}
	return Extract(symbol, Normalize(rows))
}

// Batch resolves every symbol independently. The result slice has the same
// length and order as symbols; a failing symbol yields a Failure in its slot.
func (s *Service) Batch(ctx context.Context, symbols []string) []Result {
	out := make([]Result, len(symbols))

	limit := s.MaxConcurrency
	if limit <= 0 {
		limit = 1
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i, sym := range symbols {
		g.Go(func() error {
			out[i] = s.resolve(ctx, sym)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (s *Service) resolve(ctx context.Context, symbol string) (res Result) {
	log := s.logger().WithFields(logrus.Fields{"symbol": symbol, "provider": s.Fetcher.Name()})
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("quote pipeline panicked")
			res = FailureOf(symbol, fmt.Errorf("%w: %v", ErrInternal, rec))
		}
	}()

	q, err := s.Latest(ctx, symbol)
	if err != nil {
		log.WithError(err).Warn("quote unavailable")
		return FailureOf(symbol, err)
	}
	return Success{Quote: q}
}

func (s *Service) fetch(ctx context.Context, symbol string) ([]Row, error) {
	rows, err := s.Fetcher.History(ctx, symbol)
	if err == nil {
		return rows, nil
	}
	var up *UpstreamError
	if errors.As(err, &up) || errors.Is(err, ErrNoData) {
		return nil, err
	}
	return nil, &UpstreamError{Provider: s.Fetcher.Name(), Symbol: symbol, Err: err}
}

func (s *Service) logger() logrus.FieldLogger {
	if s.Log == nil {
		return logrus.StandardLogger()
	}
	return s.Log
}
