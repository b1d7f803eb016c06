package quote

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData means the symbol had no trading rows in the fetch window.
	ErrNoData = errors.New("no_data")

	// ErrUnauthorized is returned by the HTTP layer for a missing or wrong API key.
	ErrUnauthorized = errors.New("invalid api key")

	// ErrInternal marks a recovered panic while processing one symbol.
	ErrInternal = errors.New("internal_error")
)

// SymbolError tags an error with the symbol it belongs to.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string { return fmt.Sprintf("%s: %v", e.Symbol, e.Err) }

func (e *SymbolError) Unwrap() error { return e.Err }

// UpstreamError is a fault while talking to or decoding the market-data provider.
type UpstreamError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
