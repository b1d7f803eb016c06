package quote

import "errors"

// Result is the per-symbol outcome of a batch: either Success or Failure.
// Consumers are expected to type-switch over the two.
type Result interface {
	ResultSymbol() string
	isResult()
}

// Success carries an extracted quote. It encodes as the flat quote object.
type Success struct {
	Quote
}

func (s Success) ResultSymbol() string { return s.Symbol }
func (Success) isResult()              {}

// Failure carries the reason a symbol produced no quote.
type Failure struct {
	Symbol  string `json:"symbol"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (f Failure) ResultSymbol() string { return f.Symbol }
func (Failure) isResult()              {}

// FailureOf maps err onto the failure record reported for symbol.
// No-data and internal faults use their fixed codes; anything else reports the error text.
func FailureOf(symbol string, err error) Failure {
	msg := err.Error()
	switch {
	case errors.Is(err, ErrNoData):
		msg = ErrNoData.Error()
	case errors.Is(err, ErrInternal):
		msg = ErrInternal.Error()
	}
	return Failure{Symbol: symbol, Message: msg, Err: err}
}
