package quote_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"quoteapi/internal/quote"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestBatch_KeepsOrderAndContainsFailures(t *testing.T) {
	t.Parallel()

	// Arrange: create a mock fetcher where B has only placeholder rows
	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().Name().Return("fake").AnyTimes()
	fetcher.EXPECT().History(gomock.Any(), "A").Return([]quote.Row{
		{Date: day("2024-01-02"), Close: quote.Float(10), Volume: quote.Float(1)},
		{Date: day("2024-01-03"), Close: quote.Float(11), Volume: quote.Float(2)},
	}, nil).Times(1)
	fetcher.EXPECT().History(gomock.Any(), "B").Return([]quote.Row{{Date: day("2024-01-03")}}, nil).Times(1)
	fetcher.EXPECT().History(gomock.Any(), "C").Return([]quote.Row{
		{Date: day("2024-01-03"), Close: quote.Float(30), Volume: quote.Float(3)},
	}, nil).Times(1)

	svc := quote.NewService(fetcher, 3, quietLogger())

	// Act
	results := svc.Batch(t.Context(), []string{"A", "B", "C"})

	// Assert: three entries in request order, B reported as no_data
	require.Len(t, results, 3)
	require.Equal(t, "A", results[0].ResultSymbol())
	require.Equal(t, "B", results[1].ResultSymbol())
	require.Equal(t, "C", results[2].ResultSymbol())

	a, ok := results[0].(quote.Success)
	require.True(t, ok)
	require.InDelta(t, 10.0, *a.PrevClose, 1e-9)

	b, ok := results[1].(quote.Failure)
	require.True(t, ok)
	require.Equal(t, "no_data", b.Message)
	require.ErrorIs(t, b.Err, quote.ErrNoData)

	_, ok = results[2].(quote.Success)
	require.True(t, ok)

	raw, err := json.Marshal(results)
	require.NoError(t, err)
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Equal(t, map[string]any{"symbol": "B", "error": "no_data"}, decoded[1])
	require.Equal(t, "2024-01-03", decoded[0]["date"])
}

func TestBatch_UpstreamErrorIsPerSymbol(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().Name().Return("fake").AnyTimes()
	fetcher.EXPECT().History(gomock.Any(), "BAD").Return(nil, errors.New("connection reset")).Times(1)
	fetcher.EXPECT().History(gomock.Any(), "GOOD").Return([]quote.Row{
		{Date: day("2024-01-03"), Close: quote.Float(1)},
	}, nil).Times(1)

	svc := quote.NewService(fetcher, 1, quietLogger())
	results := svc.Batch(t.Context(), []string{"BAD", "GOOD"})

	require.Len(t, results, 2)
	f, ok := results[0].(quote.Failure)
	require.True(t, ok)
	require.Contains(t, f.Message, "connection reset")
	var up *quote.UpstreamError
	require.True(t, errors.As(f.Err, &up))
	require.Equal(t, "fake", up.Provider)
	require.Equal(t, "BAD", up.Symbol)

	_, ok = results[1].(quote.Success)
	require.True(t, ok)
}

func TestBatch_RecoversPanickingSymbol(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().Name().Return("fake").AnyTimes()
	fetcher.EXPECT().History(gomock.Any(), "BOOM").DoAndReturn(func(_ context.Context, _ string) ([]quote.Row, error) {
		panic("decoder blew up")
	}).Times(1)
	fetcher.EXPECT().History(gomock.Any(), "OK").Return([]quote.Row{
		{Date: day("2024-01-03"), Close: quote.Float(1)},
	}, nil).Times(1)

	svc := quote.NewService(fetcher, 2, quietLogger())
	results := svc.Batch(t.Context(), []string{"BOOM", "OK"})

	f, ok := results[0].(quote.Failure)
	require.True(t, ok)
	require.Equal(t, "internal_error", f.Message)
	_, ok = results[1].(quote.Success)
	require.True(t, ok)
}

func TestLatest_PropagatesNoData(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)
	fetcher.EXPECT().Name().Return("fake").AnyTimes()
	fetcher.EXPECT().History(gomock.Any(), "X").Return(nil, nil).Times(1)

	svc := quote.NewService(fetcher, 1, quietLogger())
	_, err := svc.Latest(t.Context(), "X")
	require.ErrorIs(t, err, quote.ErrNoData)
}

func TestBatch_EmptyRequest(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	fetcher := NewMockFetcher(ctrl)

	svc := quote.NewService(fetcher, 4, quietLogger())
	require.Empty(t, svc.Batch(t.Context(), nil))
}
