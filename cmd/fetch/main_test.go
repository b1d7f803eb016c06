package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"quoteapi/internal/quote"
)

func TestSplitCSV(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"7203.T", "6758.T", "AAPL"}, splitCSV(" 7203.T,,6758.T , AAPL,"))
	require.Empty(t, splitCSV(""))
}

func TestRenderTable(t *testing.T) {
	t.Parallel()

	vol := int64(1200)
	results := []quote.Result{
		quote.Success{Quote: quote.Quote{Symbol: "7203.T", Date: "2024-01-05", Close: quote.Float(2512.5), Volume: &vol}},
		quote.FailureOf("ZZZZ", quote.ErrNoData),
	}

	var b strings.Builder
	renderTable(&b, results)
	out := b.String()
	require.Contains(t, out, "Prev Close")
	require.Contains(t, out, "7203.T")
	require.Contains(t, out, "2512.5")
	require.Contains(t, out, "1200")
	require.Contains(t, out, "ZZZZ")
	require.Contains(t, out, "no_data")
}
