package quote

// Quote is the typed view of a symbol's latest and previous trading day.
// Every numeric field is independently nullable.
type Quote struct {
	Symbol     string   `json:"symbol"`
	Date       string   `json:"date"`
	Close      *float64 `json:"close"`
	PrevClose  *float64 `json:"prev_close"`
	High       *float64 `json:"high"`
	Low        *float64 `json:"low"`
	Volume     *int64   `json:"volume"`
	PrevVolume *int64   `json:"prev_volume"`
}

// Extract builds a Quote from rows that were already passed through Normalize.
//
// The last row is the latest trading day. The previous trading day is the
// second-to-last row; with a single row it falls back to the latest row, so
// prev_close equals close and prev_volume equals volume.
func Extract(symbol string, rows []Row) (Quote, error) {
	if len(rows) == 0 {
		return Quote{}, &SymbolError{Symbol: symbol, Err: ErrNoData}
	}

	latest := rows[len(rows)-1]
	prev := latest
	if len(rows) >= 2 {
		prev = rows[len(rows)-2]
	}

	return Quote{
		Symbol:     symbol,
		Date:       latest.Day(),
		Close:      price(latest.Close),
		PrevClose:  price(prev.Close),
		High:       price(latest.High),
		Low:        price(latest.Low),
		Volume:     volume(latest.Volume),
		PrevVolume: volume(prev.Volume),
	}, nil
}
