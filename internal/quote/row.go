package quote

import (
	"math"
	"sort"
	"time"
)

// dateLayout is the calendar date format used in responses.
const dateLayout = "2006-01-02"

// maxVolume is 2^63, the first float64 beyond the int64 range.
const maxVolume = float64(1 << 63)

// Row is one trading day for a symbol as reported by a provider.
// Values are raw: nil when the provider omitted them, possibly NaN.
type Row struct {
	Date   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *float64
}

// Day returns the row date formatted as YYYY-MM-DD.
func (r Row) Day() string { return r.Date.Format(dateLayout) }

// Placeholder reports whether every value of the row is missing.
// Providers emit such rows for holidays and for the still-open session.
func (r Row) Placeholder() bool {
	for _, v := range []*float64{r.Open, r.High, r.Low, r.Close, r.Volume} {
		if present(v) {
			return false
		}
	}
	return true
}

// Normalize drops placeholder rows, orders rows ascending by date and keeps
// one row per calendar date (the later one in input order wins).
// The input slice is not modified.
func Normalize(rows []Row) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Placeholder() {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day() < out[j].Day() })

	dedup := out[:0]
	for _, r := range out {
		if n := len(dedup); n > 0 && dedup[n-1].Day() == r.Day() {
			dedup[n-1] = r
			continue
		}
		dedup = append(dedup, r)
	}
	return dedup
}

// Float is a convenience for building rows from literal values.
func Float(v float64) *float64 { return &v }

func present(v *float64) bool {
	return v != nil && !math.IsNaN(*v)
}

// price coerces a raw value into a nullable price.
func price(v *float64) *float64 {
	if !present(v) || math.IsInf(*v, 0) {
		return nil
	}
	p := *v
	return &p
}

// volume coerces a raw value into a nullable whole volume, truncating.
// Values outside [0, 2^63) have no int64 form and are reported as null.
func volume(v *float64) *int64 {
	if !present(v) || *v < 0 || *v >= maxVolume {
		return nil
	}
	n := int64(math.Trunc(*v))
	return &n
}
