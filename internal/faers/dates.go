package faers

import (
	"strconv"
	"time"
)

// dateLayouts is the fallback chain for raw report dates, tried in order.
// FAERS itself emits compact YYYYMMDD; the other layouts cover dates that
// arrive through preprocessed or hand-edited drops.
var dateLayouts = []string{
	"20060102",
	"2006-01-02",
	"01/02/2006",
	"01-02-2006",
	"2006/01/02",
}

// ParseDate parses a raw date value through the fallback chain. A value
// that matches no layout yields nil rather than an error; unparseable
// dates are expected in this data and stay null downstream.
func ParseDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// fmtFloat renders ages and other float columns without trailing zeros.
func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
