package anomaly

import (
	"gonum.org/v1/gonum/stat"

	"github.com/aetrend/aetrend-cli/internal/series"
)

// rollingScore compares each month against the trailing window ending at
// that month. Months without a complete window behind them are never
// flagged, and neither is a month whose window shows no variation.
func rollingScore(s *series.Series, cfg Config) []Point {
	x := s.Values()
	n := len(x)
	w := cfg.Window
	if w < 3 {
		w = 3
	}
	if w > n {
		w = n
	}

	points := make([]Point, n)
	for i := range x {
		points[i] = Point{Month: s.Entries[i].Month, Value: x[i]}
		if i < w-1 {
			continue
		}
		win := x[i-w+1 : i+1]
		mu := stat.Mean(win, nil)
		sigma := stat.StdDev(win, nil)
		points[i].Residual = x[i] - mu
		if sigma > 0 {
			points[i].Score = (x[i] - mu) / sigma
			points[i].Spike = abs(points[i].Score) > cfg.Threshold
		}
	}
	return points
}
