package anomaly

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aetrend/aetrend-cli/internal/series"
)

// decompose splits the series into trend, seasonal, and residual
// components and scores each month by the z-score of its residual.
//
// The trend is a centered moving average over one full cycle. For an
// even period the window spans period+1 months with half weight on the
// two ends, which keeps the average centered on a month rather than a
// month boundary. Months too close to either edge for a full window
// hold the nearest interior trend value.
//
// The seasonal component is the median of the detrended values at each
// cycle position, centered so the medians sum to zero over one cycle.
// The median keeps one spiked month from leaking into the seasonal
// profile of its siblings a year apart.
func decompose(s *series.Series, cfg Config) []Point {
	x := s.Values()
	n := len(x)
	period := cfg.Period

	trend := movingAverage(x, period)

	// Median detrended value per cycle position.
	byPos := make([][]float64, period)
	for i := range x {
		pos := i % period
		byPos[pos] = append(byPos[pos], x[i]-trend[i])
	}
	seasonal := make([]float64, period)
	var seasonalSum float64
	for pos, vals := range byPos {
		seasonal[pos] = median(vals)
		seasonalSum += seasonal[pos]
	}
	offset := seasonalSum / float64(period)
	for pos := range seasonal {
		seasonal[pos] -= offset
	}

	resid := make([]float64, n)
	for i := range x {
		resid[i] = x[i] - trend[i] - seasonal[i%period]
	}
	mu := stat.Mean(resid, nil)
	sigma := stat.StdDev(resid, nil)

	points := make([]Point, n)
	for i := range x {
		score := 0.0
		if sigma > 0 {
			score = (resid[i] - mu) / sigma
		}
		points[i] = Point{
			Month:    s.Entries[i].Month,
			Value:    x[i],
			Trend:    trend[i],
			Seasonal: seasonal[i%period],
			Residual: resid[i],
			Score:    score,
			Spike:    sigma > 0 && abs(score) > cfg.Threshold,
		}
	}
	return points
}

// movingAverage computes the centered cycle-length moving average, with
// the edge months holding the nearest interior value.
func movingAverage(x []float64, period int) []float64 {
	n := len(x)
	trend := make([]float64, n)
	half := period / 2

	lo, hi := -1, -1
	if period%2 == 0 {
		// Weighted window of period+1 points, half weight at the ends.
		for i := half; i <= n-1-half; i++ {
			sum := 0.5*x[i-half] + 0.5*x[i+half]
			for j := i - half + 1; j <= i+half-1; j++ {
				sum += x[j]
			}
			trend[i] = sum / float64(period)
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	} else {
		for i := half; i <= n-1-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += x[j]
			}
			trend[i] = sum / float64(period)
			if lo < 0 {
				lo = i
			}
			hi = i
		}
	}
	if lo < 0 {
		// No interior point; flat trend at the series mean.
		mu := stat.Mean(x, nil)
		for i := range trend {
			trend[i] = mu
		}
		return trend
	}
	for i := 0; i < lo; i++ {
		trend[i] = trend[lo]
	}
	for i := hi + 1; i < n; i++ {
		trend[i] = trend[hi]
	}
	return trend
}

func median(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
