package anomaly

import (
	"gonum.org/v1/gonum/stat"

	"github.com/aetrend/aetrend-cli/internal/series"
)

// Forecaster produces one-step-ahead fitted values for a seasonal
// series. Scores come from the gap between each month and its fit.
type Forecaster func(x []float64, period int) []float64

var forecaster Forecaster = holtWinters

// SetForecaster swaps the forecasting backend. Passing nil disables the
// forecast method entirely, which forces the fallback chain.
func SetForecaster(f Forecaster) {
	forecaster = f
}

// ForecastAvailable reports whether a forecasting backend is installed.
func ForecastAvailable() bool {
	return forecaster != nil
}

// forecastScore flags months whose value departs from the one-step
// forecast by an unusual amount, measured as a z-score over all
// forecast errors.
func forecastScore(s *series.Series, cfg Config) []Point {
	x := s.Values()
	n := len(x)
	fitted := forecaster(x, cfg.Period)

	resid := make([]float64, n)
	for i := range x {
		resid[i] = x[i] - fitted[i]
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
			Trend:    fitted[i],
			Residual: resid[i],
			Score:    score,
			Spike:    sigma > 0 && abs(score) > cfg.Threshold,
		}
	}
	return points
}

// Smoothing constants for the additive Holt-Winters fit. Modest values
// keep a single spiked month from dragging the level with it.
const (
	hwAlpha = 0.3
	hwBeta  = 0.05
	hwGamma = 0.2
)

// holtWinters is the default backend: additive triple exponential
// smoothing initialized from the first two cycles.
func holtWinters(x []float64, period int) []float64 {
	n := len(x)
	fitted := make([]float64, n)
	if n < 2*period {
		copy(fitted, x)
		return fitted
	}

	mean1 := stat.Mean(x[:period], nil)
	mean2 := stat.Mean(x[period:2*period], nil)
	level := mean1
	trend := (mean2 - mean1) / float64(period)
	seasonal := make([]float64, period)
	for i := 0; i < period; i++ {
		seasonal[i] = x[i] - mean1
	}

	for t := 0; t < n; t++ {
		pos := t % period
		fitted[t] = level + trend + seasonal[pos]

		prevLevel := level
		level = hwAlpha*(x[t]-seasonal[pos]) + (1-hwAlpha)*(level+trend)
		trend = hwBeta*(level-prevLevel) + (1-hwBeta)*trend
		seasonal[pos] = hwGamma*(x[t]-level) + (1-hwGamma)*seasonal[pos]
	}
	return fitted
}
