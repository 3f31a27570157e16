// Package anomaly flags unusual months in adverse-event time series.
// Three methods share one result shape: seasonal decomposition for long
// series, a rolling z-score for short ones, and a Holt-Winters forecast
// residual check. A method that cannot run on the given series degrades
// to the next simpler one, never the other way.
package anomaly

import (
	"fmt"
	"log/slog"

	"github.com/aetrend/aetrend-cli/internal/series"
)

// Method names a detection algorithm.
type Method string

const (
	MethodDecomposition Method = "decomposition"
	MethodRolling       Method = "rolling"
	MethodForecast      Method = "forecast"
)

// ParseMethod validates a user-supplied method name.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodDecomposition, MethodRolling, MethodForecast:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown detection method %q (want decomposition, rolling, or forecast)", s)
}

// Config carries the detection parameters.
type Config struct {
	Method    Method
	Threshold float64 // |score| above this flags a spike
	Window    int     // rolling window length in months
	Period    int     // seasonal cycle length in months
}

// DefaultConfig matches the parameters the monthly review runs with.
func DefaultConfig() Config {
	return Config{
		Method:    MethodDecomposition,
		Threshold: 2.0,
		Window:    6,
		Period:    12,
	}
}

// MinObservations is the series length below which the seasonal methods
// cannot estimate a cycle.
func (c Config) MinObservations() int {
	return 2 * c.Period
}

// Point is one scored month.
type Point struct {
	Month    string  `json:"month"`
	Value    float64 `json:"value"`
	Trend    float64 `json:"trend,omitempty"`
	Seasonal float64 `json:"seasonal,omitempty"`
	Residual float64 `json:"residual"`
	Score    float64 `json:"score"`
	Spike    bool    `json:"spike"`
}

// Result is the scored series plus which method actually ran.
type Result struct {
	Series            string  `json:"series"`
	Method            Method  `json:"method"`
	Requested         Method  `json:"requested"`
	FallbackTriggered bool    `json:"fallback_triggered"`
	FallbackReason    string  `json:"fallback_reason,omitempty"`
	Points            []Point `json:"points"`
}

// Spikes returns only the flagged points, in month order.
func (r *Result) Spikes() []Point {
	var out []Point
	for _, p := range r.Points {
		if p.Spike {
			out = append(out, p)
		}
	}
	return out
}

// Detect scores a series with the configured method, degrading along
// forecast -> decomposition -> rolling when preconditions fail. A
// requested method is never upgraded. The error is a
// MethodUnavailableError when even the last candidate cannot run.
func Detect(s *series.Series, cfg Config) (*Result, error) {
	var chain []Method
	switch cfg.Method {
	case MethodForecast:
		chain = []Method{MethodForecast, MethodDecomposition, MethodRolling}
	case MethodDecomposition:
		chain = []Method{MethodDecomposition, MethodRolling}
	default:
		chain = []Method{MethodRolling}
	}

	var firstReason string
	var lastErr error
	for _, m := range chain {
		if reason := unavailable(m, s, cfg); reason != "" {
			if firstReason == "" {
				firstReason = reason
			}
			lastErr = &MethodUnavailableError{Method: m, Reason: reason}
			slog.Info("detection method unavailable", "series", s.Name, "method", m, "reason", reason)
			continue
		}
		points := run(m, s, cfg)
		return &Result{
			Series:            s.Name,
			Method:            m,
			Requested:         cfg.Method,
			FallbackTriggered: m != cfg.Method,
			FallbackReason:    fallbackReason(m, cfg.Method, firstReason),
			Points:            points,
		}, nil
	}
	return nil, lastErr
}

func unavailable(m Method, s *series.Series, cfg Config) string {
	n := len(s.Entries)
	switch m {
	case MethodForecast:
		if !ForecastAvailable() {
			return "forecaster disabled"
		}
		if n < cfg.MinObservations() {
			return fmt.Sprintf("%d observations, need at least %d", n, cfg.MinObservations())
		}
	case MethodDecomposition:
		if n < cfg.MinObservations() {
			return fmt.Sprintf("%d observations, need at least %d", n, cfg.MinObservations())
		}
	case MethodRolling:
		if n < 3 {
			return fmt.Sprintf("%d observations, too few for a rolling window", n)
		}
	}
	return ""
}

func fallbackReason(used, requested Method, reason string) string {
	if used == requested {
		return ""
	}
	return reason
}

func run(m Method, s *series.Series, cfg Config) []Point {
	switch m {
	case MethodForecast:
		return forecastScore(s, cfg)
	case MethodDecomposition:
		return decompose(s, cfg)
	default:
		return rollingScore(s, cfg)
	}
}
