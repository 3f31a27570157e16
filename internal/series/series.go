// Package series turns monthly aggregate rows into gap-free time series
// ready for anomaly detection.
package series

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

// Entry is one month of a series. Month uses the YYYY-MM form.
type Entry struct {
	Month string
	Value float64
}

// Series is a contiguous monthly sequence; months between the first and
// last observed bucket that had no rows carry a zero value.
type Series struct {
	Name    string
	Entries []Entry
}

// Values returns the observation vector in month order.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.Entries))
	for i, e := range s.Entries {
		out[i] = e.Value
	}
	return out
}

// EmptySeriesError reports a series request that matched no rows.
type EmptySeriesError struct {
	Name string
}

func (e *EmptySeriesError) Error() string {
	return fmt.Sprintf("series %q has no observations", e.Name)
}

// BadMonthError reports a month label that does not parse as YYYY-MM.
type BadMonthError struct {
	Month string
}

func (e *BadMonthError) Error() string {
	return fmt.Sprintf("bad month label %q, want YYYY-MM", e.Month)
}

// Build assembles a gap-free series from month/value pairs. Duplicate
// months sum, missing months between the observed extremes fill with
// zero, and the result is sorted ascending.
func Build(name string, entries []Entry) (*Series, error) {
	if len(entries) == 0 {
		return nil, &EmptySeriesError{Name: name}
	}
	byMonth := make(map[string]float64)
	var first, last time.Time
	for _, e := range entries {
		t, err := time.Parse("2006-01", e.Month)
		if err != nil {
			return nil, &BadMonthError{Month: e.Month}
		}
		byMonth[e.Month] += e.Value
		if first.IsZero() || t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}

	var out []Entry
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		key := m.Format("2006-01")
		out = append(out, Entry{Month: key, Value: byMonth[key]})
	}
	return &Series{Name: name, Entries: out}, nil
}

// LoadAggregate reads a monthly aggregate CSV written by the pipeline.
// With key == "" it expects the overall counts layout (ym,count,...) and
// returns the whole series; otherwise it expects a keyed layout
// (ym,<key column>,count) and keeps only rows matching key exactly.
func LoadAggregate(path, key string) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open aggregate file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read aggregate file %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, &EmptySeriesError{Name: seriesName(path, key)}
	}

	var entries []Entry
	for _, rec := range records[1:] {
		if key == "" {
			if len(rec) < 2 {
				continue
			}
			v, err := strconv.ParseFloat(rec[1], 64)
			if err != nil {
				continue
			}
			entries = append(entries, Entry{Month: rec[0], Value: v})
			continue
		}
		if len(rec) < 3 || rec[1] != key {
			continue
		}
		v, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Month: rec[0], Value: v})
	}
	return Build(seriesName(path, key), entries)
}

// Keys lists the distinct key values of a keyed aggregate file, sorted.
func Keys(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open aggregate file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read aggregate file %s: %w", path, err)
	}
	if len(records) < 1 {
		return nil, nil
	}
	seen := make(map[string]struct{})
	for _, rec := range records[1:] {
		if len(rec) >= 3 && rec[1] != "" {
			seen[rec[1]] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func seriesName(path, key string) string {
	if key == "" {
		return path
	}
	return key
}
