package series

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuildFillsGapsWithZero(t *testing.T) {
	s, err := Build("overall", []Entry{
		{Month: "2024-01", Value: 10},
		{Month: "2024-04", Value: 7},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := []Entry{
		{"2024-01", 10}, {"2024-02", 0}, {"2024-03", 0}, {"2024-04", 7},
	}
	if len(s.Entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(s.Entries), len(want))
	}
	for i, e := range s.Entries {
		if e != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, e, want[i])
		}
	}
}

func TestBuildSumsDuplicateMonths(t *testing.T) {
	s, err := Build("overall", []Entry{
		{Month: "2024-01", Value: 3},
		{Month: "2024-01", Value: 4},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Entries) != 1 || s.Entries[0].Value != 7 {
		t.Fatalf("got %+v, want one month summing to 7", s.Entries)
	}
}

func TestBuildCrossesYearBoundary(t *testing.T) {
	s, err := Build("overall", []Entry{
		{Month: "2023-11", Value: 1},
		{Month: "2024-02", Value: 1},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(s.Entries) != 4 || s.Entries[2].Month != "2024-01" {
		t.Fatalf("year boundary gap fill wrong: %+v", s.Entries)
	}
}

func TestBuildEmpty(t *testing.T) {
	_, err := Build("overall", nil)
	var empty *EmptySeriesError
	if !errors.As(err, &empty) {
		t.Fatalf("got %v, want EmptySeriesError", err)
	}
}

func TestBuildBadMonth(t *testing.T) {
	_, err := Build("overall", []Entry{{Month: "Jan 2024", Value: 1}})
	var bad *BadMonthError
	if !errors.As(err, &bad) {
		t.Fatalf("got %v, want BadMonthError", err)
	}
}

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadAggregateOverall(t *testing.T) {
	p := writeCSV(t, "monthly_counts.csv",
		"ym,count,n_drugs,n_reactions\n2024-01,10,3,4\n2024-02,12,2,5\n")
	s, err := LoadAggregate(p, "")
	if err != nil {
		t.Fatalf("LoadAggregate: %v", err)
	}
	if len(s.Entries) != 2 || s.Entries[1].Value != 12 {
		t.Fatalf("got %+v", s.Entries)
	}
}

func TestLoadAggregateKeyed(t *testing.T) {
	p := writeCSV(t, "monthly_by_drug.csv",
		"ym,drug,count\n2024-01,ASPIRIN,5\n2024-01,IBUPROFEN,2\n2024-02,ASPIRIN,6\n")
	s, err := LoadAggregate(p, "ASPIRIN")
	if err != nil {
		t.Fatalf("LoadAggregate: %v", err)
	}
	if len(s.Entries) != 2 || s.Entries[0].Value != 5 || s.Entries[1].Value != 6 {
		t.Fatalf("got %+v", s.Entries)
	}

	if _, err := LoadAggregate(p, "NO SUCH DRUG"); err == nil {
		t.Fatal("expected EmptySeriesError for unmatched key")
	}

	keys, err := Keys(p)
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "ASPIRIN" {
		t.Fatalf("Keys = %v", keys)
	}
}

func TestKeysToleratesEmptyFile(t *testing.T) {
	p := writeCSV(t, "empty.csv", "")
	keys, err := Keys(p)
	if err != nil {
		t.Fatalf("Keys on empty file: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys = %v, want none", keys)
	}

	p = writeCSV(t, "header_only.csv", "ym,drug,count\n")
	keys, err = Keys(p)
	if err != nil {
		t.Fatalf("Keys on header-only file: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("Keys = %v, want none", keys)
	}
}
