package faers

import (
	"os"
	"path/filepath"
	"testing"
)

func mkQuarter(t *testing.T, root, dirName, dataDir string, files ...string) {
	t.Helper()
	p := filepath.Join(root, dirName, dataDir)
	if err := os.MkdirAll(p, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(p, f), []byte("X$Y\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", f, err)
		}
	}
}

func TestDiscoverQuartersSortsAndMatchesCaseInsensitive(t *testing.T) {
	root := t.TempDir()
	mkQuarter(t, root, "faers_ascii_2024q2", "ascii")
	mkQuarter(t, root, "FAERS_ASCII_2023Q4", "ASCII")
	mkQuarter(t, root, "faers_ascii_2024q1", "ascii")
	// Not a quarter drop, must be ignored.
	if err := os.MkdirAll(filepath.Join(root, "readme_files"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	quarters, err := DiscoverQuarters(root)
	if err != nil {
		t.Fatalf("DiscoverQuarters: %v", err)
	}
	want := []string{"2023Q4", "2024Q1", "2024Q2"}
	if len(quarters) != len(want) {
		t.Fatalf("got %d quarters, want %d", len(quarters), len(want))
	}
	for i, q := range quarters {
		if q.Label() != want[i] {
			t.Errorf("quarter %d = %s, want %s", i, q.Label(), want[i])
		}
	}
}

func TestDiscoverQuartersSkipsMissingDataDir(t *testing.T) {
	root := t.TempDir()
	mkQuarter(t, root, "faers_ascii_2024q1", "ascii")
	if err := os.MkdirAll(filepath.Join(root, "faers_ascii_2024q2"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	quarters, err := DiscoverQuarters(root)
	if err != nil {
		t.Fatalf("DiscoverQuarters: %v", err)
	}
	if len(quarters) != 1 || quarters[0].Label() != "2024Q1" {
		t.Fatalf("got %v, want only 2024Q1", quarters)
	}
}

func TestDiscoverQuartersMissingRoot(t *testing.T) {
	_, err := DiscoverQuarters(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestTableFileNamingVariants(t *testing.T) {
	root := t.TempDir()
	mkQuarter(t, root, "faers_ascii_2024q1", "ascii", "DEMO24Q1.txt", "drug24q1.txt", "REAC2024Q1.txt")
	quarters, err := DiscoverQuarters(root)
	if err != nil {
		t.Fatalf("DiscoverQuarters: %v", err)
	}
	q := quarters[0]

	for _, typ := range MandatoryTables {
		p, err := TableFile(q, typ)
		if err != nil {
			t.Errorf("TableFile(%s): %v", typ, err)
			continue
		}
		if _, statErr := os.Stat(p); statErr != nil {
			t.Errorf("TableFile(%s) = %s, not on disk", typ, p)
		}
	}

	if _, err := TableFile(q, TableOutcome); err == nil {
		t.Error("expected missing-file error for absent OUTC table")
	}
}
