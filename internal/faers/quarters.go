package faers

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/aetrend/aetrend-cli/internal/tabfile"
)

// quarterPattern accepts faers_ascii_<year><q><1-4> in any case.
var quarterPattern = regexp.MustCompile(`(?i)^faers_ascii_(\d{4})q([1-4])$`)

func label(year, num int) string {
	return fmt.Sprintf("%dQ%d", year, num)
}

// DiscoverQuarters scans root for quarterly drop folders and returns them in
// chronological order. Folders matching the naming convention but lacking a
// usable data subdirectory are excluded with a warning. An empty result is
// valid and means no data is available.
func DiscoverQuarters(root string) ([]Quarter, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &tabfile.FileMissingError{Path: root}
		}
		return nil, fmt.Errorf("read raw dir %s: %w", root, err)
	}

	var quarters []Quarter
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := quarterPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		year, _ := strconv.Atoi(m[1])
		num, _ := strconv.Atoi(m[2])
		dir := filepath.Join(root, e.Name())
		dataDir, ok := findDataDir(dir)
		if !ok {
			slog.Warn("quarter folder has no ascii data subdirectory, skipping", "quarter", e.Name())
			continue
		}
		quarters = append(quarters, Quarter{Path: dir, DataDir: dataDir, Year: year, Num: num})
	}

	sort.Slice(quarters, func(i, j int) bool {
		if quarters[i].Year != quarters[j].Year {
			return quarters[i].Year < quarters[j].Year
		}
		return quarters[i].Num < quarters[j].Num
	})
	return quarters, nil
}

// findDataDir locates the ascii subdirectory regardless of case.
func findDataDir(quarterDir string) (string, bool) {
	entries, err := os.ReadDir(quarterDir)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if e.IsDir() && strings.EqualFold(e.Name(), "ascii") {
			return filepath.Join(quarterDir, e.Name()), true
		}
	}
	return "", false
}

// TableFile resolves the table file for a quarter, trying the naming variants
// seen across years: 2-digit or 4-digit year, upper or lower case.
// Returns *tabfile.FileMissingError when no variant exists.
func TableFile(q Quarter, typ TableType) (string, error) {
	yy := fmt.Sprintf("%02d", q.Year%100)
	yyyy := strconv.Itoa(q.Year)
	candidates := []string{
		fmt.Sprintf("%s%sQ%d.txt", typ, yy, q.Num),
		fmt.Sprintf("%s%sq%d.txt", strings.ToLower(string(typ)), yy, q.Num),
		fmt.Sprintf("%s%sQ%d.txt", typ, yyyy, q.Num),
		fmt.Sprintf("%s%sq%d.txt", strings.ToLower(string(typ)), yyyy, q.Num),
	}
	for _, name := range candidates {
		path := filepath.Join(q.DataDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	// last resort: case-insensitive scan, some drops mix case mid-name
	prefix := strings.ToLower(string(typ))
	entries, err := os.ReadDir(q.DataDir)
	if err == nil {
		for _, e := range entries {
			name := strings.ToLower(e.Name())
			if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".txt") {
				return filepath.Join(q.DataDir, e.Name()), nil
			}
		}
	}
	return "", &tabfile.FileMissingError{Path: filepath.Join(q.DataDir, candidates[0])}
}
