package reviews

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Layout names a known review-export shape.
type Layout string

const (
	LayoutWebMD Layout = "webmd"
	LayoutUCI   Layout = "uci"
)

// ParseLayout validates a user-supplied layout name.
func ParseLayout(s string) (Layout, error) {
	switch Layout(strings.ToLower(s)) {
	case LayoutWebMD:
		return LayoutWebMD, nil
	case LayoutUCI:
		return LayoutUCI, nil
	}
	return "", fmt.Errorf("unknown review layout %q (want webmd or uci)", s)
}

// Review is one standardized consumer review.
type Review struct {
	Source    string
	Drug      string
	Condition string
	Rating    string
	RawDate   string
	Date      *time.Time
	Text      string
}

// YearMonth renders the review's month bucket, or "" with no date.
func (r Review) YearMonth() string {
	if r.Date == nil {
		return ""
	}
	return r.Date.Format("2006-01")
}

// Column aliases per standardized field, tried in order. The WebMD and
// UCI exports overlap enough to share one table.
var reviewAliases = map[string][]string{
	"drug":        {"drugName", "Drug", "drug_name", "drug"},
	"review_text": {"review", "Review", "comment", "text", "review_text"},
	"review_date": {"date", "Date", "reviewDate", "review_date"},
	"condition":   {"condition", "Condition", "indication"},
	"rating":      {"rating", "Rating", "overall_rating"},
}

var reviewDateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"2-Jan-06",
	"1/2/2006",
	"20060102",
}

func parseReviewDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range reviewDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// Load reads a review CSV export. Rows without review text are dropped;
// drug names uppercase and text lowercases the way the event pipeline
// standardizes its columns, so the two corpora key identically.
func Load(path string, layout Layout) ([]Review, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reviews file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read reviews file %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	cols := resolveReviewColumns(records[0])
	if _, ok := cols["review_text"]; !ok {
		return nil, fmt.Errorf("reviews file %s has no recognizable review text column", path)
	}

	source := "WebMD"
	if layout == LayoutUCI {
		source = "UCI"
	}

	var out []Review
	dropped := 0
	for _, rec := range records[1:] {
		text := strings.ToLower(strings.TrimSpace(field(rec, cols, "review_text")))
		if text == "" {
			dropped++
			continue
		}
		rawDate := strings.TrimSpace(field(rec, cols, "review_date"))
		out = append(out, Review{
			Source:    source,
			Drug:      strings.ToUpper(strings.TrimSpace(field(rec, cols, "drug"))),
			Condition: strings.TrimSpace(field(rec, cols, "condition")),
			Rating:    strings.TrimSpace(field(rec, cols, "rating")),
			RawDate:   rawDate,
			Date:      parseReviewDate(rawDate),
			Text:      text,
		})
	}
	slog.Info("loaded reviews", "path", path, "layout", layout, "rows", len(out), "dropped", dropped)
	return out, nil
}

func resolveReviewColumns(header []string) map[string]int {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.TrimSpace(h)] = i
	}
	cols := make(map[string]int)
	for field, aliases := range reviewAliases {
		for _, a := range aliases {
			if idx, ok := byName[a]; ok {
				cols[field] = idx
				break
			}
		}
	}
	return cols
}

func field(rec []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}
