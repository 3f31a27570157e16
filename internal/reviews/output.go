package reviews

import (
	"path/filepath"
	"strings"

	"github.com/aetrend/aetrend-cli/internal/tabfile"
)

// ExtractedFile is the output file name inside the output directory.
const ExtractedFile = "reviews_extracted.csv"

// Extracted is a review plus its matched lexicon entries.
type Extracted struct {
	Review
	Keywords []string
	Terms    []string
}

// ExtractAll runs the extractor over every review. Reviews without any
// matched keyword are kept with empty term columns so the output still
// covers the full corpus.
func ExtractAll(revs []Review, ex *Extractor) []Extracted {
	out := make([]Extracted, 0, len(revs))
	for _, r := range revs {
		kws := ex.Extract(r.Text)
		out = append(out, Extracted{
			Review:   r,
			Keywords: kws,
			Terms:    ex.MapTerms(kws),
		})
	}
	return out
}

var extractedHeader = []string{
	"source", "drug", "review_date", "ym", "condition", "rating", "keywords", "mapped_pts",
}

// WriteExtracted writes the extraction results. Multi-valued columns
// join with "|" so the file stays one row per review.
func WriteExtracted(outDir string, rows []Extracted) error {
	records := make([][]string, 0, len(rows))
	for _, e := range rows {
		date := ""
		if e.Date != nil {
			date = e.Date.Format("2006-01-02")
		}
		records = append(records, []string{
			e.Source, e.Drug, date, e.YearMonth(), e.Condition, e.Rating,
			strings.Join(e.Keywords, "|"), strings.Join(e.Terms, "|"),
		})
	}
	return tabfile.WriteCSV(filepath.Join(outDir, ExtractedFile), extractedHeader, records)
}
