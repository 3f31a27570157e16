package faers

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aetrend/aetrend-cli/internal/tabfile"
)

// Record is one standardized source row: canonical field -> cleaned value.
// Missing and unmapped fields are simply absent.
type Record map[Field]string

// Frame is a standardized source table.
type Frame struct {
	Type    TableType
	Records []Record
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// sexValues normalizes the sex codes seen across years.
var sexValues = map[string]Sex{
	"M": SexMale, "MALE": SexMale,
	"F": SexFemale, "FEMALE": SexFemale,
}

// seriousValues marks outcome codes and seriousness flags that indicate a
// serious event. FAERS OUTC_COD values other than "OT" (other) are all
// serious outcomes.
var seriousValues = map[string]bool{
	"1": true, "Y": true, "YES": true, "TRUE": true,
	"DE": true, "LT": true, "HO": true, "DS": true, "CA": true, "RI": true,
	"0": false, "N": false, "NO": false, "FALSE": false, "OT": false,
}

// Standardize projects a raw table onto the canonical schema for its type.
// Values are trimmed; drug, reaction, and country are uppercased with
// whitespace collapsed. Rows with no case identifier are dropped.
func Standardize(t *tabfile.Table, typ TableType) (*Frame, error) {
	resolved, err := resolveAliases(typ, t.Header)
	if err != nil {
		return nil, err
	}
	f := &Frame{Type: typ, Records: make([]Record, 0, len(t.Rows))}
	for _, row := range t.Rows {
		rec := make(Record, len(resolved))
		for field, idx := range resolved {
			if idx >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[idx])
			if v == "" {
				continue
			}
			switch field {
			case FieldDrugName, FieldReactionPT, FieldCountry:
				v = whitespaceRun.ReplaceAllString(strings.ToUpper(v), " ")
			case FieldSex, FieldSerious, FieldOutcome, FieldSource:
				v = strings.ToUpper(v)
			}
			rec[field] = v
		}
		if rec[FieldCaseID] == "" {
			continue
		}
		f.Records = append(f.Records, rec)
	}
	return f, nil
}

// ParseSex maps a raw sex code to the normalized enum. Anything unrecognized
// is unknown, never an error.
func ParseSex(v string) Sex {
	if s, ok := sexValues[strings.ToUpper(strings.TrimSpace(v))]; ok {
		return s
	}
	return SexUnknown
}

// ParseSerious interprets a seriousness flag or outcome code.
// Returns nil when the value is empty or unrecognized.
func ParseSerious(v string) *bool {
	v = strings.ToUpper(strings.TrimSpace(v))
	if v == "" {
		return nil
	}
	if b, ok := seriousValues[v]; ok {
		return &b
	}
	return nil
}

// ParseAge converts a raw age to years. Non-numeric and negative values
// yield nil; the row is kept, only the age is dropped.
func ParseAge(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}
