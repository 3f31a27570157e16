// Package faers normalizes FAERS quarterly ASCII data drops into one
// consolidated adverse-event table. A decade of drops disagrees on folder
// casing, file naming, column naming, and text encoding; everything in this
// package exists to flatten those differences into a single schema.
package faers

import "time"

// TableType identifies one of the per-quarter source tables.
type TableType string

const (
	TableDemographics TableType = "DEMO"
	TableDrug         TableType = "DRUG"
	TableReaction     TableType = "REAC"
	TableOutcome      TableType = "OUTC"
	TableIndication   TableType = "INDI"
	TableTherapy      TableType = "THER"
	TableReportSource TableType = "RPSR"
)

// MandatoryTables must be present and standardizable for a quarter to
// contribute events. Everything else degrades to nullable columns.
var MandatoryTables = []TableType{TableDemographics, TableDrug, TableReaction}

// OptionalTables are left-joined when present.
var OptionalTables = []TableType{TableOutcome, TableIndication, TableTherapy, TableReportSource}

// Sex is the normalized patient sex.
type Sex string

const (
	SexMale    Sex = "M"
	SexFemale  Sex = "F"
	SexUnknown Sex = "UNK"
)

// Quarter describes one discovered quarterly drop.
type Quarter struct {
	Path    string // quarter folder
	DataDir string // the ascii subfolder holding the tables
	Year    int
	Num     int // 1-4
}

// Label returns the conventional YYYYQN label.
func (q Quarter) Label() string {
	return label(q.Year, q.Num)
}

// Event is one denormalized adverse-event row after the quarter join.
// RawDate carries the unparsed source date; the consolidator fills Date.
type Event struct {
	CaseID       string
	RawDate      string
	Date         *time.Time
	Age          *float64
	Sex          Sex
	Country      string
	Drug         string
	Reaction     string
	Serious      *bool
	Outcome      string
	Indication   string
	ReportSource string
	TherapyStart string
}
