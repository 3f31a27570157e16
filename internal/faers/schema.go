package faers

import (
	"fmt"
	"strings"
)

// Field is a canonical column name used across all source years.
type Field string

const (
	FieldCaseID     Field = "case_id"
	FieldDrugName   Field = "drug"
	FieldReactionPT Field = "reaction_pt"
	FieldSex        Field = "sex"
	FieldAge        Field = "age"
	FieldCountry    Field = "country"
	FieldEventDate  Field = "event_date"
	FieldSerious    Field = "serious"
	FieldOutcome    Field = "outcome"
	FieldIndication Field = "indication"
	FieldSource     Field = "report_source"
	FieldStartDate  Field = "therapy_start"
)

// fieldSpec is one canonical field with its known source aliases, in
// preference order: the first alias present in the header wins.
type fieldSpec struct {
	field    Field
	aliases  []string
	required bool
}

// tableSchemas is the per-table-type mapping from heterogeneous source
// headers onto the canonical schema. Unlisted source columns are dropped;
// the canonical schema is a strict projection.
var tableSchemas = map[TableType][]fieldSpec{
	TableDemographics: {
		{FieldCaseID, []string{"PRIMARYID", "CASEID", "ISR"}, true},
		{FieldSex, []string{"SEX", "PATIENTSEX", "GNDR_COD"}, false},
		{FieldAge, []string{"AGE", "AGE_YRS"}, false},
		{FieldCountry, []string{"OCCUR_COUNTRY", "COUNTRY", "REPORTER_COUNTRY"}, false},
		{FieldEventDate, []string{"EVENT_DT", "RECEIPTDATE", "INIT_FDA_DT"}, false},
	},
	TableDrug: {
		{FieldCaseID, []string{"PRIMARYID", "CASEID", "ISR"}, true},
		{FieldDrugName, []string{"DRUGNAME", "MEDICINALPRODUCT"}, true},
	},
	TableReaction: {
		{FieldCaseID, []string{"PRIMARYID", "CASEID", "ISR"}, true},
		{FieldReactionPT, []string{"PT", "REACTIONMEDDRAPT"}, true},
	},
	TableOutcome: {
		{FieldCaseID, []string{"PRIMARYID", "CASEID", "ISR"}, true},
		{FieldSerious, []string{"OUTC_COD", "SERIOUS", "SERIOUSNESS"}, false},
		{FieldOutcome, []string{"OUTC_COD", "OUTCOME"}, false},
	},
	TableIndication: {
		{FieldCaseID, []string{"PRIMARYID", "CASEID", "ISR"}, true},
		{FieldIndication, []string{"INDI_PT", "INDICATION"}, false},
	},
	TableTherapy: {
		{FieldCaseID, []string{"PRIMARYID", "CASEID", "ISR"}, true},
		{FieldStartDate, []string{"START_DT", "THERAPY_START"}, false},
	},
	TableReportSource: {
		{FieldCaseID, []string{"PRIMARYID", "CASEID", "ISR"}, true},
		{FieldSource, []string{"RPSR_COD", "SOURCE"}, false},
	},
}

// SchemaMismatchError indicates a required canonical field that no known
// alias could satisfy for a table.
type SchemaMismatchError struct {
	Table TableType
	Field Field
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch: table %s has no alias for required field %s", e.Table, e.Field)
}

// resolveAliases maps each canonical field of a table type onto the header
// index of its first present alias. Required fields with no alias present
// produce a SchemaMismatchError.
func resolveAliases(typ TableType, header []string) (map[Field]int, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		byName[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	specs, ok := tableSchemas[typ]
	if !ok {
		return nil, fmt.Errorf("unknown table type %q", typ)
	}
	resolved := make(map[Field]int, len(specs))
	for _, spec := range specs {
		found := false
		for _, alias := range spec.aliases {
			if idx, ok := byName[alias]; ok {
				resolved[spec.field] = idx
				found = true
				break
			}
		}
		if !found && spec.required {
			return nil, &SchemaMismatchError{Table: typ, Field: spec.field}
		}
	}
	return resolved, nil
}
