package faers

import "testing"

func frame(typ TableType, recs ...Record) *Frame {
	return &Frame{Type: typ, Records: recs}
}

func TestJoinFanOut(t *testing.T) {
	tables := map[TableType]*Frame{
		TableDemographics: frame(TableDemographics,
			Record{FieldCaseID: "1", FieldEventDate: "20240115", FieldSex: "F"},
		),
		TableReaction: frame(TableReaction,
			Record{FieldCaseID: "1", FieldReactionPT: "HEADACHE"},
			Record{FieldCaseID: "1", FieldReactionPT: "NAUSEA"},
		),
		TableDrug: frame(TableDrug,
			Record{FieldCaseID: "1", FieldDrugName: "ASPIRIN"},
			Record{FieldCaseID: "1", FieldDrugName: "IBUPROFEN"},
		),
	}
	events := Join(tables, DefaultJoinDiag)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4 (2 drugs x 2 reactions)", len(events))
	}
}

func TestJoinInnerOnReactions(t *testing.T) {
	tables := map[TableType]*Frame{
		TableDemographics: frame(TableDemographics,
			Record{FieldCaseID: "1"},
			Record{FieldCaseID: "2"},
		),
		TableReaction: frame(TableReaction,
			Record{FieldCaseID: "1", FieldReactionPT: "RASH"},
		),
		TableDrug: frame(TableDrug),
	}
	events := Join(tables, JoinDiag{})
	if len(events) != 1 || events[0].CaseID != "1" {
		t.Fatalf("case without reactions must be excluded, got %v", events)
	}
	if events[0].Drug != "" {
		t.Errorf("case without drugs should carry an empty drug, got %q", events[0].Drug)
	}
}

func TestJoinCaseNotInDemographicsExcluded(t *testing.T) {
	tables := map[TableType]*Frame{
		TableDemographics: frame(TableDemographics, Record{FieldCaseID: "1"}),
		TableReaction: frame(TableReaction,
			Record{FieldCaseID: "1", FieldReactionPT: "RASH"},
			Record{FieldCaseID: "99", FieldReactionPT: "RASH"},
		),
		TableDrug: frame(TableDrug),
	}
	events := Join(tables, JoinDiag{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (case 99 has no demographics)", len(events))
	}
}

func TestJoinOptionalTablesDoNotMultiplyRows(t *testing.T) {
	tables := map[TableType]*Frame{
		TableDemographics: frame(TableDemographics, Record{FieldCaseID: "1"}),
		TableReaction: frame(TableReaction,
			Record{FieldCaseID: "1", FieldReactionPT: "RASH"},
		),
		TableDrug: frame(TableDrug, Record{FieldCaseID: "1", FieldDrugName: "ASPIRIN"}),
		TableOutcome: frame(TableOutcome,
			Record{FieldCaseID: "1", FieldSerious: "OT"},
			Record{FieldCaseID: "1", FieldSerious: "HO"},
			Record{FieldCaseID: "1", FieldSerious: "OT"},
		),
		TableIndication: frame(TableIndication,
			Record{FieldCaseID: "1", FieldIndication: "MIGRAINE"},
			Record{FieldCaseID: "1", FieldIndication: "FEVER"},
		),
	}
	events := Join(tables, JoinDiag{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Serious == nil || !*ev.Serious {
		t.Error("most serious outcome should win")
	}
	if ev.Indication != "MIGRAINE" {
		t.Errorf("indication = %q, want first per case", ev.Indication)
	}
}

func TestJoinCarriesTherapyAndReportSource(t *testing.T) {
	tables := map[TableType]*Frame{
		TableDemographics: frame(TableDemographics, Record{FieldCaseID: "1"}),
		TableReaction:     frame(TableReaction, Record{FieldCaseID: "1", FieldReactionPT: "RASH"}),
		TableDrug:         frame(TableDrug, Record{FieldCaseID: "1", FieldDrugName: "ASPIRIN"}),
		TableReportSource: frame(TableReportSource,
			Record{FieldCaseID: "1", FieldSource: "HP"},
			Record{FieldCaseID: "1", FieldSource: "CSM"},
		),
		TableTherapy: frame(TableTherapy,
			Record{FieldCaseID: "1", FieldStartDate: "20240101"},
		),
	}
	events := Join(tables, JoinDiag{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.ReportSource != "HP" {
		t.Errorf("report source = %q, want first per case", ev.ReportSource)
	}
	if ev.TherapyStart != "20240101" {
		t.Errorf("therapy start = %q, want 20240101", ev.TherapyStart)
	}
}

func TestJoinDeduplicatesWithinQuarter(t *testing.T) {
	tables := map[TableType]*Frame{
		TableDemographics: frame(TableDemographics, Record{FieldCaseID: "1"}),
		TableReaction: frame(TableReaction,
			Record{FieldCaseID: "1", FieldReactionPT: "RASH"},
			Record{FieldCaseID: "1", FieldReactionPT: "RASH"},
		),
		TableDrug: frame(TableDrug,
			Record{FieldCaseID: "1", FieldDrugName: "ASPIRIN"},
			Record{FieldCaseID: "1", FieldDrugName: "ASPIRIN"},
		),
	}
	events := Join(tables, JoinDiag{})
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 after duplicate removal", len(events))
	}
}

func TestJoinFirstDemographicsRowWins(t *testing.T) {
	tables := map[TableType]*Frame{
		TableDemographics: frame(TableDemographics,
			Record{FieldCaseID: "1", FieldCountry: "US"},
			Record{FieldCaseID: "1", FieldCountry: "DE"},
		),
		TableReaction: frame(TableReaction, Record{FieldCaseID: "1", FieldReactionPT: "RASH"}),
		TableDrug:     frame(TableDrug),
	}
	events := Join(tables, JoinDiag{})
	if len(events) != 1 || events[0].Country != "US" {
		t.Fatalf("first demographics row should anchor, got %v", events)
	}
}
