package faers

import (
	"errors"
	"testing"

	"github.com/aetrend/aetrend-cli/internal/tabfile"
)

func TestStandardizeDemographics(t *testing.T) {
	tbl := &tabfile.Table{
		Name:   "DEMO24Q1",
		Header: []string{"primaryid", "caseversion", "event_dt", "age", "sex", "occur_country"},
		Rows: [][]string{
			{"100001", "1", "20240115", "54", "F", "us"},
			{"100002", "1", "", "-5", "X", " De "},
			{"", "1", "20240101", "30", "M", "US"},
		},
	}
	f, err := Standardize(tbl, TableDemographics)
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	if len(f.Records) != 2 {
		t.Fatalf("got %d records, want 2 (empty case_id dropped)", len(f.Records))
	}
	r := f.Records[0]
	if r[FieldCaseID] != "100001" || r[FieldEventDate] != "20240115" {
		t.Errorf("unexpected first record: %v", r)
	}
	if r[FieldCountry] != "US" {
		t.Errorf("country = %q, want uppercased US", r[FieldCountry])
	}
	if f.Records[1][FieldCountry] != "DE" {
		t.Errorf("country = %q, want trimmed uppercased DE", f.Records[1][FieldCountry])
	}
}

func TestStandardizeAliasFallback(t *testing.T) {
	tbl := &tabfile.Table{
		Header: []string{"CASEID", "DRUGNAME"},
		Rows:   [][]string{{"7", "  aspirin   low dose "}},
	}
	f, err := Standardize(tbl, TableDrug)
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	if got := f.Records[0][FieldDrugName]; got != "ASPIRIN LOW DOSE" {
		t.Errorf("drug = %q, want uppercased with collapsed whitespace", got)
	}
}

func TestStandardizeSchemaMismatch(t *testing.T) {
	tbl := &tabfile.Table{
		Header: []string{"something", "else"},
		Rows:   [][]string{{"a", "b"}},
	}
	_, err := Standardize(tbl, TableReaction)
	var mismatch *SchemaMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("got %v, want SchemaMismatchError", err)
	}
}

func TestParseSex(t *testing.T) {
	cases := map[string]Sex{
		"M": SexMale, "m": SexMale, "F": SexFemale,
		"": SexUnknown, "UNK": SexUnknown, "banana": SexUnknown,
	}
	for in, want := range cases {
		if got := ParseSex(in); got != want {
			t.Errorf("ParseSex(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseSerious(t *testing.T) {
	for _, v := range []string{"1", "Y", "YES", "TRUE", "DE", "HO"} {
		if s := ParseSerious(v); s == nil || !*s {
			t.Errorf("ParseSerious(%q) should be true", v)
		}
	}
	for _, v := range []string{"0", "N", "NO", "OT"} {
		if s := ParseSerious(v); s == nil || *s {
			t.Errorf("ParseSerious(%q) should be false", v)
		}
	}
	if ParseSerious("") != nil || ParseSerious("maybe") != nil {
		t.Error("unknown seriousness should stay null")
	}
}

func TestParseAge(t *testing.T) {
	if a := ParseAge("54.5"); a == nil || *a != 54.5 {
		t.Errorf("ParseAge(54.5) = %v", a)
	}
	if ParseAge("-3") != nil {
		t.Error("negative age should stay null")
	}
	if ParseAge("unknown") != nil {
		t.Error("non-numeric age should stay null")
	}
}
