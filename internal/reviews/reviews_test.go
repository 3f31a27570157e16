package reviews

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractCaseInsensitiveAndOrdered(t *testing.T) {
	ex := NewExtractor(nil)
	got := ex.Extract("Severe Headache and Nausea after two days.")
	// "ache" matches inside "headache": substring matching is deliberate.
	want := []string{"headache", "nausea", "ache"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v in lexicon order", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v in lexicon order", got, want)
		}
	}
}

func TestExtractMatchesInsideWords(t *testing.T) {
	ex := NewExtractor(nil)
	got := ex.Extract("gastric discomfort all night")
	found := false
	for _, kw := range got {
		if kw == "gas" {
			found = true
		}
	}
	if !found {
		t.Errorf("substring match inside a longer word expected, got %v", got)
	}
}

func TestExtractMultiWordKeyword(t *testing.T) {
	ex := NewExtractor(nil)
	got := ex.Extract("constant dry mouth, and my vision got blurry")
	want := map[string]bool{"dry mouth": true, "blurry": true, "vision": true}
	for _, kw := range got {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
		delete(want, kw)
	}
	for kw := range want {
		t.Errorf("missing keyword %q", kw)
	}
}

func TestExtractInflections(t *testing.T) {
	ex := NewExtractor(nil)
	got := ex.Extract("my legs were cramping all week")
	found := false
	for _, kw := range got {
		if kw == "cramps" {
			found = true
		}
	}
	if !found {
		t.Errorf("inflected form should map back to its lexicon entry, got %v", got)
	}
}

func TestExtractEmptyText(t *testing.T) {
	ex := NewExtractor(nil)
	if got := ex.Extract("   "); got != nil {
		t.Errorf("blank text should match nothing, got %v", got)
	}
}

func TestMapTermsDeduplicates(t *testing.T) {
	ex := NewExtractor(nil)
	// Both map to PRURITUS; headache maps to HEADACHE.
	got := ex.MapTerms([]string{"itchy", "itch", "headache"})
	if len(got) != 2 || got[0] != "PRURITUS" || got[1] != "HEADACHE" {
		t.Fatalf("got %v, want [PRURITUS HEADACHE]", got)
	}
}

func TestPreferredTermFallback(t *testing.T) {
	v := &Vocab{Keywords: []string{"zaps"}, Terms: map[string]string{}}
	if pt := v.PreferredTerm("zaps"); pt != "ZAPS" {
		t.Errorf("unmapped keyword should uppercase, got %q", pt)
	}
}

func TestLoadVocabPartialOverride(t *testing.T) {
	p := filepath.Join(t.TempDir(), "vocab.yaml")
	if err := os.WriteFile(p, []byte("keywords:\n  - zaps\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	v, err := LoadVocab(p)
	if err != nil {
		t.Fatalf("LoadVocab: %v", err)
	}
	if len(v.Keywords) != 1 || v.Keywords[0] != "zaps" {
		t.Errorf("keywords = %v", v.Keywords)
	}
	if len(v.Terms) == 0 {
		t.Error("terms section should fall back to the built-in mapping")
	}
}

func TestLoadUCILayout(t *testing.T) {
	content := "drugName,condition,review,rating,date,usefulCount\n" +
		"Sertraline,Depression,\"Gave me a terrible headache.\",7,2012-05-20,12\n" +
		"Lipitor,High Cholesterol,\"\",5,2012-06-01,3\n"
	p := filepath.Join(t.TempDir(), "uci.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	revs, err := Load(p, LayoutUCI)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(revs) != 1 {
		t.Fatalf("got %d reviews, want 1 (empty text dropped)", len(revs))
	}
	r := revs[0]
	if r.Drug != "SERTRALINE" || r.Source != "UCI" {
		t.Errorf("standardization wrong: %+v", r)
	}
	if r.Text != strings.ToLower(r.Text) {
		t.Error("review text should lowercase")
	}
	if r.YearMonth() != "2012-05" {
		t.Errorf("month = %q, want 2012-05", r.YearMonth())
	}
}

func TestLoadMissingTextColumn(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(p, []byte("a,b\n1,2\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p, LayoutWebMD); err == nil {
		t.Fatal("expected error for missing review text column")
	}
}

func TestWriteExtracted(t *testing.T) {
	revs, err := Load(writeReviewFile(t), LayoutWebMD)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	rows := ExtractAll(revs, NewExtractor(nil))
	dir := t.TempDir()
	if err := WriteExtracted(dir, rows); err != nil {
		t.Fatalf("WriteExtracted: %v", err)
	}
	b, err := os.ReadFile(filepath.Join(dir, ExtractedFile))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	out := string(b)
	if !strings.Contains(out, "HEADACHE") || !strings.Contains(out, "NAUSEA") {
		t.Errorf("mapped terms missing from output:\n%s", out)
	}
}

func writeReviewFile(t *testing.T) string {
	t.Helper()
	content := "drugName,review,date\n" +
		"Aspirin,\"Headache and nausea within hours\",2024-01-15\n"
	p := filepath.Join(t.TempDir(), "webmd.csv")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}
