package additive

import (
	"reflect"
	"testing"
)

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"en:e150d", "E150d"},
		{"E150D", "E150d"},
		{"150d", "E150d"},
		{" e330 ", "E330"},
		{"E951", "E951"},
		{"e102", "E102"},
	}
	for _, tc := range cases {
		if got := NormalizeCode(tc.in); got != tc.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLookupKnown(t *testing.T) {
	a := NewAnalyzer()
	rec := a.Lookup("en:e150d")
	if rec.Code != "E150d" {
		t.Fatalf("code %q", rec.Code)
	}
	if rec.Concern != ConcernModerate {
		t.Fatalf("concern %q", rec.Concern)
	}
	if rec.Name == "" || rec.Category != "Color" {
		t.Fatalf("record %+v", rec)
	}
}

func TestLookupVariantFallback(t *testing.T) {
	a := NewAnalyzer()
	// E950a is absent; the base entry E950 answers for it.
	rec := a.Lookup("E950a")
	if rec.Code != "E950a" {
		t.Fatalf("code %q, variant lookups keep the queried code", rec.Code)
	}
	if rec.Concern != ConcernModerate {
		t.Fatalf("concern %q", rec.Concern)
	}
	if rec.Name != "Acesulfame K (variant)" {
		t.Fatalf("name %q", rec.Name)
	}
}

func TestLookupUnknown(t *testing.T) {
	a := NewAnalyzer()
	rec := a.Lookup("E9999")
	if rec.Concern != ConcernLowValue {
		t.Fatalf("concern %q, want low value for unknown code", rec.Concern)
	}
	if rec.Code != "E9999" || rec.Category != "Unknown" {
		t.Fatalf("record %+v", rec)
	}
}

func TestAnalyzePreservesOrderAndCount(t *testing.T) {
	a := NewAnalyzer()
	records := a.Analyze([]string{"en:e951", "E150d", "E8888", "e338"})
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	wantCodes := []string{"E951", "E150d", "E8888", "E338"}
	for i, rec := range records {
		if rec.Code != wantCodes[i] {
			t.Fatalf("position %d: %q, want %q", i, rec.Code, wantCodes[i])
		}
	}
	if records[2].Concern != ConcernLowValue {
		t.Fatalf("unknown code concern %q", records[2].Concern)
	}
}

func TestAnalyzeDedupes(t *testing.T) {
	a := NewAnalyzer()
	records := a.Analyze([]string{"E330", "en:e330", "330", "E951"})
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}
	if records[0].Code != "E330" || records[1].Code != "E951" {
		t.Fatalf("codes: %q, %q", records[0].Code, records[1].Code)
	}
}

func TestExtractENumbers(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{
			"tagged and repeated",
			"Contains: water, sugar, E150d, caramel colour (e150d), E950",
			[]string{"E150d", "E950"},
		},
		{
			"separator variants",
			"colour E-102, preservative e 211",
			[]string{"E102", "E211"},
		},
		{
			"bare numbers in range",
			"acidity regulator 330, stabiliser 415",
			[]string{"E330", "E415"},
		},
		{
			"out of range ignored",
			"batch 2024, code 99",
			nil,
		},
		{
			"empty",
			"",
			nil,
		},
	}
	for _, tc := range cases {
		if got := ExtractENumbers(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: ExtractENumbers(%q) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestAnalyzeTextMergesExtracted(t *testing.T) {
	a := NewAnalyzer()
	records := a.AnalyzeText([]string{"en:e951"}, "sweeteners (aspartame E951, acesulfame E950)")
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(records), records)
	}
	if records[0].Code != "E951" || records[1].Code != "E950" {
		t.Fatalf("codes: %q, %q", records[0].Code, records[1].Code)
	}
}

func TestSummarize(t *testing.T) {
	a := NewAnalyzer()
	records := a.Analyze([]string{"E951", "E950", "E330", "E7777"})
	sum := Summarize(records)
	if sum.Total != 4 {
		t.Fatalf("total %d", sum.Total)
	}
	if len(sum.High) != 1 || len(sum.Moderate) != 1 || len(sum.Minimal) != 1 || len(sum.LowValue) != 1 {
		t.Fatalf("buckets: high %d moderate %d minimal %d low %d",
			len(sum.High), len(sum.Moderate), len(sum.Minimal), len(sum.LowValue))
	}
	if sum.Categories["Sweetener"] != 2 {
		t.Fatalf("categories: %v", sum.Categories)
	}
}

func TestEmbeddedTableLoads(t *testing.T) {
	a := NewAnalyzer()
	if a.Len() == 0 {
		t.Fatal("embedded additive table is empty")
	}
}
