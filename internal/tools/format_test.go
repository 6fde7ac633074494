package tools

import (
	"strings"
	"testing"

	"github.com/dkwarude-cell/foodscan/internal/additive"
	"github.com/dkwarude-cell/foodscan/internal/dish"
	"github.com/dkwarude-cell/foodscan/internal/product"
)

func TestFormatProductReport(t *testing.T) {
	raw := product.NewMockData().Get("0123456789012")
	if raw == nil {
		t.Fatal("mock cola missing")
	}
	p := product.Parse("0123456789012", raw)
	p.Source = "mock"

	analyzer := additive.NewAnalyzer()
	detector := dish.NewDetector()
	records := analyzer.AnalyzeText(p.AdditiveTags, p.IngredientsText)
	matches := detector.Detect(p.Name+" "+p.IngredientsText, p.Categories)

	out := formatProductReport(p, records, matches)

	for _, want := range []string{
		"# Example Cola Zero",
		"Barcode: 0123456789012",
		"Source: mock",
		"Health rating:",
		"Processing level: Ultra-processed foods",
		"## Nutrition Facts (per 100ml)",
		"## Additives (",
		"E150d",
		"## Ingredients",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}

func TestFormatProductReportUnrated(t *testing.T) {
	p := product.Parse("123", product.RawProduct{})
	out := formatProductReport(p, nil, nil)
	if !strings.Contains(out, p.StatusMessage) {
		t.Fatalf("unrated report must carry the status message:\n%s", out)
	}
	if strings.Contains(out, "Health rating") {
		t.Fatalf("unrated report must not show a rating:\n%s", out)
	}
}

func TestFormatAdditives(t *testing.T) {
	analyzer := additive.NewAnalyzer()
	out := formatAdditives(analyzer.Analyze([]string{"E951", "E330", "E7777"}))

	for _, want := range []string{
		"[High] E951: Aspartame (Sweetener)",
		"[Minimal] E330:",
		"[Low Value] E7777:",
		"Total: 3 (high 1, moderate 0, minimal 1, low value 1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestFormatDishMatches(t *testing.T) {
	detector := dish.NewDetector()
	matches := detector.Detect("chickpeas, herbs, pita, tahini", "wrap")
	if len(matches) == 0 {
		t.Fatal("no matches to format")
	}
	out := formatDishMatches(matches)
	if !strings.Contains(out, "Falafel Wrap") || !strings.Contains(out, "confidence") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(out, "recipe: https://") {
		t.Fatalf("recipe url missing:\n%s", out)
	}
}
