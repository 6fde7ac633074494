package dish

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Chickpeas (60%), Herbs!", "chickpeas 60 herbs"},
		{"  TAHINI,   pita  ", "tahini pita"},
		{"olive-oil", "olive oil"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDetectFalafelWrap(t *testing.T) {
	d := NewDetector()
	matches := d.Detect("Chickpeas (60%), water, herbs, pita bread, tahini paste", "Wraps, Sandwiches")
	if len(matches) == 0 {
		t.Fatal("no matches")
	}
	best := matches[0]
	if best.Profile.Name != "Falafel Wrap" {
		t.Fatalf("best match %q", best.Profile.Name)
	}
	// 4/4 keywords + category + hero caps at 1.0.
	if best.Confidence != 1.0 {
		t.Fatalf("confidence %v, want 1.0", best.Confidence)
	}
	if len(best.MatchedKeywords) == 0 {
		t.Fatal("matched keywords empty")
	}
	if len(best.MatchedCategories) == 0 {
		t.Fatal("matched categories empty")
	}
}

func TestDetectRequiredTermGate(t *testing.T) {
	d := NewDetectorFromProfiles([]Profile{
		{
			Name:               "Pad Thai",
			IngredientKeywords: []string{"rice noodle", "tamarind", "peanut", "fish sauce", "egg"},
			RequiredTerms:      []string{"noodle"},
		},
	})
	// 4 of 5 keywords present but the required term is absent.
	if matches := d.Detect("tamarind, peanut, fish sauce, egg", ""); len(matches) != 0 {
		t.Fatalf("required-term gate leaked: %+v", matches)
	}
	if matches := d.Detect("rice noodles, tamarind, peanut, fish sauce, egg", ""); len(matches) != 1 {
		t.Fatalf("want 1 match with required term present, got %d", len(matches))
	}
}

func TestDetectEmptyInput(t *testing.T) {
	d := NewDetector()
	if matches := d.Detect("", "wrap"); matches != nil {
		t.Fatalf("empty ingredient text must not match, got %+v", matches)
	}
	if m := d.DetectBest("", ""); m != nil {
		t.Fatalf("DetectBest on empty input: %+v", m)
	}
}

func TestDetectSkipsProfilesWithoutKeywords(t *testing.T) {
	d := NewDetectorFromProfiles([]Profile{
		{Name: "Empty", Aliases: []string{"anything"}},
		{Name: "Soup", IngredientKeywords: []string{"broth"}},
	})
	matches := d.Detect("anything with broth", "")
	if len(matches) != 1 || matches[0].Profile.Name != "Soup" {
		t.Fatalf("got %+v", matches)
	}
}

func TestDetectRankingAndTies(t *testing.T) {
	d := NewDetectorFromProfiles([]Profile{
		{Name: "First", IngredientKeywords: []string{"salt", "pepper", "cumin"}},
		{Name: "Second", IngredientKeywords: []string{"salt", "pepper", "cumin"}},
		{Name: "Strong", IngredientKeywords: []string{"salt"}},
	})
	// First and Second score 2/3, Strong scores 1/1.
	matches := d.Detect("salt and pepper", "")
	if len(matches) != 3 {
		t.Fatalf("want 3 matches, got %d", len(matches))
	}
	if matches[0].Profile.Name != "Strong" || matches[0].Confidence != 1.0 {
		t.Fatalf("ranking wrong: %q (%v) first", matches[0].Profile.Name, matches[0].Confidence)
	}
	// Equal confidence keeps declaration order.
	if matches[1].Profile.Name != "First" || matches[2].Profile.Name != "Second" {
		t.Fatalf("tie-break order: %q, %q", matches[1].Profile.Name, matches[2].Profile.Name)
	}
}

func TestDetectDeterministic(t *testing.T) {
	d := NewDetector()
	text := "chickpeas, tahini, lemon juice, garlic, olive oil"
	first := d.Detect(text, "dips")
	for i := 0; i < 5; i++ {
		if again := d.Detect(text, "dips"); !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%+v\n%+v", i, first, again)
		}
	}
}

func TestScoreBonuses(t *testing.T) {
	profile := Profile{
		Name:               "Test",
		IngredientKeywords: []string{"a", "b", "c", "d"},
		Aliases:            []string{"alias"},
		CategoryKeywords:   []string{"cat"},
		HeroIngredients:    []string{"hero"},
	}
	cases := []struct {
		name       string
		text       string
		categories string
		want       float64
	}{
		{"half keywords", "a b", "", 0.5},
		{"alias bonus", "a b alias", "", 0.65},
		{"category bonus", "a b", "cat", 0.6},
		{"hero bonus", "a b hero", "", 0.55},
		{"capped", "a b c d alias hero", "cat", 1.0},
	}
	for _, tc := range cases {
		m, ok := scoreProfile(profile, tc.text, tc.categories)
		if !ok {
			t.Errorf("%s: no match", tc.name)
			continue
		}
		if m.Confidence != tc.want {
			t.Errorf("%s: confidence %v, want %v", tc.name, m.Confidence, tc.want)
		}
	}
}

func TestEmbeddedProfilesLoad(t *testing.T) {
	d := NewDetector()
	if d.Len() == 0 {
		t.Fatal("embedded profile set is empty")
	}
}
