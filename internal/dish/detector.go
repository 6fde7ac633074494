// Package dish infers a likely dish from free-text ingredient lists using a
// curated set of recipe profiles and a weighted keyword heuristic.
package dish

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strings"
)

// Profile is the serialized signature of a dish or recipe.
type Profile struct {
	Name               string   `json:"name"`
	Cuisine            string   `json:"cuisine"`
	Description        string   `json:"description"`
	IngredientKeywords []string `json:"ingredient_keywords"`
	RequiredTerms      []string `json:"required_terms,omitempty"`
	CategoryKeywords   []string `json:"category_keywords,omitempty"`
	Aliases            []string `json:"aliases,omitempty"`
	HeroIngredients    []string `json:"hero_ingredients,omitempty"`
	RecipeURL          string   `json:"recipe_url,omitempty"`
	ServingStyle       string   `json:"serving_style,omitempty"`
}

// Match is the detector's verdict for one profile.
type Match struct {
	Profile           Profile  `json:"profile"`
	Confidence        float64  `json:"confidence"`
	MatchedKeywords   []string `json:"matched_keywords"`
	MatchedCategories []string `json:"matched_categories,omitempty"`
	Reason            string   `json:"reason"`
}

// Scoring weights. The magnitudes are empirical tuning carried over from the
// curated profile set, not derived from a formal model.
const (
	DefaultMinConfidence = 0.35

	aliasBonus    = 0.15
	categoryBonus = 0.10
	heroBonus     = 0.05
	maxConfidence = 1.0
)

//go:embed profiles.json
var defaultProfiles []byte

// Detector scores dish profiles against normalized ingredient text.
// The profile set is loaded once and never mutated.
type Detector struct {
	profiles      []Profile
	minConfidence float64
}

// NewDetector loads the embedded default profile set.
func NewDetector() *Detector {
	d, err := newFromJSON(defaultProfiles)
	if err != nil {
		return &Detector{minConfidence: DefaultMinConfidence}
	}
	return d
}

// NewDetectorFromFile loads profiles from an external JSON file.
func NewDetectorFromFile(path string) (*Detector, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dish: read profiles: %w", err)
	}
	return newFromJSON(raw)
}

// NewDetectorFromProfiles builds a detector over an explicit profile set.
// Declaration order of the slice decides tie-breaks.
func NewDetectorFromProfiles(profiles []Profile) *Detector {
	d := &Detector{profiles: profiles, minConfidence: DefaultMinConfidence}
	d.lowerProfiles()
	return d
}

func newFromJSON(raw []byte) (*Detector, error) {
	var profiles []Profile
	if err := json.Unmarshal(raw, &profiles); err != nil {
		return nil, fmt.Errorf("dish: parse profiles: %w", err)
	}
	d := &Detector{profiles: profiles, minConfidence: DefaultMinConfidence}
	d.lowerProfiles()
	return d, nil
}

func (d *Detector) lowerProfiles() {
	for i := range d.profiles {
		p := &d.profiles[i]
		lowerAll(p.IngredientKeywords)
		lowerAll(p.RequiredTerms)
		lowerAll(p.CategoryKeywords)
		lowerAll(p.Aliases)
		lowerAll(p.HeroIngredients)
	}
}

func lowerAll(ss []string) {
	for i, s := range ss {
		ss[i] = strings.ToLower(s)
	}
}

// Len reports the number of loaded profiles.
func (d *Detector) Len() int { return len(d.profiles) }

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Normalize lowercases text and collapses non-alphanumeric runs to single
// spaces so keyword matching stays predictable.
func Normalize(value string) string {
	if value == "" {
		return ""
	}
	normalized := nonAlnumRe.ReplaceAllString(strings.ToLower(value), " ")
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(normalized, " "))
}

// Detect scores every profile against the ingredient and category text and
// returns matches at or above the confidence threshold, best first. Ties
// keep profile declaration order. Detect never fails; when nothing clears
// the threshold the result is empty.
func (d *Detector) Detect(ingredientText, categoryText string) []Match {
	normText := Normalize(ingredientText)
	if normText == "" {
		return nil
	}
	normCategories := Normalize(categoryText)

	var matches []Match
	for _, profile := range d.profiles {
		if m, ok := scoreProfile(profile, normText, normCategories); ok && m.Confidence >= d.minConfidence {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
	return matches
}

// DetectBest returns the single highest-confidence match, or nil.
func (d *Detector) DetectBest(ingredientText, categoryText string) *Match {
	matches := d.Detect(ingredientText, categoryText)
	if len(matches) == 0 {
		return nil
	}
	return &matches[0]
}

// scoreProfile computes the weighted score of one profile against
// pre-normalized text. Profiles without ingredient keywords never match.
func scoreProfile(profile Profile, normText, normCategories string) (Match, bool) {
	if len(profile.IngredientKeywords) == 0 {
		return Match{}, false
	}

	var keywordHits []string
	for _, kw := range profile.IngredientKeywords {
		if strings.Contains(normText, kw) {
			keywordHits = append(keywordHits, kw)
		}
	}
	if len(keywordHits) == 0 {
		return Match{}, false
	}

	// Hard gate: declared required terms with zero hits score nothing.
	if len(profile.RequiredTerms) > 0 && !anyContained(normText, profile.RequiredTerms) {
		return Match{}, false
	}

	score := float64(len(keywordHits)) / float64(len(profile.IngredientKeywords))

	aliasHits := contained(normText, profile.Aliases)
	categoryHits := contained(normCategories, profile.CategoryKeywords)
	heroHits := contained(normText, profile.HeroIngredients)

	if len(aliasHits) > 0 {
		score += aliasBonus
	}
	if len(categoryHits) > 0 {
		score += categoryBonus
	}
	score += heroBonus * float64(len(heroHits))

	if score > maxConfidence {
		score = maxConfidence
	}

	reason := "Matched keywords"
	if len(aliasHits) > 0 {
		reason += ", alias"
	}
	if len(categoryHits) > 0 {
		reason += ", category"
	}
	if len(heroHits) > 0 {
		reason += ", hero ingredient"
	}

	matched := dedupeSorted(append(append(keywordHits, heroHits...), aliasHits...))

	return Match{
		Profile:           profile,
		Confidence:        math.Round(score*100) / 100,
		MatchedKeywords:   matched,
		MatchedCategories: categoryHits,
		Reason:            reason,
	}, true
}

func contained(text string, terms []string) []string {
	if text == "" {
		return nil
	}
	var hits []string
	for _, term := range terms {
		if strings.Contains(text, term) {
			hits = append(hits, term)
		}
	}
	return hits
}

func anyContained(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}

func dedupeSorted(ss []string) []string {
	seen := make(map[string]struct{}, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
