// Package product resolves barcodes to product records through a tiered
// pipeline: persistent cache, then the OpenFoodFacts API, then a static
// mock dataset.
package product

import "strings"

// Nutrient is a single nutrient value with its unit and optional share of
// the adult reference daily allowance.
type Nutrient struct {
	Value      float64  `json:"value"`
	Unit       string   `json:"unit"`
	Name       string   `json:"name"`
	RDAPercent *float64 `json:"rda_percent,omitempty"`
}

// Product is the resolved product record handed to enrichment and display.
type Product struct {
	Barcode         string `json:"barcode"`
	Name            string `json:"name"`
	Brand           string `json:"brand"`
	ImageURL        string `json:"image_url,omitempty"`
	IngredientsText string `json:"ingredients_text"`
	Quantity        string `json:"quantity"`
	Categories      string `json:"categories"`

	NutrientsPer100     map[string]Nutrient `json:"nutrients_per_100"`
	NutrientsPerServing map[string]Nutrient `json:"nutrients_per_serving"`
	ServingSize         string              `json:"serving_size"`

	AdditiveTags []string `json:"additives_tags"`

	NovaGroup       *int   `json:"nova_group,omitempty"`
	ProcessingLevel string `json:"processing_level"`

	NutriScoreGrade string `json:"nutriscore_grade"`
	NutriScoreScore *int   `json:"nutriscore_score,omitempty"`
	EcoScoreGrade   string `json:"ecoscore_grade"`

	IsLiquid      bool   `json:"is_liquid"`
	IsRated       bool   `json:"is_rated"`
	StatusMessage string `json:"status_message,omitempty"`

	// Source records which resolution tier produced the record.
	Source string `json:"source,omitempty"` // "cache" | "api" | "mock"
}

// HealthRating derives an overall 0-100 score and label from Nutri-Score,
// NOVA group and additive count.
func (p *Product) HealthRating() (int, string) {
	score := 50 // neutral baseline

	if p.NutriScoreGrade != "" {
		grades := map[string]int{"a": 90, "b": 75, "c": 50, "d": 30, "e": 10}
		if s, ok := grades[strings.ToLower(p.NutriScoreGrade)]; ok {
			score = s
		}
	}
	if p.NovaGroup != nil {
		adjust := map[int]int{1: 15, 2: 5, 3: -5, 4: -20}
		score += adjust[*p.NovaGroup]
	}
	switch n := len(p.AdditiveTags); {
	case n > 5:
		score -= 15
	case n > 2:
		score -= 8
	case n > 0:
		score -= 3
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	switch {
	case score >= 80:
		return score, "Excellent"
	case score >= 60:
		return score, "Good"
	case score >= 40:
		return score, "Moderate"
	case score >= 20:
		return score, "Poor"
	default:
		return score, "Avoid"
	}
}
