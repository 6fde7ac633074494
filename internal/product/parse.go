package product

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// RawProduct is an undecoded product payload as served by OpenFoodFacts,
// the cache or the mock dataset.
type RawProduct map[string]any

func (r RawProduct) str(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func (r RawProduct) intPtr(key string) *int {
	switch v := r[key].(type) {
	case float64:
		n := int(v)
		return &n
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return &n
		}
	}
	return nil
}

func (r RawProduct) strings(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

type nutrientField struct {
	source  string
	target  string
	unit    string
	display string
}

// Nutrient field mapping from OpenFoodFacts per-100g keys to our format.
var nutrientMappingPer100 = []nutrientField{
	{"energy-kcal_100g", "energy_kcal", "kcal", "Energy"},
	{"energy_100g", "energy_kj", "kJ", "Energy (kJ)"},
	{"fat_100g", "fat", "g", "Total Fat"},
	{"saturated-fat_100g", "saturated_fat", "g", "Saturated Fat (SFA)"},
	{"monounsaturated-fat_100g", "monounsaturated_fat", "g", "Monounsaturated Fat (MUFA)"},
	{"polyunsaturated-fat_100g", "polyunsaturated_fat", "g", "Polyunsaturated Fat (PUFA)"},
	{"omega-3-fat_100g", "omega3", "g", "Omega-3"},
	{"omega-6-fat_100g", "omega6", "g", "Omega-6"},
	{"trans-fat_100g", "trans_fat", "g", "Trans Fat"},
	{"cholesterol_100g", "cholesterol", "mg", "Cholesterol"},
	{"carbohydrates_100g", "carbohydrates", "g", "Carbohydrates"},
	{"sugars_100g", "sugars", "g", "Total Sugars"},
	{"sugars_added_100g", "sugars_added", "g", "Added Sugars"},
	{"fiber_100g", "fiber", "g", "Fiber"},
	{"proteins_100g", "proteins", "g", "Proteins"},
	{"salt_100g", "salt", "g", "Salt"},
	{"sodium_100g", "sodium", "g", "Sodium"},
	{"vitamin-a_100g", "vitamin_a", "µg", "Vitamin A"},
	{"vitamin-c_100g", "vitamin_c", "mg", "Vitamin C"},
	{"vitamin-d_100g", "vitamin_d", "µg", "Vitamin D"},
	{"vitamin-e_100g", "vitamin_e", "mg", "Vitamin E"},
	{"calcium_100g", "calcium", "mg", "Calcium"},
	{"iron_100g", "iron", "mg", "Iron"},
	{"potassium_100g", "potassium", "mg", "Potassium"},
}

var nutrientMappingServing = []nutrientField{
	{"energy-kcal_serving", "energy_kcal", "kcal", "Energy"},
	{"fat_serving", "fat", "g", "Total Fat"},
	{"saturated-fat_serving", "saturated_fat", "g", "Saturated Fat"},
	{"trans-fat_serving", "trans_fat", "g", "Trans Fat"},
	{"carbohydrates_serving", "carbohydrates", "g", "Carbohydrates"},
	{"sugars_serving", "sugars", "g", "Total Sugars"},
	{"fiber_serving", "fiber", "g", "Fiber"},
	{"proteins_serving", "proteins", "g", "Proteins"},
	{"salt_serving", "salt", "g", "Salt"},
	{"sodium_serving", "sodium", "g", "Sodium"},
}

type rdaRef struct {
	value float64
	unit  string
}

// Adult reference daily allowance values.
var rdaValues = map[string]rdaRef{
	"energy_kcal":   {2000, "kcal"},
	"fat":           {70, "g"},
	"saturated_fat": {20, "g"},
	"carbohydrates": {260, "g"},
	"sugars":        {90, "g"},
	"fiber":         {25, "g"},
	"proteins":      {50, "g"},
	"salt":          {6, "g"},
	"sodium":        {2400, "mg"},
}

// RDAPercent returns the share of the reference daily allowance for a
// nutrient value, or nil when no RDA is defined.
func RDAPercent(nutrient string, value float64, unit string) *float64 {
	rda, ok := rdaValues[nutrient]
	if !ok {
		return nil
	}
	// Normalize units
	if rda.unit == "mg" && unit == "g" {
		value *= 1000
	} else if rda.unit == "g" && unit == "mg" {
		value /= 1000
	}
	pct := math.Round(value/rda.value*1000) / 10
	return &pct
}

func parseNutrients(nutriments RawProduct, mapping []nutrientField) map[string]Nutrient {
	out := make(map[string]Nutrient)
	for _, field := range mapping {
		raw, ok := nutriments[field.source]
		if !ok {
			continue
		}
		value, ok := toFloat(raw)
		if !ok {
			continue
		}
		out[field.target] = Nutrient{
			Value:      value,
			Unit:       field.unit,
			Name:       field.display,
			RDAPercent: RDAPercent(field.target, value, field.unit),
		}
	}
	return out
}

var liquidQuantityRe = regexp.MustCompile(`\d+\s*(ml|l|litre|liter|cl|dl)`)

var liquidCategories = []string{
	"beverage", "drink", "juice", "soda", "water", "milk",
	"coffee", "tea", "beer", "wine", "spirit", "cocktail",
	"smoothie", "shake", "boisson", "getränk", "bebida",
}

var liquidPackaging = []string{"bottle", "can", "tetra", "carton", "bouteille"}

// DetectLiquid decides whether a product is a liquid from its quantity,
// categories and packaging fields.
func DetectLiquid(raw RawProduct) bool {
	if liquidQuantityRe.MatchString(strings.ToLower(raw.str("quantity"))) {
		return true
	}
	categories := strings.ToLower(raw.str("categories"))
	for _, cat := range liquidCategories {
		if strings.Contains(categories, cat) {
			return true
		}
	}
	packaging := strings.ToLower(raw.str("packaging"))
	for _, pack := range liquidPackaging {
		if strings.Contains(packaging, pack) {
			return true
		}
	}
	return false
}

var ultraProcessedMarkers = []string{
	"high fructose corn syrup", "hydrogenated",
	"maltodextrin", "dextrose", "isolate",
	"protein concentrate", "modified starch",
	"artificial flavor", "artificial colour",
}

// ProcessingLevel classifies how processed a product is, preferring the
// NOVA group and falling back to additive count and ingredient markers.
func ProcessingLevel(novaGroup *int, additiveCount int, ingredientsText string) string {
	if novaGroup != nil {
		descriptions := map[int]string{
			1: "Unprocessed or minimally processed",
			2: "Processed culinary ingredients",
			3: "Processed foods",
			4: "Ultra-processed foods",
		}
		if desc, ok := descriptions[*novaGroup]; ok {
			return desc
		}
		return "Unknown processing level"
	}

	switch {
	case additiveCount >= 5:
		return "Ultra-processed (5+ additives detected)"
	case additiveCount >= 3:
		return "Highly processed (3-4 additives detected)"
	case additiveCount >= 1:
		return "Processed (1-2 additives detected)"
	}

	lowerIngredients := strings.ToLower(ingredientsText)
	markers := 0
	for _, m := range ultraProcessedMarkers {
		if strings.Contains(lowerIngredients, m) {
			markers++
		}
	}
	switch {
	case markers >= 2:
		return "Ultra-processed (contains processed ingredients)"
	case markers >= 1:
		return "Processed"
	}
	return "Minimally processed or unprocessed"
}

// Parse turns a raw payload into a Product record.
func Parse(barcode string, raw RawProduct) *Product {
	p := &Product{Barcode: barcode}
	p.Name = raw.str("product_name")
	if p.Name == "" {
		p.Name = "Unknown Product"
	}
	p.Brand = raw.str("brands")
	p.ImageURL = raw.str("image_url")
	if p.ImageURL == "" {
		p.ImageURL = raw.str("image_front_url")
	}
	p.IngredientsText = raw.str("ingredients_text")
	p.Quantity = raw.str("quantity")
	p.Categories = raw.str("categories")
	p.ServingSize = raw.str("serving_size")

	p.IsLiquid = DetectLiquid(raw)

	nutriments, _ := raw["nutriments"].(map[string]any)
	p.NutrientsPer100 = parseNutrients(nutriments, nutrientMappingPer100)
	p.NutrientsPerServing = parseNutrients(nutriments, nutrientMappingServing)

	// OpenFoodFacts reports sodium in grams; display in mg.
	if sodium, ok := p.NutrientsPer100["sodium"]; ok && sodium.Unit == "g" {
		mg := sodium.Value * 1000
		p.NutrientsPer100["sodium"] = Nutrient{
			Value:      mg,
			Unit:       "mg",
			Name:       "Sodium",
			RDAPercent: RDAPercent("sodium", mg, "mg"),
		}
	}

	p.AdditiveTags = raw.strings("additives_tags")

	p.NovaGroup = raw.intPtr("nova_group")
	p.ProcessingLevel = ProcessingLevel(p.NovaGroup, len(p.AdditiveTags), p.IngredientsText)

	p.NutriScoreGrade = raw.str("nutriscore_grade")
	if p.NutriScoreGrade == "" {
		p.NutriScoreGrade = raw.str("nutrition_grades")
	}
	p.NutriScoreScore = raw.intPtr("nutriscore_score")
	p.EcoScoreGrade = raw.str("ecoscore_grade")

	// A product can be rated when any useful signal is present.
	if len(p.NutrientsPer100) > 0 || p.NutriScoreGrade != "" || p.NovaGroup != nil || p.IngredientsText != "" {
		p.IsRated = true
	} else {
		p.IsRated = false
		p.StatusMessage = "Limited data available for this product."
	}
	return p
}
