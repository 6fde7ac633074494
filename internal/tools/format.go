package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dkwarude-cell/foodscan/internal/additive"
	"github.com/dkwarude-cell/foodscan/internal/dish"
	"github.com/dkwarude-cell/foodscan/internal/product"
)

func formatProductReport(p *product.Product, records []additive.Record, matches []dish.Match) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n", p.Name)
	if p.Brand != "" {
		fmt.Fprintf(&sb, "Brand: %s\n", p.Brand)
	}
	fmt.Fprintf(&sb, "Barcode: %s\n", p.Barcode)
	if p.Source != "" {
		fmt.Fprintf(&sb, "Source: %s\n", p.Source)
	}
	sb.WriteString("\n")

	if !p.IsRated {
		fmt.Fprintf(&sb, "%s\n", p.StatusMessage)
		return sb.String()
	}

	score, label := p.HealthRating()
	fmt.Fprintf(&sb, "Health rating: %d/100 (%s)\n", score, label)
	fmt.Fprintf(&sb, "Processing level: %s\n\n", p.ProcessingLevel)

	unit := "100g"
	if p.IsLiquid {
		unit = "100ml"
	}
	fmt.Fprintf(&sb, "## Nutrition Facts (per %s)\n", unit)
	if len(p.NutrientsPer100) == 0 {
		sb.WriteString("No nutrition data available\n")
	} else {
		keys := make([]string, 0, len(p.NutrientsPer100))
		for k := range p.NutrientsPer100 {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			n := p.NutrientsPer100[k]
			line := fmt.Sprintf("- %s: %.1f %s", n.Name, n.Value, n.Unit)
			if n.RDAPercent != nil {
				line += fmt.Sprintf(" (%.1f%% DV)", *n.RDAPercent)
			}
			sb.WriteString(line + "\n")
		}
	}
	sb.WriteString("\n")

	if len(records) > 0 {
		fmt.Fprintf(&sb, "## Additives (%d)\n", len(records))
		sb.WriteString(formatAdditives(records))
		sb.WriteString("\n")
	}

	if len(matches) > 0 {
		sb.WriteString("## Detected dish\n")
		sb.WriteString(formatDishMatches(matches))
		sb.WriteString("\n")
	}

	if p.IngredientsText != "" {
		sb.WriteString("## Ingredients\n")
		ingredients := p.IngredientsText
		if len(ingredients) > 300 {
			ingredients = ingredients[:300] + "..."
		}
		sb.WriteString(ingredients + "\n")
	}
	return sb.String()
}

func formatAdditives(records []additive.Record) string {
	var sb strings.Builder
	for _, rec := range records {
		line := fmt.Sprintf("- [%s] %s: %s", rec.Concern, rec.Code, rec.Name)
		if rec.Category != "" {
			line += fmt.Sprintf(" (%s)", rec.Category)
		}
		sb.WriteString(line + "\n")
	}
	sum := additive.Summarize(records)
	fmt.Fprintf(&sb, "Total: %d (high %d, moderate %d, minimal %d, low value %d)\n",
		sum.Total, len(sum.High), len(sum.Moderate), len(sum.Minimal), len(sum.LowValue))
	return sb.String()
}

func formatDishMatches(matches []dish.Match) string {
	var sb strings.Builder
	for _, m := range matches {
		fmt.Fprintf(&sb, "- %s (%s), confidence %.2f\n", m.Profile.Name, m.Profile.Cuisine, m.Confidence)
		if len(m.MatchedKeywords) > 0 {
			fmt.Fprintf(&sb, "  matched: %s\n", strings.Join(m.MatchedKeywords, ", "))
		}
		if m.Profile.RecipeURL != "" {
			fmt.Fprintf(&sb, "  recipe: %s\n", m.Profile.RecipeURL)
		}
	}
	return sb.String()
}
