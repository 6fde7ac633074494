// Package additive maps E-number food additive codes to a health-concern
// classification using a static lookup table loaded once at startup.
package additive

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Concern is the health-concern classification for an additive.
type Concern string

const (
	ConcernHigh     Concern = "High"
	ConcernModerate Concern = "Moderate"
	ConcernMinimal  Concern = "Minimal"
	ConcernLowValue Concern = "Low Value" // unknown or insufficient data
)

// ParseConcern decodes a concern label, defaulting to ConcernLowValue.
func ParseConcern(s string) Concern {
	switch Concern(s) {
	case ConcernHigh, ConcernModerate, ConcernMinimal:
		return Concern(s)
	default:
		return ConcernLowValue
	}
}

// Record describes a single additive.
type Record struct {
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Concern     Concern `json:"concern"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
}

type tableEntry struct {
	Name        string `json:"name"`
	Concern     string `json:"concern"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

//go:embed additives.json
var defaultTable []byte

// Analyzer resolves additive codes against an immutable mapping table.
type Analyzer struct {
	table map[string]tableEntry
}

// NewAnalyzer loads the embedded default mapping table.
func NewAnalyzer() *Analyzer {
	a, err := newFromJSON(defaultTable)
	if err != nil {
		// The embedded table is validated by tests; an empty analyzer still
		// resolves every code to a synthetic LowValue record.
		return &Analyzer{table: map[string]tableEntry{}}
	}
	return a
}

// NewAnalyzerFromFile loads a mapping table from an external JSON file.
func NewAnalyzerFromFile(path string) (*Analyzer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("additive: read mapping: %w", err)
	}
	return newFromJSON(raw)
}

func newFromJSON(raw []byte) (*Analyzer, error) {
	var table map[string]tableEntry
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("additive: parse mapping: %w", err)
	}
	return &Analyzer{table: table}, nil
}

// Len reports the number of entries in the mapping table.
func (a *Analyzer) Len() int { return len(a.table) }

var codeRe = regexp.MustCompile(`^(E\d+)([A-Z])?$`)

// NormalizeCode canonicalizes raw additive codes for lookup:
// "en:e150d", "E150D", "150d" and " e150d " all map to "E150d".
func NormalizeCode(code string) string {
	code = strings.TrimPrefix(code, "en:")
	code = strings.ToUpper(strings.TrimSpace(code))
	if !strings.HasPrefix(code, "E") {
		code = "E" + code
	}
	if m := codeRe.FindStringSubmatch(code); m != nil {
		if m[2] != "" {
			return m[1] + strings.ToLower(m[2])
		}
		return m[1]
	}
	return code
}

var baseCodeRe = regexp.MustCompile(`^(E\d+)`)

// Lookup returns the record for a single additive code. Codes missing from
// the table fall back to the base code without letter suffix, then to a
// synthetic LowValue record.
func (a *Analyzer) Lookup(code string) Record {
	normalized := NormalizeCode(code)

	if data, ok := a.table[normalized]; ok {
		return Record{
			Code:        normalized,
			Name:        data.Name,
			Concern:     ParseConcern(data.Concern),
			Category:    data.Category,
			Description: data.Description,
		}
	}

	if m := baseCodeRe.FindStringSubmatch(normalized); m != nil {
		if data, ok := a.table[m[1]]; ok && m[1] != normalized {
			return Record{
				Code:        normalized,
				Name:        data.Name + " (variant)",
				Concern:     ParseConcern(data.Concern),
				Category:    data.Category,
				Description: data.Description,
			}
		}
	}

	return Record{
		Code:        normalized,
		Name:        normalized,
		Concern:     ConcernLowValue,
		Category:    "Unknown",
		Description: "This additive is not in our database.",
	}
}

// Analyze resolves a set of additive codes, preserving the count and order
// of the input after normalization and dedup. Unknown codes resolve to
// synthetic LowValue records; Analyze never fails.
func (a *Analyzer) Analyze(codes []string) []Record {
	out := make([]Record, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		normalized := NormalizeCode(code)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, a.Lookup(normalized))
	}
	return out
}

// AnalyzeText behaves like Analyze but also scans free ingredient text for
// E-numbers not present in the tag list.
func (a *Analyzer) AnalyzeText(codes []string, ingredientsText string) []Record {
	out := a.Analyze(codes)
	if ingredientsText == "" {
		return out
	}
	seen := make(map[string]struct{}, len(out))
	for _, rec := range out {
		seen[rec.Code] = struct{}{}
	}
	for _, code := range ExtractENumbers(ingredientsText) {
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, a.Lookup(code))
	}
	return out
}

// Summary groups analyzed records by concern level.
type Summary struct {
	Total      int            `json:"total"`
	High       []Record       `json:"high_concern"`
	Moderate   []Record       `json:"moderate_concern"`
	Minimal    []Record       `json:"minimal_concern"`
	LowValue   []Record       `json:"low_value"`
	Categories map[string]int `json:"categories"`
}

// Summarize buckets records by concern level and counts categories.
func Summarize(records []Record) Summary {
	sum := Summary{Total: len(records), Categories: make(map[string]int)}
	for _, rec := range records {
		switch rec.Concern {
		case ConcernHigh:
			sum.High = append(sum.High, rec)
		case ConcernModerate:
			sum.Moderate = append(sum.Moderate, rec)
		case ConcernMinimal:
			sum.Minimal = append(sum.Minimal, rec)
		default:
			sum.LowValue = append(sum.LowValue, rec)
		}
		category := rec.Category
		if category == "" {
			category = "Unknown"
		}
		sum.Categories[category]++
	}
	return sum
}
