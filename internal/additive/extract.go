package additive

import (
	"regexp"
	"strconv"
)

// Matches E150d, E-150d, E 150d, e150d and bare 150d.
var eNumberRe = regexp.MustCompile(`\b[Ee][-\s]?(\d{3,4}[a-zA-Z]?)\b|\b(\d{3,4}[a-zA-Z]?)\b`)

var leadingDigitsRe = regexp.MustCompile(`^\d+`)

// ExtractENumbers scans free ingredient text for E-number additive codes.
// Only the valid E-number range (100-1999) is considered; results are
// normalized, deduplicated and returned in first-seen order.
func ExtractENumbers(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	seen := make(map[string]struct{})
	for _, m := range eNumberRe.FindAllStringSubmatch(text, -1) {
		num := m[1]
		if num == "" {
			num = m[2]
		}
		digits := leadingDigitsRe.FindString(num)
		base, err := strconv.Atoi(digits)
		if err != nil || base < 100 || base > 1999 {
			continue
		}
		code := NormalizeCode(num)
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
