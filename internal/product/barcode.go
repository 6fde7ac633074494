package product

import (
	"errors"
	"regexp"
)

var (
	// ErrInvalidBarcode rejects malformed input before any lookup tier runs.
	ErrInvalidBarcode = errors.New("product: invalid barcode")
	// ErrNotFound means every resolution tier was exhausted.
	ErrNotFound = errors.New("product: not found")
)

var nonDigitRe = regexp.MustCompile(`[^\d]`)

// SanitizeBarcode strips everything but digits from scanner or user input.
// Input with no digits at all is rejected.
func SanitizeBarcode(barcode string) (string, error) {
	sanitized := nonDigitRe.ReplaceAllString(barcode, "")
	if sanitized == "" {
		return "", ErrInvalidBarcode
	}
	return sanitized, nil
}

// ValidateEANChecksum verifies the check digit of EAN-8, UPC-A, EAN-13 and
// GTIN-14 barcodes. Non-standard lengths are not rejected.
func ValidateEANChecksum(barcode string) bool {
	sanitized, err := SanitizeBarcode(barcode)
	if err != nil {
		return false
	}
	switch len(sanitized) {
	case 12, 13:
		if len(sanitized) == 12 {
			sanitized = "0" + sanitized // pad UPC-A to EAN-13
		}
		return checkDigit(sanitized, 1, 3) == digit(sanitized, len(sanitized)-1)
	case 8, 14:
		return checkDigit(sanitized, 3, 1) == digit(sanitized, len(sanitized)-1)
	default:
		return true // unknown format, don't reject
	}
}

// checkDigit computes the mod-10 check digit with the given weights for
// even and odd positions of all digits except the last.
func checkDigit(s string, evenWeight, oddWeight int) int {
	total := 0
	for i := 0; i < len(s)-1; i++ {
		if i%2 == 0 {
			total += digit(s, i) * evenWeight
		} else {
			total += digit(s, i) * oddWeight
		}
	}
	return (10 - total%10) % 10
}

func digit(s string, i int) int { return int(s[i] - '0') }
