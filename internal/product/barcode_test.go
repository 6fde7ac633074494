package product

import (
	"errors"
	"testing"
)

func TestSanitizeBarcode(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"5449000000996", "5449000000996", false},
		{"  1234-5678-9012-8  ", "1234567890128", false},
		{"978-0-306-40615-7", "9780306406157", false},
		{"abc", "", true},
		{"", "", true},
		{"  - - ", "", true},
	}
	for _, tc := range cases {
		got, err := SanitizeBarcode(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrInvalidBarcode) {
				t.Errorf("SanitizeBarcode(%q): want ErrInvalidBarcode, got %v", tc.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("SanitizeBarcode(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("SanitizeBarcode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateEANChecksum(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"ean13 valid", "5449000000996", true},
		{"ean13 bad check digit", "5449000000997", false},
		{"ean13 with separators", "544-9000-000-996", true},
		{"upca valid", "036000291452", true},
		{"upca bad check digit", "036000291453", false},
		{"ean8 valid", "96385074", true},
		{"ean8 bad check digit", "96385075", false},
		{"gtin14 valid", "00012345600012", true},
		{"non standard length passes", "12345", true},
		{"no digits", "abc", false},
	}
	for _, tc := range cases {
		if got := ValidateEANChecksum(tc.in); got != tc.want {
			t.Errorf("%s: ValidateEANChecksum(%q) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}
