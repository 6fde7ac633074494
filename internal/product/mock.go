package product

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed mock_products.json
var defaultMockData []byte

// MockData is the read-only fallback dataset keyed by barcode, used when
// both the cache and the API come up empty.
type MockData struct {
	products map[string]RawProduct
}

// NewMockData loads the embedded default dataset.
func NewMockData() *MockData {
	m, err := newMockFromJSON(defaultMockData)
	if err != nil {
		return &MockData{products: map[string]RawProduct{}}
	}
	return m
}

// NewMockDataFromFile loads a dataset from an external JSON file.
func NewMockDataFromFile(path string) (*MockData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("product: read mock data: %w", err)
	}
	return newMockFromJSON(raw)
}

func newMockFromJSON(raw []byte) (*MockData, error) {
	var products map[string]RawProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("product: parse mock data: %w", err)
	}
	return &MockData{products: products}, nil
}

// Get returns the raw payload for a barcode, or nil when absent.
func (m *MockData) Get(barcode string) RawProduct {
	sanitized, err := SanitizeBarcode(barcode)
	if err != nil {
		return nil
	}
	return m.products[sanitized]
}

// Len reports the number of mock products.
func (m *MockData) Len() int { return len(m.products) }
