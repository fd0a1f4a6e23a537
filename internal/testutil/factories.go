package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyzinc/marketsync/internal/model"
)

// TestDataFactory provides methods for generating dynamic test data
type TestDataFactory struct {
	rand *rand.Rand
}

// NewTestDataFactory creates a new test data factory with a seeded random generator
func NewTestDataFactory(seed int64) *TestDataFactory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TestDataFactory{
		rand: rand.New(rand.NewSource(seed)),
	}
}

// GenerateEAN generates a random 13-digit barcode
func (f *TestDataFactory) GenerateEAN() string {
	return fmt.Sprintf("560%010d", f.rand.Int63n(10000000000))
}

// GenerateSKU generates a random supplier SKU
func (f *TestDataFactory) GenerateSKU() string {
	return fmt.Sprintf("SUP-%06d", f.rand.Intn(1000000))
}

// GeneratePID generates a random marketplace product identifier
func (f *TestDataFactory) GeneratePID() string {
	const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ0123456789"
	b := make([]byte, 10)
	for i := range b {
		b[i] = letters[f.rand.Intn(len(letters))]
	}
	return string(b)
}

// GenerateBrand picks a random brand name
func (f *TestDataFactory) GenerateBrand() string {
	brands := []string{"Logitech", "Trust", "Nox", "Krom", "Owlotech", "Talius"}
	return brands[f.rand.Intn(len(brands))]
}

// GenerateTitle generates a random product title for the given brand
func (f *TestDataFactory) GenerateTitle(brand string) string {
	kinds := []string{"Wireless Mouse", "Mechanical Keyboard", "Gaming Headset", "USB Hub", "Webcam"}
	return fmt.Sprintf("%s %s %03d", brand, kinds[f.rand.Intn(len(kinds))], f.rand.Intn(1000))
}

// GenerateCost generates a random supplier cost between 0.50 and 150.00
func (f *TestDataFactory) GenerateCost() decimal.NullDecimal {
	cents := f.rand.Int63n(14950) + 50
	return decimal.NullDecimal{Decimal: decimal.New(cents, -2), Valid: true}
}

// SupplierRecord builds a complete random supplier record
func (f *TestDataFactory) SupplierRecord() model.SupplierRecord {
	brand := f.GenerateBrand()
	return model.SupplierRecord{
		SKU:   f.GenerateSKU(),
		EAN:   f.GenerateEAN(),
		Brand: brand,
		Title: f.GenerateTitle(brand),
		Cost:  f.GenerateCost(),
		Stock: fmt.Sprintf("%d", f.rand.Intn(25)),
	}
}

// CatalogCandidate builds a catalog entry matching the given record
func (f *TestDataFactory) CatalogCandidate(rec model.SupplierRecord, exposeEAN bool) model.CatalogCandidate {
	cand := model.CatalogCandidate{
		PID:   f.GeneratePID(),
		Title: rec.Title,
		Brand: rec.Brand,
	}
	if exposeEAN {
		cand.EANs = []string{rec.EAN}
	}
	return cand
}
