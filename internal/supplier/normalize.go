// Package supplier ingests supplier feeds. Feeds vary in column
// naming and in how they report stock, so everything funnels through
// one explicit normalization step.
package supplier

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wyzinc/marketsync/internal/model"
)

// Accepted column synonyms per logical field, in preference order
var fieldSynonyms = map[string][]string{
	"sku":   {"sku_supplier", "sku", "code", "id"},
	"ean":   {"ean", "barcode", "gtin"},
	"brand": {"brand", "manufacturer", "marca"},
	"title": {"name", "title", "description"},
	"cost":  {"price_cost", "cost", "price", "price_net"},
	"stock": {"qty_available", "stock", "qty"},
}

// Normalize maps one raw feed row onto a supplier record. Keys are
// matched case-insensitively against the synonym table.
func Normalize(raw map[string]string) model.SupplierRecord {
	lowered := make(map[string]string, len(raw))
	for k, v := range raw {
		lowered[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	pick := func(field string) string {
		for _, syn := range fieldSynonyms[field] {
			if v := lowered[syn]; v != "" {
				return v
			}
		}
		return ""
	}

	return model.SupplierRecord{
		SKU:   pick("sku"),
		EAN:   model.DigitsOnly(pick("ean")),
		Brand: pick("brand"),
		Title: pick("title"),
		Cost:  ParseDecimal(pick("cost")),
		Stock: pick("stock"),
	}
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ParseDecimal extracts a decimal from free-form price text such as
// "12,34" or "€ 12.34". Absent or unparseable input yields an
// invalid NullDecimal, never an error.
func ParseDecimal(s string) decimal.NullDecimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.NullDecimal{}
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return decimal.NullDecimal{Decimal: d, Valid: true}
	}
	if m := numberPattern.FindString(s); m != "" {
		if d, err := decimal.NewFromString(m); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	return decimal.NullDecimal{}
}

// Labels some feeds use instead of quantities
var (
	zeroStockLabels = map[string]bool{
		"0": true, "oos": true, "outofstock": true,
		"semstock": true, "sem_estoque": true, "semestoque": true,
		"no": true, "false": true,
	}
	lowStockLabels  = map[string]bool{"<2": true, "≤2": true, "le2": true}
	midStockLabels  = map[string]bool{"<10": true, "≤10": true, "le10": true}
	highStockLabels = map[string]bool{">10": true, "≥10": true, "ge10": true, "10+": true, ">9": true}
)

// ParseCount turns a raw stock value into a count. Categorical labels
// map onto their bucket representatives; anything unparseable is 0.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	key := strings.ReplaceAll(strings.ToLower(s), " ", "")
	switch {
	case zeroStockLabels[key]:
		return 0
	case lowStockLabels[key]:
		return 1
	case midStockLabels[key]:
		return 5
	case highStockLabels[key]:
		return 10
	}

	normalized := strings.ReplaceAll(s, ",", ".")
	if f, err := strconv.ParseFloat(normalized, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int(f)
	}
	if m := numberPattern.FindString(normalized); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil && f > 0 {
			return int(f)
		}
	}
	return 0
}

// BucketStock collapses a count onto the discrete scale the supplier's
// own stock API reports. Precise counts are bucketed too; the batch
// output stays at this granularity on purpose.
func BucketStock(n int) int {
	switch {
	case n <= 0:
		return 0
	case n < 2:
		return 1
	case n < 10:
		return 5
	default:
		return 10
	}
}
