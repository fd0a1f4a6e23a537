package supplier

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestNormalizeFieldSynonyms(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]string
	}{
		{"canonical", map[string]string{
			"sku_supplier": "S1", "ean": "5901234123457", "brand": "Ajax",
			"name": "DoorProtect", "price_cost": "24.90", "qty_available": "5",
		}},
		{"alternates", map[string]string{
			"code": "S1", "barcode": "5901234123457", "manufacturer": "Ajax",
			"title": "DoorProtect", "cost": "24.90", "stock": "5",
		}},
		{"mixed case headers", map[string]string{
			"SKU": "S1", "EAN": "5901234123457", "Marca": "Ajax",
			"Description": "DoorProtect", "Price": "24.90", "Qty": "5",
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := Normalize(c.raw)
			if rec.SKU != "S1" || rec.EAN != "5901234123457" || rec.Brand != "Ajax" {
				t.Errorf("got %+v", rec)
			}
			if rec.Title != "DoorProtect" {
				t.Errorf("title = %q", rec.Title)
			}
			if !rec.Cost.Valid || !rec.Cost.Decimal.Equal(decimal.RequireFromString("24.90")) {
				t.Errorf("cost = %+v", rec.Cost)
			}
		})
	}
}

func TestNormalizeSynonymPreferenceOrder(t *testing.T) {
	rec := Normalize(map[string]string{"sku_supplier": "PREFERRED", "sku": "FALLBACK"})
	if rec.SKU != "PREFERRED" {
		t.Errorf("sku = %q, want sku_supplier to win", rec.SKU)
	}
}

func TestNormalizeStripsEANNoise(t *testing.T) {
	rec := Normalize(map[string]string{"sku": "S1", "ean": " 59-0123 4123457 "})
	if rec.EAN != "5901234123457" {
		t.Errorf("ean = %q", rec.EAN)
	}
}

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		valid bool
	}{
		{"12.34", "12.34", true},
		{"12,34", "12.34", true},
		{"€ 12.34", "12.34", true},
		{"12 uds.", "12", true},
		{"", "", false},
		{"n/a", "", false},
	}
	for _, c := range cases {
		got := ParseDecimal(c.in)
		if got.Valid != c.valid {
			t.Errorf("ParseDecimal(%q).Valid = %v, want %v", c.in, got.Valid, c.valid)
			continue
		}
		if c.valid && !got.Decimal.Equal(decimal.RequireFromString(c.want)) {
			t.Errorf("ParseDecimal(%q) = %s, want %s", c.in, got.Decimal, c.want)
		}
	}
}

func TestParseCount(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"0", 0},
		{"oos", 0},
		{"OutOfStock", 0},
		{"sem stock", 0},
		{"<2", 1},
		{"≤2", 1},
		{"<10", 5},
		{"≤10", 5},
		{">10", 10},
		{"10+", 10},
		{">9", 10},
		{"3", 3},
		{"3,0", 3},
		{"7 uds", 7},
		{"-4", 0},
		{"garbage", 0},
	}
	for _, c := range cases {
		if got := ParseCount(c.in); got != c.want {
			t.Errorf("ParseCount(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestBucketStock(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 5},
		{3, 5},
		{9, 5},
		{10, 10},
		{250, 10},
		{-1, 0},
	}
	for _, c := range cases {
		if got := BucketStock(c.in); got != c.want {
			t.Errorf("BucketStock(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}
