package supplier

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestReadCSVCommaDelimited(t *testing.T) {
	input := "sku,ean,brand,name,price_cost,qty_available\n" +
		"S1,5901234123457,Ajax,DoorProtect,24.90,<10\n" +
		"S2,,Dahua,NVR 8ch,119.00,3\n" +
		",123,NoSku,dropped,1.00,1\n"
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].SKU != "S1" || records[0].Stock != "<10" {
		t.Errorf("record 0 = %+v", records[0])
	}
	if !records[1].Cost.Decimal.Equal(decimal.RequireFromString("119.00")) {
		t.Errorf("record 1 cost = %s", records[1].Cost.Decimal)
	}
}

func TestReadCSVSemicolonDelimited(t *testing.T) {
	input := "sku;ean;marca;name;price\nS9;4006381333931;Stabilo;Boligrafo;1,20\n"
	records, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	r := records[0]
	if r.Brand != "Stabilo" || r.EAN != "4006381333931" {
		t.Errorf("record = %+v", r)
	}
	if !r.Cost.Decimal.Equal(decimal.RequireFromString("1.20")) {
		t.Errorf("cost = %s", r.Cost.Decimal)
	}
}

func TestReadCSVEmptyFeed(t *testing.T) {
	records, err := ReadCSV(strings.NewReader("sku,ean\n"))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected no records, got %d", len(records))
	}
}
