// Package report persists classified batches as CSV snapshots for
// operator review.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/wyzinc/marketsync/internal/model"
)

var columns = []string{
	"sku", "ean", "brand", "title",
	"pid", "status", "confidence", "provenance", "candidates",
	"stock", "cost", "competitor_price", "floor_price", "selling_price",
	"error",
}

// Sort orders records for reproducible snapshots: classification kind
// first, then brand, then title
func Sort(records []model.ClassifiedRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if ra, rb := a.Class.Status.Rank(), b.Class.Status.Rank(); ra != rb {
			return ra < rb
		}
		if a.Record.Brand != b.Record.Brand {
			return a.Record.Brand < b.Record.Brand
		}
		return a.Record.Title < b.Record.Title
	})
}

// WriteCSV writes a sorted snapshot atomically: the file appears
// complete or not at all
func WriteCSV(path string, records []model.ClassifiedRecord) error {
	Sort(records)

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*.csv")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(EscapeRow(row(rec))); err != nil {
			tmp.Close()
			return fmt.Errorf("write row %s: %w", rec.Record.SKU, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace report: %w", err)
	}
	return nil
}

func row(rec model.ClassifiedRecord) []string {
	r := rec.Record
	c := rec.Class

	confidence := ""
	if c.Confidence > 0 {
		confidence = strconv.FormatFloat(c.Confidence, 'f', 2, 64)
	}

	candidates := ""
	if len(c.Candidates) > 0 {
		if data, err := json.Marshal(c.Candidates); err == nil {
			candidates = string(data)
		}
	}

	cost := ""
	if r.Cost.Valid {
		cost = r.Cost.Decimal.StringFixed(2)
	}

	competitor := ""
	if rec.Competition != nil && rec.Competition.Lowest.Valid {
		competitor = rec.Competition.Lowest.Decimal.StringFixed(2)
	}

	floor, selling := "", ""
	if rec.Quote != nil {
		floor = rec.Quote.Floor.StringFixed(2)
		selling = rec.Quote.Final.StringFixed(2)
	}

	return []string{
		r.SKU, r.EAN, r.Brand, r.Title,
		c.PID, string(c.Status), confidence, c.Provenance, candidates,
		strconv.Itoa(rec.Stock), cost, competitor, floor, selling,
		c.Err,
	}
}
