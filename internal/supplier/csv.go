package supplier

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/wyzinc/marketsync/internal/model"
)

// ReadCSV parses a supplier feed export. The delimiter is detected
// from the header line; rows without a SKU are dropped.
func ReadCSV(r io.Reader) ([]model.SupplierRecord, error) {
	br := bufio.NewReader(r)
	firstLine, readErr := br.ReadString('\n')
	if readErr != nil && readErr != io.EOF {
		return nil, fmt.Errorf("read header: %w", readErr)
	}

	delimiter := ','
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		delimiter = ';'
	}
	if strings.Count(firstLine, "\t") > strings.Count(firstLine, string(delimiter)) {
		delimiter = '\t'
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(firstLine), br))
	reader.Comma = delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("parse header: %w", err)
	}

	var records []model.SupplierRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse row: %w", err)
		}
		raw := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(row) {
				raw[col] = row[i]
			}
		}
		rec := Normalize(raw)
		if rec.SKU == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFile parses a supplier feed export from disk
func ReadFile(path string) ([]model.SupplierRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open supplier feed: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
