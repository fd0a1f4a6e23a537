// Package listings holds the seller's own active-listing snapshot,
// refreshed out of band by the inventory sync job and consulted
// during reconciliation.
package listings

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Listing is one row of the seller's inventory snapshot
type Listing struct {
	SKU string
	PID string
}

// Snapshot indexes the seller's active listings by SKU and by PID
type Snapshot struct {
	bySKU map[string]Listing
	byPID map[string]Listing
	mu    sync.RWMutex
}

// NewSnapshot builds an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		bySKU: make(map[string]Listing),
		byPID: make(map[string]Listing),
	}
}

// Add indexes one listing. Later rows win on duplicate keys.
func (s *Snapshot) Add(l Listing) {
	if l.SKU == "" && l.PID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.SKU != "" {
		s.bySKU[l.SKU] = l
	}
	if l.PID != "" {
		s.byPID[l.PID] = l
	}
}

// BySKU looks a listing up by seller SKU
func (s *Snapshot) BySKU(sku string) (Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.bySKU[sku]
	return l, ok
}

// ByPID looks a listing up by marketplace item id
func (s *Snapshot) ByPID(pid string) (Listing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.byPID[pid]
	return l, ok
}

// Len reports the number of distinct SKUs in the snapshot
func (s *Snapshot) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySKU)
}

// Inventory exports vary by report type in how they name the SKU and
// item id columns
var (
	skuHeaders = []string{"seller_sku", "seller-sku", "sellersku", "sku"}
	pidHeaders = []string{"pid", "asin", "asin1", "item_id", "item-id"}
)

// LoadCSV reads an inventory report into a snapshot. Both comma and
// tab delimited exports are accepted; rows without a SKU and without
// a PID are skipped.
func LoadCSV(r io.Reader) (*Snapshot, error) {
	br := bufio.NewReader(r)
	firstLine, readErr := br.ReadString('\n')
	if readErr != nil && readErr != io.EOF {
		return nil, fmt.Errorf("read header: %w", readErr)
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(firstLine), br))
	reader.Comma = detectDelimiter(firstLine)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	skuIdx := findColumn(header, skuHeaders)
	pidIdx := findColumn(header, pidHeaders)
	if skuIdx < 0 && pidIdx < 0 {
		return nil, fmt.Errorf("no sku or item id column in header %v", header)
	}

	snap := NewSnapshot()
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		var l Listing
		if skuIdx >= 0 && skuIdx < len(row) {
			l.SKU = strings.TrimSpace(row[skuIdx])
		}
		if pidIdx >= 0 && pidIdx < len(row) {
			l.PID = strings.TrimSpace(row[pidIdx])
		}
		snap.Add(l)
	}
	return snap, nil
}

// LoadFile reads an inventory report from disk
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open inventory report: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

func findColumn(header []string, names []string) int {
	for i, col := range header {
		normalized := strings.ToLower(strings.TrimSpace(col))
		for _, name := range names {
			if normalized == name {
				return i
			}
		}
	}
	return -1
}

func detectDelimiter(headerLine string) rune {
	if strings.Count(headerLine, "\t") > strings.Count(headerLine, ",") {
		return '\t'
	}
	return ','
}
