package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Status classifies the resolution outcome for one supplier record
type Status string

const (
	StatusListed            Status = "listed"
	StatusCatalogMatch      Status = "catalog_match"
	StatusCatalogAmbiguous  Status = "catalog_ambiguous"
	StatusMissingIdentifier Status = "missing_ean"
	StatusNotFound          Status = "not_found"
	StatusError             Status = "error"
)

// statusRank orders statuses for deterministic report output
var statusRank = map[Status]int{
	StatusListed:            0,
	StatusCatalogMatch:      1,
	StatusCatalogAmbiguous:  2,
	StatusMissingIdentifier: 3,
	StatusNotFound:          4,
	StatusError:             5,
}

// Rank returns the presentation priority of the status (lower sorts first)
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return len(statusRank)
}

// Provenance records which lookup path produced a classification
const (
	ProvenanceInventorySKU = "inventory-sku"
	ProvenanceInventoryPID = "inventory-pid"
	ProvenanceOfferSeen    = "offer-seen"
	ProvenanceEAN          = "ean"
	ProvenanceEANMiss      = "ean-miss"
	ProvenanceNoEAN        = "no-ean"
)

// SupplierRecord is one normalized row of the supplier's catalog
type SupplierRecord struct {
	SKU   string              `json:"sku"`
	EAN   string              `json:"ean"`
	Brand string              `json:"brand"`
	Title string              `json:"title"`
	Cost  decimal.NullDecimal `json:"cost"`
	Stock string              `json:"stock"`
}

// CatalogCandidate is a marketplace catalog item returned by a search.
// MatchedByQuery is true when the platform's own identifier search
// produced the item, independent of whether the item exposes the
// identifier back in its EAN list.
type CatalogCandidate struct {
	PID            string
	Title          string
	Brand          string
	EANs           []string
	MatchedByQuery bool
}

// HasEAN reports whether the candidate exposes the given EAN
func (c CatalogCandidate) HasEAN(ean string) bool {
	for _, e := range c.EANs {
		if e == ean {
			return true
		}
	}
	return false
}

// BrandMatches reports a case-insensitive containment match either way
func (c CatalogCandidate) BrandMatches(brand string) bool {
	if brand == "" || c.Brand == "" {
		return false
	}
	a := strings.ToLower(brand)
	b := strings.ToLower(c.Brand)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// ScoredCandidate is a catalog candidate with its similarity score
type ScoredCandidate struct {
	PID   string  `json:"pid"`
	Title string  `json:"title"`
	Brand string  `json:"brand"`
	Score float64 `json:"score"`
}

// Classification is the resolution outcome for one supplier record.
// Exactly one status holds per record per run; reconciliation may
// promote a record to Listed but never demotes it.
type Classification struct {
	Status     Status            `json:"status"`
	PID        string            `json:"pid,omitempty"`
	Confidence float64           `json:"confidence,omitempty"`
	Candidates []ScoredCandidate `json:"candidates,omitempty"`
	Provenance string            `json:"provenance,omitempty"`
	Err        string            `json:"error,omitempty"`
}

// CompetitivePrice holds the lowest landed price among other sellers'
// offers for a PID. Lowest is absent when no qualifying offer exists.
type CompetitivePrice struct {
	PID    string              `json:"pid"`
	Lowest decimal.NullDecimal `json:"lowest"`
}

// PriceQuote is the solved floor and final price for one record
type PriceQuote struct {
	Floor  decimal.Decimal `json:"floor"`
	Final  decimal.Decimal `json:"final"`
	Margin decimal.Decimal `json:"margin"`
}

// ClassifiedRecord is the assembled per-SKU output of a batch run.
// Stock is bucketed to the supplier API's granularity.
type ClassifiedRecord struct {
	Record      SupplierRecord    `json:"record"`
	Class       Classification    `json:"classification"`
	Stock       int               `json:"stock"`
	Competition *CompetitivePrice `json:"competition,omitempty"`
	Quote       *PriceQuote       `json:"quote,omitempty"`
}

// DigitsOnly strips everything but ASCII digits from an identifier
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
