// Package cache persists EAN resolution outcomes across runs so a
// repeat batch does not re-query the marketplace catalog for
// identifiers it has already looked up. Keyword-search outcomes are
// never stored here; they depend on mutable brand and title text.
package cache

import (
	"context"
	"time"

	"github.com/wyzinc/marketsync/internal/model"
)

// Entry is the cached slice of a classification. It deliberately has
// no field for candidates, so fuzzy results cannot leak into the
// cache. Negative outcomes (not_found, catalog_ambiguous) are stored
// too, to avoid repeating fruitless searches.
type Entry struct {
	Status     model.Status `json:"status"`
	PID        string       `json:"pid,omitempty"`
	Confidence float64      `json:"confidence,omitempty"`
	Provenance string       `json:"provenance,omitempty"`
	ResolvedAt time.Time    `json:"resolved_at"`
}

// Classification rebuilds the classification the entry was saved from
func (e Entry) Classification() model.Classification {
	return model.Classification{
		Status:     e.Status,
		PID:        e.PID,
		Confidence: e.Confidence,
		Provenance: e.Provenance,
	}
}

// FromClassification extracts the cacheable slice of a classification
func FromClassification(c model.Classification) Entry {
	return Entry{
		Status:     c.Status,
		PID:        c.PID,
		Confidence: c.Confidence,
		Provenance: c.Provenance,
		ResolvedAt: time.Now().UTC(),
	}
}

// Store is a keyed memo of EAN to resolution outcome. Entries never
// expire; invalidation is an explicit Clear.
type Store interface {
	Get(ctx context.Context, ean string) (Entry, bool, error)
	Put(ctx context.Context, ean string, entry Entry) error
	Clear(ctx context.Context) error
}
