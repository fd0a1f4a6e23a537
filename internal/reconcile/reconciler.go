// Package reconcile cross-references resolved classifications against
// the seller's own listings and the live offer landscape.
package reconcile

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/wyzinc/marketsync/internal/listings"
	"github.com/wyzinc/marketsync/internal/marketplace"
	"github.com/wyzinc/marketsync/internal/model"
)

// Reconciler promotes catalog matches to listed when the seller
// already carries the item, and extracts the lowest competing price
type Reconciler struct {
	snapshot *listings.Snapshot
	offers   marketplace.OfferFetcher
	sellerID string
}

// New creates a reconciler. offers may be nil when no live offer
// lookup is configured; listing promotion still applies.
func New(snapshot *listings.Snapshot, offers marketplace.OfferFetcher, sellerID string) *Reconciler {
	return &Reconciler{
		snapshot: snapshot,
		offers:   offers,
		sellerID: sellerID,
	}
}

// Reconcile applies the own-listing snapshot and offer data to one
// resolved record. An existing listing is ground truth and overrides
// whatever the resolver produced; the reverse transition never
// happens.
func (r *Reconciler) Reconcile(ctx context.Context, rec model.SupplierRecord, class model.Classification) (model.Classification, *model.CompetitivePrice, error) {
	if l, ok := r.snapshot.BySKU(rec.SKU); ok {
		class = listed(l.PID, model.ProvenanceInventorySKU)
	} else if class.PID != "" {
		// catches SKU renames where the item stays listed
		if _, ok := r.snapshot.ByPID(class.PID); ok {
			class = listed(class.PID, model.ProvenanceInventoryPID)
		}
	}

	pid := class.PID
	if pid == "" || !pidBearing(class.Status) {
		return class, nil, nil
	}

	comp := &model.CompetitivePrice{PID: pid}
	if r.offers == nil || !r.offers.Available() {
		return class, comp, nil
	}

	offers, err := r.offers.FetchOffers(ctx, pid)
	if err != nil {
		return class, nil, fmt.Errorf("offers for %s: %w", pid, err)
	}

	ownSeen := false
	var lowest decimal.Decimal
	found := false
	for _, o := range offers {
		if o.SellerID == r.sellerID {
			ownSeen = true
			continue
		}
		landed := o.Landed()
		if !found || landed.LessThan(lowest) {
			lowest = landed
			found = true
		}
	}
	if found {
		comp.Lowest = decimal.NullDecimal{Decimal: lowest, Valid: true}
	}

	// a visible own offer means the local snapshot is stale
	if ownSeen && class.Status != model.StatusListed {
		class = listed(pid, model.ProvenanceOfferSeen)
	}

	return class, comp, nil
}

func listed(pid, provenance string) model.Classification {
	return model.Classification{
		Status:     model.StatusListed,
		PID:        pid,
		Provenance: provenance,
	}
}

func pidBearing(s model.Status) bool {
	return s == model.StatusListed || s == model.StatusCatalogMatch
}
