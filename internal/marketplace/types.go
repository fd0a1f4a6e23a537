// Package marketplace talks to the marketplace's catalog and pricing
// APIs. The rest of the system consumes it through the two small
// interfaces below so batch runs can swap in the simulator.
package marketplace

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wyzinc/marketsync/internal/model"
)

// CatalogSearcher looks up marketplace catalog items by identifier or
// by free-text keywords
type CatalogSearcher interface {
	Available() bool
	SearchByEAN(ctx context.Context, ean string) ([]model.CatalogCandidate, error)
	SearchByKeywords(ctx context.Context, keywords string, limit int) ([]model.CatalogCandidate, error)
}

// OfferFetcher retrieves the live offers competing on a catalog item
type OfferFetcher interface {
	Available() bool
	FetchOffers(ctx context.Context, pid string) ([]Offer, error)
}

// Offer is one seller's live offer on a catalog item. Shipping is
// zero when the marketplace reports it bundled into the price.
type Offer struct {
	SellerID  string          `json:"seller_id"`
	Price     decimal.Decimal `json:"price"`
	Shipping  decimal.Decimal `json:"shipping"`
	Condition string          `json:"condition"`
}

// Landed returns the buyer's all-in price for the offer
func (o Offer) Landed() decimal.Decimal {
	return o.Price.Add(o.Shipping)
}
