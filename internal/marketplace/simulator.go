package marketplace

import (
	"context"
	"strings"

	"github.com/wyzinc/marketsync/internal/model"
)

// Simulator is an in-memory stand-in for the marketplace API, used in
// tests and in dry-run deployments without credentials. Lookups are
// deterministic over the seeded catalog.
type Simulator struct {
	catalog []model.CatalogCandidate
	eans    map[string][]string
	offers  map[string][]Offer
}

// NewSimulator creates an empty simulator
func NewSimulator() *Simulator {
	return &Simulator{
		eans:   make(map[string][]string),
		offers: make(map[string][]Offer),
	}
}

func (s *Simulator) Available() bool {
	return true
}

// AddItem seeds a catalog item. queryEANs are identifiers the
// platform's search resolves to the item even when the item does not
// expose them in its EAN list.
func (s *Simulator) AddItem(cand model.CatalogCandidate, queryEANs ...string) {
	s.catalog = append(s.catalog, cand)
	for _, ean := range cand.EANs {
		s.eans[ean] = append(s.eans[ean], cand.PID)
	}
	for _, ean := range queryEANs {
		s.eans[ean] = append(s.eans[ean], cand.PID)
	}
}

// AddOffers seeds live offers for a catalog item
func (s *Simulator) AddOffers(pid string, offers ...Offer) {
	s.offers[pid] = append(s.offers[pid], offers...)
}

func (s *Simulator) SearchByEAN(_ context.Context, ean string) ([]model.CatalogCandidate, error) {
	pids := s.eans[ean]
	seen := make(map[string]bool)
	var out []model.CatalogCandidate
	for _, pid := range pids {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		for _, cand := range s.catalog {
			if cand.PID == pid {
				cand.MatchedByQuery = true
				out = append(out, cand)
			}
		}
	}
	return out, nil
}

func (s *Simulator) SearchByKeywords(_ context.Context, keywords string, limit int) ([]model.CatalogCandidate, error) {
	terms := strings.Fields(strings.ToLower(keywords))
	var out []model.CatalogCandidate
	for _, cand := range s.catalog {
		title := strings.ToLower(cand.Title + " " + cand.Brand)
		for _, term := range terms {
			if strings.Contains(title, term) {
				out = append(out, cand)
				break
			}
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Simulator) FetchOffers(_ context.Context, pid string) ([]Offer, error) {
	return s.offers[pid], nil
}
