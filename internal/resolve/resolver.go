// Package resolve maps supplier records to marketplace catalog items.
// EAN lookups go through the resolution cache; keyword fallbacks are
// scored fresh every run.
package resolve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wyzinc/marketsync/internal/cache"
	"github.com/wyzinc/marketsync/internal/marketplace"
	"github.com/wyzinc/marketsync/internal/match"
	"github.com/wyzinc/marketsync/internal/model"
)

// searchMultiplier widens keyword searches so scoring has enough
// candidates to rank before trimming to MaxCandidates
const searchMultiplier = 3

// Config tunes the resolver
type Config struct {
	MaxCandidates int
}

// Resolver classifies supplier records against the marketplace
// catalog
type Resolver struct {
	searcher marketplace.CatalogSearcher
	scorer   *match.Scorer
	store    cache.Store
	config   Config
	log      *zap.Logger
}

// New creates a resolver. store may be nil to disable the resolution
// cache.
func New(searcher marketplace.CatalogSearcher, scorer *match.Scorer, store cache.Store, config Config, log *zap.Logger) *Resolver {
	if config.MaxCandidates <= 0 {
		config.MaxCandidates = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		searcher: searcher,
		scorer:   scorer,
		store:    store,
		config:   config,
		log:      log,
	}
}

// Resolve classifies one supplier record. Collaborator failures are
// returned to the caller, which records them per record and moves on.
func (r *Resolver) Resolve(ctx context.Context, rec model.SupplierRecord) (model.Classification, error) {
	ean := model.DigitsOnly(rec.EAN)
	if ean == "" {
		// an identifier with no digits counts as absent
		return r.fuzzy(ctx, rec, model.ProvenanceNoEAN)
	}

	if r.store != nil {
		if entry, ok, err := r.store.Get(ctx, ean); err != nil {
			r.log.Warn("resolution cache read failed", zap.String("ean", ean), zap.Error(err))
		} else if ok {
			return entry.Classification(), nil
		}
	}

	class, err := r.resolveByEAN(ctx, rec, ean)
	if err != nil {
		return model.Classification{}, err
	}

	if r.store != nil {
		if err := r.store.Put(ctx, ean, cache.FromClassification(class)); err != nil {
			r.log.Warn("resolution cache write failed", zap.String("ean", ean), zap.Error(err))
		}
	}
	return class, nil
}

func (r *Resolver) resolveByEAN(ctx context.Context, rec model.SupplierRecord, ean string) (model.Classification, error) {
	candidates, err := r.searcher.SearchByEAN(ctx, ean)
	if err != nil {
		return model.Classification{}, fmt.Errorf("resolve %s: %w", rec.SKU, err)
	}

	if cand, ok := pickExposed(candidates, ean, rec.Brand); ok {
		return model.Classification{
			Status:     model.StatusCatalogMatch,
			PID:        cand.PID,
			Confidence: 0.99,
			Provenance: model.ProvenanceEAN,
		}, nil
	}
	if cand, ok := pickQueryConfirmed(candidates, rec.Brand); ok {
		return model.Classification{
			Status:     model.StatusCatalogMatch,
			PID:        cand.PID,
			Confidence: 0.95,
			Provenance: model.ProvenanceEAN,
		}, nil
	}

	// an EAN was supplied but produced no usable hit
	return r.fuzzy(ctx, rec, model.ProvenanceEANMiss)
}

// fuzzy runs a keyword search and reports the scored candidates for
// operator review. Only the caller decides whether the record had an
// identifier at all; that distinction lives in the provenance.
func (r *Resolver) fuzzy(ctx context.Context, rec model.SupplierRecord, provenance string) (model.Classification, error) {
	keywords := buildKeywords(rec.Brand, rec.Title)
	if keywords == "" {
		status := model.StatusNotFound
		if provenance == model.ProvenanceNoEAN {
			status = model.StatusMissingIdentifier
		}
		return model.Classification{Status: status, Provenance: provenance}, nil
	}

	limit := r.config.MaxCandidates * searchMultiplier
	candidates, err := r.searcher.SearchByKeywords(ctx, keywords, limit)
	if err != nil {
		return model.Classification{}, fmt.Errorf("resolve %s: %w", rec.SKU, err)
	}

	scored := r.scorer.ScoreAll(rec.Brand, rec.Title, candidates)
	scored = dedupeByPID(scored)
	if len(scored) > r.config.MaxCandidates {
		scored = scored[:r.config.MaxCandidates]
	}

	return model.Classification{
		Status:     model.StatusCatalogAmbiguous,
		Candidates: scored,
		Provenance: provenance,
	}, nil
}

// Suggest re-scores a record's keyword candidates without touching
// the cache, for ambiguous-record review
func (r *Resolver) Suggest(ctx context.Context, rec model.SupplierRecord, n int) ([]model.ScoredCandidate, error) {
	if n <= 0 {
		n = r.config.MaxCandidates
	}
	keywords := buildKeywords(rec.Brand, rec.Title)
	if keywords == "" {
		return nil, nil
	}
	candidates, err := r.searcher.SearchByKeywords(ctx, keywords, n*searchMultiplier)
	if err != nil {
		return nil, fmt.Errorf("suggest %s: %w", rec.SKU, err)
	}
	scored := dedupeByPID(r.scorer.ScoreAll(rec.Brand, rec.Title, candidates))
	if len(scored) > n {
		scored = scored[:n]
	}
	return scored, nil
}

// pickExposed prefers candidates that expose the queried EAN, with a
// brand tie-break that preserves search-result order
func pickExposed(candidates []model.CatalogCandidate, ean, brand string) (model.CatalogCandidate, bool) {
	var exposed []model.CatalogCandidate
	for _, c := range candidates {
		if c.HasEAN(ean) {
			exposed = append(exposed, c)
		}
	}
	return pickByBrand(exposed, brand)
}

func pickQueryConfirmed(candidates []model.CatalogCandidate, brand string) (model.CatalogCandidate, bool) {
	var confirmed []model.CatalogCandidate
	for _, c := range candidates {
		if c.MatchedByQuery {
			confirmed = append(confirmed, c)
		}
	}
	return pickByBrand(confirmed, brand)
}

func pickByBrand(candidates []model.CatalogCandidate, brand string) (model.CatalogCandidate, bool) {
	if len(candidates) == 0 {
		return model.CatalogCandidate{}, false
	}
	for _, c := range candidates {
		if c.BrandMatches(brand) {
			return c, true
		}
	}
	return candidates[0], true
}

// buildKeywords joins brand and title, skipping the brand when the
// title already carries it
func buildKeywords(brand, title string) string {
	brand = strings.TrimSpace(brand)
	title = strings.TrimSpace(title)
	if brand == "" {
		return title
	}
	if title == "" {
		return brand
	}
	if strings.Contains(strings.ToLower(title), strings.ToLower(brand)) {
		return title
	}
	return brand + " " + title
}

func dedupeByPID(scored []model.ScoredCandidate) []model.ScoredCandidate {
	seen := make(map[string]bool)
	out := scored[:0:0]
	for _, s := range scored {
		if seen[s.PID] {
			continue
		}
		seen[s.PID] = true
		out = append(out, s)
	}
	return out
}
